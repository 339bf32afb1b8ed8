package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"

	"github.com/wagiedev/mcpui-go/internal/errors"
)

// TransformFunc derives render data from a tool result when the caller has none.
type TransformFunc func(result *mcp.CallToolResult) (map[string]any, error)

// Target names where a tool's UI comes from. Exactly one of Bundle or Route is set.
type Target struct {
	// Bundle is the prebuilt bundle name for inline HTML delivery.
	Bundle string `yaml:"bundle,omitempty" json:"bundle,omitempty"`

	// Route is the path under the external base URL for external URL delivery.
	Route string `yaml:"route,omitempty" json:"route,omitempty"`

	// Transform optionally derives render data from the tool result.
	Transform TransformFunc `yaml:"-" json:"-"`
}

// Validate checks the target for a tool.
func (t Target) Validate(tool string) error {
	switch {
	case tool == "":
		return &errors.TargetConfigError{Tool: tool, Err: stderrors.New("tool name is empty")}
	case t.Bundle == "" && t.Route == "":
		return &errors.TargetConfigError{Tool: tool, Err: stderrors.New("one of bundle or route is required")}
	case t.Bundle != "" && t.Route != "":
		return &errors.TargetConfigError{Tool: tool, Err: stderrors.New("bundle and route are mutually exclusive")}
	case t.Route != "" && !strings.HasPrefix(t.Route, "/"):
		return &errors.TargetConfigError{Tool: tool, Err: fmt.Errorf("route %q must start with /", t.Route)}
	}

	return nil
}

// TargetFile is the on-disk form of the tool to delivery target table.
//
// Example:
//
//	externalBaseURL: https://mcp-ui-app.example.com
//	targets:
//	  hello-world:
//	    bundle: helloWorld
//	  list-databases:
//	    route: /ListDatabases
type TargetFile struct {
	ExternalBaseURL string            `yaml:"externalBaseURL,omitempty"`
	Targets         map[string]Target `yaml:"targets"`
}

// LoadTargets decodes and validates a target table.
func LoadTargets(r io.Reader) (*TargetFile, error) {
	var tf TargetFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&tf); err != nil {
		if stderrors.Is(err, io.EOF) {
			return &TargetFile{Targets: map[string]Target{}}, nil
		}

		return nil, fmt.Errorf("decode targets: %w", err)
	}

	for tool, t := range tf.Targets {
		if err := t.Validate(tool); err != nil {
			return nil, err
		}
	}

	if tf.Targets == nil {
		tf.Targets = map[string]Target{}
	}

	return &tf, nil
}

// LoadTargetsFile reads a target table from path.
func LoadTargetsFile(path string) (*TargetFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets: %w", err)
	}
	defer f.Close()

	return LoadTargets(f)
}
