package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	sdkerrors "github.com/wagiedev/mcpui-go/internal/errors"
)

func TestLoadTargets(t *testing.T) {
	tf, err := LoadTargets(strings.NewReader(`
externalBaseURL: https://ui.example.com
targets:
  hello-world:
    bundle: helloWorld
  list-databases:
    route: /ListDatabases
`))
	require.NoError(t, err)
	require.Equal(t, "https://ui.example.com", tf.ExternalBaseURL)
	require.Equal(t, map[string]Target{
		"hello-world":    {Bundle: "helloWorld"},
		"list-databases": {Route: "/ListDatabases"},
	}, tf.Targets)
}

func TestLoadTargets_Empty(t *testing.T) {
	tf, err := LoadTargets(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, tf.Targets)
}

func TestLoadTargets_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "both bundle and route",
			doc:  "targets:\n  x:\n    bundle: a\n    route: /a\n",
		},
		{
			name: "neither bundle nor route",
			doc:  "targets:\n  x: {}\n",
		},
		{
			name: "relative route",
			doc:  "targets:\n  x:\n    route: ListDatabases\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTargets(strings.NewReader(tt.doc))

			var cfgErr *sdkerrors.TargetConfigError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, "x", cfgErr.Tool)
		})
	}
}

func TestLoadTargets_UnknownField(t *testing.T) {
	_, err := LoadTargets(strings.NewReader("targets:\n  x:\n    bundel: a\n"))
	require.Error(t, err)
}

func TestLoadTargetsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets:\n  hello-world:\n    bundle: helloWorld\n"), 0o600))

	tf, err := LoadTargetsFile(path)
	require.NoError(t, err)
	require.Equal(t, "helloWorld", tf.Targets["hello-world"].Bundle)

	_, err = LoadTargetsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestOptionsDefaults(t *testing.T) {
	var nilOpts *Options
	require.NotNil(t, nilOpts.Log())

	o := &Options{}
	require.Equal(t, DefaultExternalBaseURL, o.BaseURL())

	o.ExternalBaseURL = "http://localhost:3003"
	require.Equal(t, "http://localhost:3003", o.BaseURL())
}
