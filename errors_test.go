package mcpui_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	mcpui "github.com/wagiedev/mcpui-go"
)

func TestLoadTargets_TargetConfigError(t *testing.T) {
	_, err := mcpui.LoadTargets(strings.NewReader(`
targets:
  hello-world:
    bundle: helloWorld
    route: /HelloWorld
`))
	require.Error(t, err)

	var cfgErr *mcpui.TargetConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "hello-world", cfgErr.Tool)

	var base mcpui.MCPUIError
	require.ErrorAs(t, err, &base)
	require.True(t, base.IsMCPUIError())
}

func TestNewRuntime_InvalidOriginPattern(t *testing.T) {
	_, embedPort := mcpui.Pipe("https://host.example.com", "https://ui.example.com")

	_, err := mcpui.NewRuntime(embedPort, mcpui.WithAllowedOrigins("https://[a-"))
	require.Error(t, err)
}

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{
		mcpui.ErrNoTarget,
		mcpui.ErrUnknownMessageType,
		mcpui.ErrNotMounted,
		mcpui.ErrEmbedClosed,
		mcpui.ErrChannelClosed,
		mcpui.ErrOriginRejected,
		mcpui.ErrActionRateLimited,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}

			require.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestMount_NoFrame(t *testing.T) {
	hostPort, _ := mcpui.Pipe("h", "e")

	_, err := mcpui.NewRenderer().Mount(nil, hostPort, nil)
	require.ErrorIs(t, err, mcpui.ErrNotMounted)
}
