package mcpui

import (
	"context"
	"fmt"
)

// WithClient manages client lifecycle with automatic cleanup.
//
// This helper connects to endpoint, executes the callback function, and
// closes the session when done.
//
// If the callback returns an error, it is returned to the caller.
// If Close() fails, a warning is logged but does not override the callback's error.
//
// Example usage:
//
//	err := mcpui.WithClient(ctx, "http://localhost:8080/mcp", func(c *mcpui.Client) error {
//	    result, err := c.CallTool(ctx, "hello_world", nil)
//	    if err != nil {
//	        return err
//	    }
//	    view := c.Renderer().Render(result)
//	    ...
//	    return nil
//	}, mcpui.WithLogger(logger))
func WithClient(ctx context.Context, endpoint string, fn func(*Client) error, opts ...Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	client, err := Connect(ctx, endpoint, opts...)
	if err != nil {
		return fmt.Errorf("connect client: %w", err)
	}

	return withConnected(client, fn, opts)
}

func withConnected(client *Client, fn func(*Client) error, opts []Option) error {
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log := applyOptions(opts).Log()
			log.Warn("Failed to close client", "error", closeErr)
		}
	}()

	return fn(client)
}
