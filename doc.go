// Package mcpui attaches renderable UI fragments to Model Context Protocol
// tool results and embeds them on the host side.
//
// The package has three cooperating parts:
//
//   - An Augmenter appends a UI resource (inline HTML built from a prebuilt
//     bundle, or an external URL) carrying the tool's render data to a
//     CallToolResult.
//   - A Renderer finds that resource in a result, sources its render data and
//     mounts it as an Embed that performs the handshake with the embedded
//     surface and forwards its actions.
//   - A Runtime runs inside the embedded surface, announces readiness and
//     exposes the received data as a loading, error or ready State.
//
// # Serving UI tools
//
//	server := mcpui.NewServer("demo", "1.0.0",
//	    mcpui.WithLogger(slog.Default()),
//	    mcpui.WithTarget("list-databases", mcpui.Target{Route: "/ListDatabases"}),
//	)
//
//	server.AddUITool(
//	    mcpui.NewTool("list_databases", "Lists databases", nil),
//	    "list-databases",
//	    func(ctx context.Context, req *mcpui.CallToolRequest) (*mcpui.CallToolResult, map[string]any, error) {
//	        data := map[string]any{"databases": dbs, "totalCount": len(dbs)}
//	        return mcpui.TextResult("Found 3 databases"), data, nil
//	    },
//	)
//
//	http.Handle("/mcp", mcpui.NewStreamableHTTPHandler(server, nil))
//
// Augmentation is best effort: a tool without a target, render data that
// fails its schema, or an unreadable bundle leaves the result unchanged.
//
// # Hosting UI resources
//
//	err := mcpui.WithClient(ctx, "http://localhost:3000/mcp", func(c *mcpui.Client) error {
//	    result, err := c.CallTool(ctx, "list_databases", nil)
//	    if err != nil {
//	        return err
//	    }
//
//	    frame, ok := c.Renderer().Render(result).(*mcpui.Frame)
//	    if !ok {
//	        return nil // placeholder
//	    }
//
//	    embed, err := c.Renderer().Mount(frame, port, handler)
//	    if err != nil {
//	        return err
//	    }
//
//	    return embed.Run(ctx)
//	})
//
// # Logging
//
// All components accept a *slog.Logger through WithLogger. Without one they
// are silent.
package mcpui
