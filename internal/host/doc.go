// Package host implements the host side of UI embedding.
//
// A Renderer inspects a tool result and produces a View: either a Placeholder
// or a Frame describing the UI resource to mount and the render data to hand
// it. Mounting a Frame on a channel.Port yields an Embed, a per-instance state
// machine that waits for the surface to announce readiness, pushes the render
// data, and forwards the surface's actions to an ActionHandler.
package host
