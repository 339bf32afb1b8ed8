// Package handshake defines the messages exchanged between a host and an
// embedded UI surface.
//
// The embedded surface announces readiness with a Ready message, the host
// answers with RenderData, and the surface may emit actions (ToolAction,
// IntentAction, NotifyAction) which the host acknowledges with a Response.
package handshake
