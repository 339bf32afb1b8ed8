// Package mcp holds the tool registry that exposes UI-aware tools over the
// Model Context Protocol.
//
// A Server keeps its own registry of tools so they can be invoked directly
// (for tests and in-process hosts) and installed onto an official SDK server
// for transport-based access. Tools registered with AddUITool return render
// data alongside their result; the registry passes both through the resource
// augmenter so the UI resource is attached before the result leaves the
// server.
package mcp
