// Package augment attaches UI resources to MCP tool results.
//
// An Augmenter consults a static table from tool name to delivery target.
// Tools without a target pass through untouched. For mapped tools the render
// data is validated against the tool's registered schema, a descriptor with a
// fresh ui:// URI is built, and it is appended after the tool's own content.
// Every failure is logged and turned into the unmodified result: augmentation
// never breaks the underlying tool call.
package augment
