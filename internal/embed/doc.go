// Package embed implements the runtime that runs inside an embedded UI
// surface.
//
// A Runtime announces readiness to its host exactly once, waits for render
// data, and exposes a three-valued State (loading, error, ready) to the UI it
// serves. Messages of any other type are ignored because the channel is shared
// with the surrounding platform.
package embed
