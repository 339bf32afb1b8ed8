// Package channel carries handshake messages between a host and an embedded
// surface.
//
// A Port is one end of a bidirectional message channel. Frames record the
// origin of their sender so either side can enforce an OriginPolicy. Pipe
// connects two in-process ends; WebSocket bridges a browser page that relays
// postMessage traffic to a Go host.
package channel
