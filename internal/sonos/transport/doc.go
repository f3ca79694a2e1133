// Package transport owns the websocket connection to a Sonos player.
//
// It performs the protocol handshake (API-key header, subprotocol
// negotiation, TLS) and exposes blocking send/receive of whole [header, body]
// frames, decoded via the wire package. It deliberately does nothing else:
// no correlation, no routing, no reconnection. A dropped connection is a
// terminal failure surfaced to the caller, who must Connect() again.
//
// # Error taxonomy
//
//   - ErrCannotConnect    — handshake or network failure at connect time
//   - ErrConnectionClosed — the peer closed the connection cleanly
//   - ErrConnectionFailed — abnormal transport error mid-stream
//   - ErrInvalidMessage   — a frame was not the expected textual two-part form
//   - ErrInvalidState     — Connect() on an already-connected transport
//   - ErrNotConnected     — send/receive without a live socket
//
// Check with errors.Is(); all failures are wrapped around these sentinels.
//
// # Thread Safety
//
//   - Send and Disconnect are safe for concurrent use.
//   - Receive must be called from a single goroutine (the receive loop).
package transport
