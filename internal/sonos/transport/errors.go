package transport

import "errors"

// Domain-specific errors for the websocket transport.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrCannotConnect is returned when the websocket handshake fails.
	ErrCannotConnect = errors.New("transport: cannot connect")

	// ErrConnectionClosed is returned by Receive when the peer closed the
	// connection cleanly.
	ErrConnectionClosed = errors.New("transport: connection closed")

	// ErrConnectionFailed is returned on an abnormal transport error.
	ErrConnectionFailed = errors.New("transport: connection failed")

	// ErrInvalidMessage is returned when a received frame is not a text
	// message or fails to parse as a [header, body] array.
	ErrInvalidMessage = errors.New("transport: invalid message")

	// ErrInvalidState is returned when Connect is called on an
	// already-connected transport.
	ErrInvalidState = errors.New("transport: invalid state")

	// ErrNotConnected is returned when sending or receiving without a live
	// socket.
	ErrNotConnected = errors.New("transport: not connected")
)
