package client

import "errors"

var (
	// ErrDiscoveryFailed indicates the player's local info endpoint could
	// not be reached or returned an unusable response.
	ErrDiscoveryFailed = errors.New("client: discovery failed")

	// ErrNotConnected indicates an operation that needs a live connection
	// was invoked before Connect succeeded.
	ErrNotConnected = errors.New("client: not connected")

	// ErrPlayerNotFound indicates the household snapshot does not contain
	// the player this client manages.
	ErrPlayerNotFound = errors.New("client: managed player not in household snapshot")
)
