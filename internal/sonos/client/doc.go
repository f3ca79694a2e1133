// Package client is the high-level Sonos client: one instance manages one
// player's view of its household over a single websocket connection.
//
// Connect resolves the websocket parameters through the player's local HTTP
// info endpoint and opens the socket. StartListening drives the receive loop:
// it fetches the initial household snapshot, resolves the managed player, and
// keeps the in-memory group/player graph synchronized against pushed groups
// and volume events. Each change is published to subscribers registered with
// Subscribe, optionally filtered by event kind and object id.
//
// The group and player objects hold identifiers, not object references:
// a Player stores its active group's id and resolves the Group by lookup,
// so replacing a group on update never leaves stale references behind.
//
// There is no reconnect policy. When the connection drops, StartListening
// returns and the caller decides whether to build a fresh client.
package client
