// Package api implements the command/event protocol on top of the transport.
//
// A Conn turns the single ordered frame stream into many concurrent,
// independently-awaited request/response exchanges, and demultiplexes pushed
// events to the one namespace handler owning each event type.
//
// # Message flow
//
// Commands: the caller builds a header through a namespace (Groups, Playback,
// PlayerVolume, GroupVolume, AudioClip), Conn assigns a fresh correlation id,
// registers a waiter, transmits, and blocks the caller until the matching
// reply arrives or the connection dies. Replies with success:false resolve
// the waiter with a *FailedCommandError carrying the peer's errorCode/reason.
//
// Events: each inbound header carrying a "type" is dispatched to the
// namespace that declared that type at construction. Dispatches run as
// supervised tasks so a slow handler cannot stall the receive loop.
// Unrecognised types are logged at debug level and dropped.
//
// # Thread Safety
//
//   - All exported methods are safe for concurrent use.
//   - The pending-command table is guarded by a single mutex; waiters are
//     one-shot buffered channels resolved exactly once.
package api
