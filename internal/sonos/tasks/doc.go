// Package tasks tracks background goroutines for the connection.
//
// Every unit of concurrent work spawned by the protocol engine (event handler
// dispatches, fire-and-forget sends) runs under a Supervisor so that its
// outcome is always observed: a failure is logged, never silently dropped and
// never propagated to unrelated callers, and CancelAll stops every tracked
// unit on disconnect. Cancellation is cooperative via context.
package tasks
