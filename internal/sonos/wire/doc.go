// Package wire defines the message schema for the Sonos local websocket API.
//
// Every message on the wire, in both directions, is a two-element JSON array:
//
//	[header, body]
//
// The header identifies the namespace and either the command being issued
// (CommandMessage) or the reply/event being delivered (ResultMessage). The
// body carries the command- or event-specific payload and is kept as raw JSON
// until a namespace decodes it into one of the typed models in this package.
//
// A ResultMessage is classified by two optional header fields:
//   - "success" present — a command reply, correlated by cmdId
//   - "type" present — an unsolicited push event, routed by event type
//
// Reference: https://docs.sonos.com/docs/types
package wire
