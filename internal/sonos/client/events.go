package client

// EventType identifies the kind of a state-change event.
type EventType string

// Event kinds published to subscribers.
const (
	EventGroupAdded    EventType = "GROUP_ADDED"
	EventGroupUpdated  EventType = "GROUP_UPDATED"
	EventGroupRemoved  EventType = "GROUP_REMOVED"
	EventPlayerUpdated EventType = "PLAYER_UPDATED"
)

// Event is a state-change notification.
//
// ObjectID is the id of the group or player the event concerns. Group is set
// for the group kinds (for GROUP_REMOVED it is the removed object, no longer
// part of the household), Player for EventPlayerUpdated.
type Event struct {
	Type     EventType
	ObjectID string
	Group    *Group
	Player   *Player
}
