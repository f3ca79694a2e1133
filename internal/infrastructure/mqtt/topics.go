package mqtt

import "fmt"

// DefaultTopicPrefix is the base of the topic hierarchy when the
// configuration leaves mqtt.topic_prefix empty.
const DefaultTopicPrefix = "sonos"

// Topics provides builders for the MQTT topics sonosws publishes to.
// Using these helpers keeps topic naming consistent across the codebase.
//
// The hierarchy is: {prefix}/{player|group|system}/{id}/{aspect}
//
//	topics := mqtt.Topics{Prefix: "sonos"}
//	topics.PlayerVolume("RINCON_123")
//	// Returns: "sonos/player/RINCON_123/volume"
type Topics struct {
	// Prefix is the base of the hierarchy. Empty selects DefaultTopicPrefix.
	Prefix string
}

func (t Topics) base() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// PlayerState returns the topic for a player's attributes and active group.
//
// Example: sonos/player/RINCON_123/state
func (t Topics) PlayerState(playerID string) string {
	return fmt.Sprintf("%s/player/%s/state", t.base(), playerID)
}

// PlayerVolume returns the topic for a player's volume snapshots.
//
// Example: sonos/player/RINCON_123/volume
func (t Topics) PlayerVolume(playerID string) string {
	return fmt.Sprintf("%s/player/%s/volume", t.base(), playerID)
}

// GroupState returns the topic for a group's membership and playback state.
//
// Example: sonos/group/RINCON_123:201/state
func (t Topics) GroupState(groupID string) string {
	return fmt.Sprintf("%s/group/%s/state", t.base(), groupID)
}

// SystemStatus returns the online/offline status topic for this instance.
// The Last Will and Testament is published here on unexpected disconnect.
//
// Example: sonos/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.base())
}
