package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePlayerVolume records a player volume snapshot.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - playerID: The player's stable identifier (e.g., "RINCON_123")
//   - volume: Volume level, 0-100
//   - muted: Whether the player is muted
//
// Example:
//
//	client.WritePlayerVolume("RINCON_123", 25, false)
func (c *Client) WritePlayerVolume(playerID string, volume int, muted bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"player_volume",
		map[string]string{
			"player_id": playerID,
		},
		map[string]interface{}{
			"volume": volume,
			"muted":  muted,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteGroupPlayback records a group's playback state and size.
//
// Used for tracking listening activity and topology over time.
//
// Parameters:
//   - groupID: The group's identifier
//   - playbackState: The reported state (e.g., "PLAYBACK_STATE_PLAYING")
//   - playerCount: Number of players in the group
func (c *Client) WriteGroupPlayback(groupID string, playbackState string, playerCount int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"group_playback",
		map[string]string{
			"group_id": groupID,
			"state":    playbackState,
		},
		map[string]interface{}{
			"player_count": playerCount,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteHouseholdSize records the number of groups and players in the
// household after a topology change.
func (c *Client) WriteHouseholdSize(householdID string, groups, players int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"household",
		map[string]string{
			"household_id": householdID,
		},
		map[string]interface{}{
			"groups":  groups,
			"players": players,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
