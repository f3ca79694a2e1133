package client

import "github.com/soundmesh/sonosws/internal/sonos/wire"

// applyGroups reconciles a full household snapshot against the current
// group/player state and publishes one event per change.
//
// Diffs are computed against the previous snapshot under the client lock,
// so readers never observe a partially applied update. Events are published
// after the lock is released, in the order the changes were detected.
func (c *Client) applyGroups(data *wire.Groups) {
	if data == nil {
		return
	}

	var pending []Event

	c.mu.Lock()
	seen := make(map[string]bool, len(data.Groups))
	for _, incoming := range data.Groups {
		seen[incoming.ID] = true
		if existing, ok := c.groups[incoming.ID]; ok {
			if existing.updateData(incoming) {
				pending = append(pending, Event{
					Type:     EventGroupUpdated,
					ObjectID: incoming.ID,
					Group:    existing,
				})
			}
			continue
		}
		g := newGroup(c, incoming)
		c.groups[incoming.ID] = g
		pending = append(pending, Event{
			Type:     EventGroupAdded,
			ObjectID: incoming.ID,
			Group:    g,
		})
	}
	for id, g := range c.groups {
		if !seen[id] {
			delete(c.groups, id)
			pending = append(pending, Event{
				Type:     EventGroupRemoved,
				ObjectID: id,
				Group:    g,
			})
		}
	}

	if ev, ok := c.reconcilePlayerLocked(data.Players); ok {
		pending = append(pending, ev)
	}
	c.mu.Unlock()

	for _, ev := range pending {
		c.signalEvent(ev)
	}
}

// reconcilePlayerLocked folds the snapshot's player list into the managed
// player and re-derives its active group. Attribute changes and an active
// group change arriving together collapse into one event.
//
// Callers must hold c.mu.
func (c *Client) reconcilePlayerLocked(players []wire.Player) (Event, bool) {
	var incoming *wire.Player
	for i := range players {
		if players[i].ID == c.playerID {
			incoming = &players[i]
			break
		}
	}

	changed := false
	if incoming != nil {
		if c.player == nil {
			c.player = newPlayer(c, *incoming)
			changed = true
		} else if c.player.updateData(*incoming) {
			changed = true
		}
	}
	if c.player == nil {
		return Event{}, false
	}

	// When no group claims the player (mid-topology-change snapshot), keep
	// the previous resolution and let the next update settle it.
	if groupID, ok := c.activeGroupIDLocked(c.playerID); ok {
		if c.player.setActiveGroupID(groupID) {
			changed = true
		}
	} else {
		c.logger.Debug("no group claims player, deferring active-group resolution",
			"playerId", c.playerID)
	}

	if !changed {
		return Event{}, false
	}
	return Event{Type: EventPlayerUpdated, ObjectID: c.playerID, Player: c.player}, true
}

// activeGroupIDLocked scans the snapshot for the group that claims the
// player, by membership or coordinator role.
//
// Callers must hold c.mu.
func (c *Client) activeGroupIDLocked(playerID string) (string, bool) {
	for id, g := range c.groups {
		if g.containsPlayer(playerID) {
			return id, true
		}
	}
	return "", false
}
