package client

import (
	"context"
	"reflect"
	"sync"

	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// Group is a live view of one player group with its transport and volume
// controls.
//
// Identity (ID) is stable for the object's lifetime; all other attributes
// are replaced in place as groups events arrive. Accessors return the most
// recent snapshot.
type Group struct {
	client *Client

	mu   sync.RWMutex
	data wire.Group
}

func newGroup(c *Client, data wire.Group) *Group {
	return &Group{client: c, data: data}
}

// updateData replaces the group's attributes. Reports whether anything
// changed, comparing structurally against the previous snapshot.
func (g *Group) updateData(data wire.Group) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if reflect.DeepEqual(g.data, data) {
		return false
	}
	g.data = data
	return true
}

// containsPlayer reports whether the player is a member or the coordinator
// of this group.
func (g *Group) containsPlayer(playerID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.data.CoordinatorID == playerID {
		return true
	}
	for _, id := range g.data.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// ID returns the group's stable identity.
func (g *Group) ID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.data.ID
}

// Name returns the group's display name.
func (g *Group) Name() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.data.Name
}

// CoordinatorID returns the id of the player leading this group.
func (g *Group) CoordinatorID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.data.CoordinatorID
}

// PlaybackState returns the last reported playback state.
func (g *Group) PlaybackState() wire.PlayBackState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.data.PlaybackState
}

// PlayerIDs returns the ids of the group's members, coordinator included.
func (g *Group) PlayerIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.data.PlayerIDs...)
}

// AreaIDs returns the area ids the group spans, if the household uses areas.
func (g *Group) AreaIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.data.AreaIDs...)
}

// GetPlaybackStatus fetches the group's current playback status.
func (g *Group) GetPlaybackStatus(ctx context.Context) (*wire.PlaybackStatus, error) {
	conn, err := g.client.conn()
	if err != nil {
		return nil, err
	}
	return conn.Playback().GetPlaybackStatus(ctx, g.ID())
}

// Play starts playback on the group.
func (g *Group) Play(ctx context.Context) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.Playback().Play(ctx, g.ID())
}

// Pause pauses playback on the group.
func (g *Group) Pause(ctx context.Context) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.Playback().Pause(ctx, g.ID())
}

// TogglePlayPause toggles between playing and paused.
func (g *Group) TogglePlayPause(ctx context.Context) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.Playback().TogglePlayPause(ctx, g.ID())
}

// SkipToNextTrack advances to the next track in the queue.
func (g *Group) SkipToNextTrack(ctx context.Context) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.Playback().SkipToNextTrack(ctx, g.ID())
}

// SkipToPreviousTrack returns to the previous track in the queue.
func (g *Group) SkipToPreviousTrack(ctx context.Context) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.Playback().SkipToPreviousTrack(ctx, g.ID())
}

// Seek jumps to an absolute position in the current track.
func (g *Group) Seek(ctx context.Context, positionMillis int64) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.Playback().Seek(ctx, g.ID(), positionMillis)
}

// SeekRelative moves the position by a delta, negative to rewind.
func (g *Group) SeekRelative(ctx context.Context, deltaMillis int64) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.Playback().SeekRelative(ctx, g.ID(), deltaMillis)
}

// SetPlayModes updates the group's play-mode toggles. Nil fields are left
// unchanged by the player.
func (g *Group) SetPlayModes(ctx context.Context, modes wire.PlayModes) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.Playback().SetPlayModes(ctx, g.ID(), modes)
}

// LoadLineIn switches the group to the line-in source of the given device.
func (g *Group) LoadLineIn(ctx context.Context, deviceID string, playOnCompletion bool) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.Playback().LoadLineIn(ctx, g.ID(), deviceID, playOnCompletion)
}

// GetVolume fetches the group's current volume.
func (g *Group) GetVolume(ctx context.Context) (*wire.GroupVolume, error) {
	conn, err := g.client.conn()
	if err != nil {
		return nil, err
	}
	return conn.GroupVolume().GetVolume(ctx, g.ID())
}

// SetVolume sets the group volume, 0-100.
func (g *Group) SetVolume(ctx context.Context, volume int) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.GroupVolume().SetVolume(ctx, g.ID(), volume)
}

// SetRelativeVolume adjusts the group volume by a delta.
func (g *Group) SetRelativeVolume(ctx context.Context, delta int) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.GroupVolume().SetRelativeVolume(ctx, g.ID(), delta)
}

// SetMute mutes or unmutes the group.
func (g *Group) SetMute(ctx context.Context, muted bool) error {
	conn, err := g.client.conn()
	if err != nil {
		return err
	}
	return conn.GroupVolume().SetMute(ctx, g.ID(), muted)
}
