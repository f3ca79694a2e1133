package client

import (
	"context"
	"reflect"
	"sync"

	"github.com/soundmesh/sonosws/internal/sonos/api"
	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// Player is the live view of the player this client manages.
//
// It stores its active group by id and resolves the Group object through
// the client's snapshot on demand, so group replacement on update never
// leaves a stale reference here.
type Player struct {
	client *Client

	mu            sync.RWMutex
	data          wire.Player
	activeGroupID string
	volume        wire.PlayerVolume
}

func newPlayer(c *Client, data wire.Player) *Player {
	return &Player{client: c, data: data}
}

// updateData replaces the player's attributes. Reports whether anything
// changed, comparing structurally against the previous snapshot.
func (p *Player) updateData(data wire.Player) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if reflect.DeepEqual(p.data, data) {
		return false
	}
	p.data = data
	return true
}

// setActiveGroupID records the player's resolved active group. Reports
// whether the resolution changed.
func (p *Player) setActiveGroupID(groupID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.activeGroupID == groupID {
		return false
	}
	p.activeGroupID = groupID
	return true
}

// applyVolume folds in a volume snapshot. Reports whether it changed.
func (p *Player) applyVolume(v wire.PlayerVolume) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.volume == v {
		return false
	}
	p.volume = v
	return true
}

// ID returns the player's stable identity.
func (p *Player) ID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data.ID
}

// Name returns the player's display name.
func (p *Player) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data.Name
}

// Icon returns the player's icon identifier.
func (p *Player) Icon() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data.Icon
}

// ActiveGroup resolves the group this player currently belongs to. Returns
// nil during a transient topology change when no group claims the player.
func (p *Player) ActiveGroup() *Group {
	p.mu.RLock()
	id := p.activeGroupID
	p.mu.RUnlock()
	if id == "" {
		return nil
	}
	g, ok := p.client.Group(id)
	if !ok {
		return nil
	}
	return g
}

// Volume returns the last known volume, 0-100.
func (p *Player) Volume() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volume.Volume
}

// Muted reports whether the player is muted.
func (p *Player) Muted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volume.Muted
}

// VolumeFixed reports whether the player's volume is fixed (line-out mode).
func (p *Player) VolumeFixed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volume.Fixed
}

// GetVolume fetches the player's current volume from the device.
func (p *Player) GetVolume(ctx context.Context) (*wire.PlayerVolume, error) {
	conn, err := p.client.conn()
	if err != nil {
		return nil, err
	}
	return conn.PlayerVolume().GetVolume(ctx, p.ID())
}

// SetVolume sets the player volume, 0-100.
func (p *Player) SetVolume(ctx context.Context, volume int) error {
	conn, err := p.client.conn()
	if err != nil {
		return err
	}
	return conn.PlayerVolume().SetVolume(ctx, p.ID(), volume)
}

// SetRelativeVolume adjusts the player volume by a delta.
func (p *Player) SetRelativeVolume(ctx context.Context, delta int) error {
	conn, err := p.client.conn()
	if err != nil {
		return err
	}
	return conn.PlayerVolume().SetRelativeVolume(ctx, p.ID(), delta)
}

// SetMute mutes or unmutes the player.
func (p *Player) SetMute(ctx context.Context, muted bool) error {
	conn, err := p.client.conn()
	if err != nil {
		return err
	}
	return conn.PlayerVolume().SetMute(ctx, p.ID(), muted)
}

// LoadAudioClip schedules an audio clip (doorbell chime, announcement) on
// the player, ducking or pausing current playback while it sounds.
func (p *Player) LoadAudioClip(ctx context.Context, name, appID string, opts *api.AudioClipOptions) (*wire.AudioClip, error) {
	conn, err := p.client.conn()
	if err != nil {
		return nil, err
	}
	return conn.AudioClip().LoadAudioClip(ctx, p.ID(), name, appID, opts)
}
