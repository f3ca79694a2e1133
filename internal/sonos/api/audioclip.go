package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// AudioClip namespace identifiers.
const (
	audioClipNamespace = "audioClip:1"

	// EventTypeAudioClipStatus is the declared event type owned by this namespace.
	EventTypeAudioClipStatus = "audioClipStatus"
)

// AudioClipHandler receives audioClipStatus events for a subscribed player.
type AudioClipHandler func(playerID string, data *wire.AudioClipStatusEvent)

// AudioClipOptions are the optional parameters of LoadAudioClip.
type AudioClipOptions struct {
	// Priority selects how the clip interacts with ongoing playback.
	Priority wire.AudioClipPriority

	// ClipType selects the built-in chime or a custom stream.
	ClipType wire.AudioClipType

	// StreamURL is the clip source for CUSTOM clips.
	StreamURL string

	// Volume overrides the player volume for the clip (0 keeps the
	// current volume).
	Volume int
}

// AudioClipAPI plays short audio clips (chimes, announcements) on a player
// without interrupting the group's queue.
type AudioClipAPI struct {
	conn *Conn

	subs *handlerRegistry[AudioClipHandler] // playerID -> handlers
}

func newAudioClipAPI(c *Conn) *AudioClipAPI {
	return &AudioClipAPI{
		conn: c,
		subs: newHandlerRegistry[AudioClipHandler](),
	}
}

func (a *AudioClipAPI) eventType() string { return EventTypeAudioClipStatus }

// LoadAudioClip schedules an audio clip on a player and returns the created
// clip, whose status is then tracked through audioClipStatus events.
func (a *AudioClipAPI) LoadAudioClip(ctx context.Context, playerID, name, appID string, opts *AudioClipOptions) (*wire.AudioClip, error) {
	options := map[string]any{
		"name":  name,
		"appId": appID,
	}
	if opts != nil {
		if opts.Priority != "" {
			options["priority"] = opts.Priority
		}
		if opts.ClipType != "" {
			options["clipType"] = opts.ClipType
		}
		if opts.StreamURL != "" {
			options["streamUrl"] = opts.StreamURL
		}
		if opts.Volume > 0 {
			options["volume"] = opts.Volume
		}
	}

	body, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: audioClipNamespace,
		Command:   "loadAudioClip",
		PlayerID:  playerID,
	}, options)
	if err != nil {
		return nil, err
	}

	var clip wire.AudioClip
	if err := json.Unmarshal(body, &clip); err != nil {
		return nil, fmt.Errorf("decoding audio clip: %w", err)
	}
	return &clip, nil
}

// Subscribe registers a handler for audioClipStatus events of a player.
func (a *AudioClipAPI) Subscribe(ctx context.Context, playerID string, handler AudioClipHandler) error {
	token := a.subs.add(playerID, handler)

	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: audioClipNamespace,
		Command:   "subscribe",
		PlayerID:  playerID,
	}, nil)
	if err != nil {
		a.subs.remove(playerID, token)
		return err
	}
	return nil
}

// Unsubscribe stops audioClipStatus events for a player.
func (a *AudioClipAPI) Unsubscribe(ctx context.Context, playerID string) error {
	a.subs.drop(playerID)

	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: audioClipNamespace,
		Command:   "unsubscribe",
		PlayerID:  playerID,
	}, nil)
	return err
}

func (a *AudioClipAPI) handleEvent(header *wire.ResultMessage, body json.RawMessage) {
	var status wire.AudioClipStatusEvent
	if err := json.Unmarshal(body, &status); err != nil {
		a.conn.logger.Warn("undecodable audioClipStatus event", "error", err)
		return
	}

	for _, handler := range a.subs.handlers(header.PlayerID) {
		handler(header.PlayerID, &status)
	}
}
