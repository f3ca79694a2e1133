package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// Playback namespace identifiers.
const (
	playbackNamespace = "playback:1"

	// EventTypePlaybackStatus is the declared event type owned by this namespace.
	EventTypePlaybackStatus = "playbackStatus"
)

// PlaybackHandler receives playbackStatus events for a subscribed group.
type PlaybackHandler func(groupID string, data *wire.PlaybackStatus)

// PlaybackAPI issues transport-control commands. Transport controls target
// groups rather than individual players; the coordinator executes them.
type PlaybackAPI struct {
	conn *Conn

	subs *handlerRegistry[PlaybackHandler] // groupID -> handlers
}

func newPlaybackAPI(c *Conn) *PlaybackAPI {
	return &PlaybackAPI{
		conn: c,
		subs: newHandlerRegistry[PlaybackHandler](),
	}
}

func (a *PlaybackAPI) eventType() string { return EventTypePlaybackStatus }

// GetPlaybackStatus fetches the current playback status of a group.
func (a *PlaybackAPI) GetPlaybackStatus(ctx context.Context, groupID string) (*wire.PlaybackStatus, error) {
	body, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playbackNamespace,
		Command:   "getPlaybackStatus",
		GroupID:   groupID,
	}, nil)
	if err != nil {
		return nil, err
	}

	var status wire.PlaybackStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("decoding playback status: %w", err)
	}
	return &status, nil
}

// Play sends the play command to a group.
func (a *PlaybackAPI) Play(ctx context.Context, groupID string) error {
	return a.control(ctx, groupID, "play")
}

// Pause sends the pause command to a group.
func (a *PlaybackAPI) Pause(ctx context.Context, groupID string) error {
	return a.control(ctx, groupID, "pause")
}

// TogglePlayPause toggles between playing and paused.
func (a *PlaybackAPI) TogglePlayPause(ctx context.Context, groupID string) error {
	return a.control(ctx, groupID, "togglePlayPause")
}

// SkipToNextTrack skips to the next track.
func (a *PlaybackAPI) SkipToNextTrack(ctx context.Context, groupID string) error {
	return a.control(ctx, groupID, "skipToNextTrack")
}

// SkipToPreviousTrack skips to the previous track.
func (a *PlaybackAPI) SkipToPreviousTrack(ctx context.Context, groupID string) error {
	return a.control(ctx, groupID, "skipToPreviousTrack")
}

// Seek jumps to an absolute position in the current track.
func (a *PlaybackAPI) Seek(ctx context.Context, groupID string, positionMillis int64) error {
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playbackNamespace,
		Command:   "seek",
		GroupID:   groupID,
	}, map[string]any{"positionMillis": positionMillis})
	return err
}

// SeekRelative moves the position in the current track by a delta.
func (a *PlaybackAPI) SeekRelative(ctx context.Context, groupID string, deltaMillis int64) error {
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playbackNamespace,
		Command:   "seekRelative",
		GroupID:   groupID,
	}, map[string]any{"deltaMillis": deltaMillis})
	return err
}

// SetPlayModes updates the group's play-mode toggles. Only the modes set on
// the argument (non-nil pointers) are changed.
func (a *PlaybackAPI) SetPlayModes(ctx context.Context, groupID string, modes wire.PlayModes) error {
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playbackNamespace,
		Command:   "setPlayModes",
		GroupID:   groupID,
	}, map[string]any{"playModes": modes})
	return err
}

// LoadLineIn switches the group to a line-in source. deviceID selects the
// source player; empty means the local device. If playOnCompletion is false
// the source loads but playback requires a separate play command.
func (a *PlaybackAPI) LoadLineIn(ctx context.Context, groupID, deviceID string, playOnCompletion bool) error {
	options := map[string]any{"playOnCompletion": playOnCompletion}
	if deviceID != "" {
		options["deviceId"] = deviceID
	}
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playbackNamespace,
		Command:   "loadLineIn",
		GroupID:   groupID,
	}, options)
	return err
}

// Subscribe registers a handler for playbackStatus events of a group.
func (a *PlaybackAPI) Subscribe(ctx context.Context, groupID string, handler PlaybackHandler) error {
	token := a.subs.add(groupID, handler)

	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playbackNamespace,
		Command:   "subscribe",
		GroupID:   groupID,
	}, nil)
	if err != nil {
		a.subs.remove(groupID, token)
		return err
	}
	return nil
}

// Unsubscribe stops playbackStatus events for a group.
func (a *PlaybackAPI) Unsubscribe(ctx context.Context, groupID string) error {
	a.subs.drop(groupID)

	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playbackNamespace,
		Command:   "unsubscribe",
		GroupID:   groupID,
	}, nil)
	return err
}

func (a *PlaybackAPI) control(ctx context.Context, groupID, command string) error {
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playbackNamespace,
		Command:   command,
		GroupID:   groupID,
	}, nil)
	return err
}

func (a *PlaybackAPI) handleEvent(header *wire.ResultMessage, body json.RawMessage) {
	var status wire.PlaybackStatus
	if err := json.Unmarshal(body, &status); err != nil {
		a.conn.logger.Warn("undecodable playbackStatus event", "error", err)
		return
	}

	for _, handler := range a.subs.handlers(header.GroupID) {
		handler(header.GroupID, &status)
	}
}
