package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// PlayerVolume namespace identifiers.
const (
	playerVolumeNamespace = "playerVolume:1"

	// EventTypePlayerVolume is the declared event type owned by this namespace.
	EventTypePlayerVolume = "playerVolume"
)

// PlayerVolumeHandler receives playerVolume events for a subscribed player.
type PlayerVolumeHandler func(playerID string, data *wire.PlayerVolume)

// PlayerVolumeAPI issues volume commands targeting a single player.
type PlayerVolumeAPI struct {
	conn *Conn

	subs *handlerRegistry[PlayerVolumeHandler] // playerID -> handlers
}

func newPlayerVolumeAPI(c *Conn) *PlayerVolumeAPI {
	return &PlayerVolumeAPI{
		conn: c,
		subs: newHandlerRegistry[PlayerVolumeHandler](),
	}
}

func (a *PlayerVolumeAPI) eventType() string { return EventTypePlayerVolume }

// GetVolume fetches a player's current volume state.
func (a *PlayerVolumeAPI) GetVolume(ctx context.Context, playerID string) (*wire.PlayerVolume, error) {
	body, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playerVolumeNamespace,
		Command:   "getVolume",
		PlayerID:  playerID,
	}, nil)
	if err != nil {
		return nil, err
	}

	var volume wire.PlayerVolume
	if err := json.Unmarshal(body, &volume); err != nil {
		return nil, fmt.Errorf("decoding player volume: %w", err)
	}
	return &volume, nil
}

// SetVolume sets a player's absolute volume (0-100).
func (a *PlayerVolumeAPI) SetVolume(ctx context.Context, playerID string, volume int) error {
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playerVolumeNamespace,
		Command:   "setVolume",
		PlayerID:  playerID,
	}, map[string]any{"volume": volume})
	return err
}

// SetRelativeVolume adjusts a player's volume by a delta (-100..100).
func (a *PlayerVolumeAPI) SetRelativeVolume(ctx context.Context, playerID string, delta int) error {
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playerVolumeNamespace,
		Command:   "setRelativeVolume",
		PlayerID:  playerID,
	}, map[string]any{"volumeDelta": delta})
	return err
}

// SetMute sets a player's mute state.
func (a *PlayerVolumeAPI) SetMute(ctx context.Context, playerID string, muted bool) error {
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playerVolumeNamespace,
		Command:   "setMute",
		PlayerID:  playerID,
	}, map[string]any{"muted": muted})
	return err
}

// Subscribe registers a handler for playerVolume events of a player.
func (a *PlayerVolumeAPI) Subscribe(ctx context.Context, playerID string, handler PlayerVolumeHandler) error {
	token := a.subs.add(playerID, handler)

	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playerVolumeNamespace,
		Command:   "subscribe",
		PlayerID:  playerID,
	}, nil)
	if err != nil {
		a.subs.remove(playerID, token)
		return err
	}
	return nil
}

// Unsubscribe stops playerVolume events for a player.
func (a *PlayerVolumeAPI) Unsubscribe(ctx context.Context, playerID string) error {
	a.subs.drop(playerID)

	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: playerVolumeNamespace,
		Command:   "unsubscribe",
		PlayerID:  playerID,
	}, nil)
	return err
}

func (a *PlayerVolumeAPI) handleEvent(header *wire.ResultMessage, body json.RawMessage) {
	var volume wire.PlayerVolume
	if err := json.Unmarshal(body, &volume); err != nil {
		a.conn.logger.Warn("undecodable playerVolume event", "error", err)
		return
	}

	for _, handler := range a.subs.handlers(header.PlayerID) {
		handler(header.PlayerID, &volume)
	}
}
