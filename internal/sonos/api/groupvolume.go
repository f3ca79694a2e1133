package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// GroupVolume namespace identifiers.
const (
	groupVolumeNamespace = "groupVolume:1"

	// EventTypeGroupVolume is the declared event type owned by this namespace.
	EventTypeGroupVolume = "groupVolume"
)

// GroupVolumeHandler receives groupVolume events for a subscribed group.
type GroupVolumeHandler func(groupID string, data *wire.GroupVolume)

// GroupVolumeAPI issues volume commands targeting a whole group.
type GroupVolumeAPI struct {
	conn *Conn

	subs *handlerRegistry[GroupVolumeHandler] // groupID -> handlers
}

func newGroupVolumeAPI(c *Conn) *GroupVolumeAPI {
	return &GroupVolumeAPI{
		conn: c,
		subs: newHandlerRegistry[GroupVolumeHandler](),
	}
}

func (a *GroupVolumeAPI) eventType() string { return EventTypeGroupVolume }

// GetVolume fetches a group's current volume state.
func (a *GroupVolumeAPI) GetVolume(ctx context.Context, groupID string) (*wire.GroupVolume, error) {
	body, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: groupVolumeNamespace,
		Command:   "getVolume",
		GroupID:   groupID,
	}, nil)
	if err != nil {
		return nil, err
	}

	var volume wire.GroupVolume
	if err := json.Unmarshal(body, &volume); err != nil {
		return nil, fmt.Errorf("decoding group volume: %w", err)
	}
	return &volume, nil
}

// SetVolume sets a group's absolute volume (0-100).
func (a *GroupVolumeAPI) SetVolume(ctx context.Context, groupID string, volume int) error {
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: groupVolumeNamespace,
		Command:   "setVolume",
		GroupID:   groupID,
	}, map[string]any{"volume": volume})
	return err
}

// SetRelativeVolume adjusts a group's volume by a delta (-100..100).
func (a *GroupVolumeAPI) SetRelativeVolume(ctx context.Context, groupID string, delta int) error {
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: groupVolumeNamespace,
		Command:   "setRelativeVolume",
		GroupID:   groupID,
	}, map[string]any{"volumeDelta": delta})
	return err
}

// SetMute sets a group's mute state.
func (a *GroupVolumeAPI) SetMute(ctx context.Context, groupID string, muted bool) error {
	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: groupVolumeNamespace,
		Command:   "setMute",
		GroupID:   groupID,
	}, map[string]any{"muted": muted})
	return err
}

// Subscribe registers a handler for groupVolume events of a group.
func (a *GroupVolumeAPI) Subscribe(ctx context.Context, groupID string, handler GroupVolumeHandler) error {
	token := a.subs.add(groupID, handler)

	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: groupVolumeNamespace,
		Command:   "subscribe",
		GroupID:   groupID,
	}, nil)
	if err != nil {
		a.subs.remove(groupID, token)
		return err
	}
	return nil
}

// Unsubscribe stops groupVolume events for a group.
func (a *GroupVolumeAPI) Unsubscribe(ctx context.Context, groupID string) error {
	a.subs.drop(groupID)

	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace: groupVolumeNamespace,
		Command:   "unsubscribe",
		GroupID:   groupID,
	}, nil)
	return err
}

func (a *GroupVolumeAPI) handleEvent(header *wire.ResultMessage, body json.RawMessage) {
	var volume wire.GroupVolume
	if err := json.Unmarshal(body, &volume); err != nil {
		a.conn.logger.Warn("undecodable groupVolume event", "error", err)
		return
	}

	for _, handler := range a.subs.handlers(header.GroupID) {
		handler(header.GroupID, &volume)
	}
}
