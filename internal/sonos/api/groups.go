package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// Groups namespace identifiers.
const (
	groupsNamespace = "groups:1"

	// EventTypeGroups is the declared event type owned by this namespace.
	EventTypeGroups = "groups"
)

// GroupsHandler receives groups events for a subscribed household.
type GroupsHandler func(householdID string, data *wire.Groups)

// GroupsAPI issues commands in the groups namespace and owns its events.
//
// A groups event carries the full household snapshot (groups and players);
// the client's reconciler diffs it against its previous snapshot.
type GroupsAPI struct {
	conn *Conn
	subs *handlerRegistry[GroupsHandler] // householdID -> handlers
}

func newGroupsAPI(c *Conn) *GroupsAPI {
	return &GroupsAPI{
		conn: c,
		subs: newHandlerRegistry[GroupsHandler](),
	}
}

func (a *GroupsAPI) eventType() string { return EventTypeGroups }

// GetGroups fetches the current groups snapshot for a household.
func (a *GroupsAPI) GetGroups(ctx context.Context, householdID string, includeDeviceInfo bool) (*wire.Groups, error) {
	body, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace:   groupsNamespace,
		Command:     "getGroups",
		HouseholdID: householdID,
	}, map[string]any{"includeDeviceInfo": includeDeviceInfo})
	if err != nil {
		return nil, err
	}

	var groups wire.Groups
	if err := json.Unmarshal(body, &groups); err != nil {
		return nil, fmt.Errorf("decoding groups response: %w", err)
	}
	return &groups, nil
}

// Subscribe registers a handler for groups events of a household and asks the
// player to start sending them.
func (a *GroupsAPI) Subscribe(ctx context.Context, householdID string, handler GroupsHandler) error {
	token := a.subs.add(householdID, handler)

	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace:   groupsNamespace,
		Command:     "subscribe",
		HouseholdID: householdID,
	}, nil)
	if err != nil {
		// Subscription failed; drop the handler registered above.
		a.subs.remove(householdID, token)
		return err
	}
	return nil
}

// Unsubscribe stops groups events for a household and clears its handlers.
func (a *GroupsAPI) Unsubscribe(ctx context.Context, householdID string) error {
	a.subs.drop(householdID)

	_, err := a.conn.SendCommand(ctx, wire.CommandMessage{
		Namespace:   groupsNamespace,
		Command:     "unsubscribe",
		HouseholdID: householdID,
	}, nil)
	return err
}

func (a *GroupsAPI) handleEvent(header *wire.ResultMessage, body json.RawMessage) {
	var data wire.Groups
	if err := json.Unmarshal(body, &data); err != nil {
		a.conn.logger.Warn("undecodable groups event", "error", err)
		return
	}

	for _, handler := range a.subs.handlers(header.HouseholdID) {
		handler(header.HouseholdID, &data)
	}
}
