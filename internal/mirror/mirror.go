package mirror

import (
	"encoding/json"
	"fmt"

	"github.com/soundmesh/sonosws/internal/infrastructure/mqtt"
	"github.com/soundmesh/sonosws/internal/sonos/client"
	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// Publisher is the MQTT surface the mirror needs. *mqtt.Client satisfies it.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Recorder is the telemetry surface the mirror needs. *influxdb.Client
// satisfies it. All methods are fire-and-forget.
type Recorder interface {
	WritePlayerVolume(playerID string, volume int, muted bool)
	WriteGroupPlayback(groupID, playbackState string, playerCount int)
	WriteHouseholdSize(householdID string, groups, players int)
}

// GroupView is the read-only group state the mirror snapshots.
// *client.Group satisfies it.
type GroupView interface {
	ID() string
	Name() string
	CoordinatorID() string
	PlaybackState() wire.PlayBackState
	PlayerIDs() []string
}

// PlayerView is the read-only player state the mirror snapshots.
// *client.Player satisfies it.
type PlayerView interface {
	ID() string
	Name() string
	Volume() int
	Muted() bool
}

// Logger is the minimal logging interface the mirror uses.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Config holds the mirror's backends. Publisher is required; Recorder and
// Logger are optional.
type Config struct {
	Publisher Publisher
	Topics    mqtt.Topics
	QoS       byte
	Recorder  Recorder
	Logger    Logger
}

// Mirror republishes household state changes to MQTT and InfluxDB.
type Mirror struct {
	publisher Publisher
	topics    mqtt.Topics
	qos       byte
	recorder  Recorder
	logger    Logger

	source      *client.Client
	unsubscribe func()
}

// New creates a Mirror from cfg. It does nothing until attached to a client.
func New(cfg Config) *Mirror {
	m := &Mirror{
		publisher: cfg.Publisher,
		topics:    cfg.Topics,
		qos:       cfg.QoS,
		recorder:  cfg.Recorder,
		logger:    cfg.Logger,
	}
	if m.logger == nil {
		m.logger = noopLogger{}
	}
	return m
}

// Attach subscribes the mirror to c's state-change events. Attaching a
// second time replaces the previous subscription.
func (m *Mirror) Attach(c *client.Client) {
	m.Detach()
	m.source = c
	m.unsubscribe = c.Subscribe(m.handleEvent, nil, nil)
}

// Detach removes the event subscription. Safe to call when not attached.
func (m *Mirror) Detach() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.source = nil
}

// groupState is the JSON shape published to the group state topic.
type groupState struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	CoordinatorID string   `json:"coordinatorId"`
	PlaybackState string   `json:"playbackState"`
	PlayerIDs     []string `json:"playerIds"`
}

// playerState is the JSON shape published to the player state topic.
type playerState struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Volume int    `json:"volume"`
	Muted  bool   `json:"muted"`
}

func (m *Mirror) handleEvent(ev client.Event) {
	switch ev.Type {
	case client.EventGroupAdded, client.EventGroupUpdated:
		if ev.Group == nil {
			return
		}
		if err := m.PublishGroup(ev.Group); err != nil {
			m.logger.Warn("group state publish failed", "groupId", ev.ObjectID, "error", err)
		}
		if m.recorder != nil {
			m.recorder.WriteGroupPlayback(ev.Group.ID(),
				string(ev.Group.PlaybackState()), len(ev.Group.PlayerIDs()))
		}
		m.recordHouseholdSize()

	case client.EventGroupRemoved:
		if err := m.RemoveGroup(ev.ObjectID); err != nil {
			m.logger.Warn("group state clear failed", "groupId", ev.ObjectID, "error", err)
		}
		m.recordHouseholdSize()

	case client.EventPlayerUpdated:
		if ev.Player == nil {
			return
		}
		if err := m.PublishPlayer(ev.Player); err != nil {
			m.logger.Warn("player state publish failed", "playerId", ev.ObjectID, "error", err)
		}
		if m.recorder != nil {
			m.recorder.WritePlayerVolume(ev.Player.ID(), ev.Player.Volume(), ev.Player.Muted())
		}
	}
}

// PublishGroup publishes a retained snapshot of g to the group state topic.
func (m *Mirror) PublishGroup(g GroupView) error {
	if m.publisher == nil {
		return nil
	}

	payload, err := json.Marshal(groupState{
		ID:            g.ID(),
		Name:          g.Name(),
		CoordinatorID: g.CoordinatorID(),
		PlaybackState: string(g.PlaybackState()),
		PlayerIDs:     g.PlayerIDs(),
	})
	if err != nil {
		return fmt.Errorf("encode group state: %w", err)
	}

	return m.publisher.Publish(m.topics.GroupState(g.ID()), payload, m.qos, true)
}

// RemoveGroup clears the retained state message for a dissolved group.
// An empty retained payload deletes the message from the broker.
func (m *Mirror) RemoveGroup(groupID string) error {
	if m.publisher == nil {
		return nil
	}
	return m.publisher.Publish(m.topics.GroupState(groupID), nil, m.qos, true)
}

// PublishPlayer publishes a retained snapshot of p to the player state topic.
func (m *Mirror) PublishPlayer(p PlayerView) error {
	if m.publisher == nil {
		return nil
	}

	payload, err := json.Marshal(playerState{
		ID:     p.ID(),
		Name:   p.Name(),
		Volume: p.Volume(),
		Muted:  p.Muted(),
	})
	if err != nil {
		return fmt.Errorf("encode player state: %w", err)
	}

	return m.publisher.Publish(m.topics.PlayerState(p.ID()), payload, m.qos, true)
}

// recordHouseholdSize writes the current topology size to the recorder.
func (m *Mirror) recordHouseholdSize() {
	if m.recorder == nil || m.source == nil {
		return
	}

	groups := m.source.Groups()
	players := make(map[string]struct{})
	for _, g := range groups {
		for _, id := range g.PlayerIDs() {
			players[id] = struct{}{}
		}
	}

	m.recorder.WriteHouseholdSize(m.source.HouseholdID(), len(groups), len(players))
}
