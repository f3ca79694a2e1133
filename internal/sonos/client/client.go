package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/soundmesh/sonosws/internal/sonos/api"
	"github.com/soundmesh/sonosws/internal/sonos/transport"
	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

const (
	// discoveryTimeout bounds the local info HTTP call.
	discoveryTimeout = 10 * time.Second

	// eventBuffer is the capacity of the subscriber event queue. Events
	// beyond it are dropped with a warning rather than stalling the
	// receive path.
	eventBuffer = 64
)

// Config holds the parameters for one player connection.
type Config struct {
	// PlayerIP is the player's address on the local network.
	PlayerIP string

	// APIKey authenticates discovery and the websocket handshake.
	// Empty selects DefaultAPIKey.
	APIKey string

	// HandshakeTimeout bounds the websocket dial. Zero selects the
	// transport default.
	HandshakeTimeout time.Duration

	// Heartbeat is the keepalive ping interval. Zero selects the
	// transport default.
	Heartbeat time.Duration

	// InsecureTLS skips certificate verification. Players present
	// self-signed certificates, so local setups need this on.
	InsecureTLS bool
}

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Client manages one player's connection and its view of the household.
//
// Lifecycle: New, Connect, StartListening (blocks until the connection
// ends), Disconnect. Subscribe may be called at any point after New.
//
// All public methods are thread-safe. Subscriber callbacks run on a single
// dispatch goroutine, never concurrently with each other, so callback code
// may mutate caller-owned state without locking.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     Logger

	// discoverURL overrides the derived info endpoint; tests only.
	discoverURL string

	mu          sync.Mutex // guards api, ids, groups, player
	api         *api.Conn
	householdID string
	playerID    string
	groups      map[string]*Group
	player      *Player

	subsMu sync.Mutex
	subs   map[string]*subscription

	events chan Event
}

// New creates a client for the player at cfg.PlayerIP. No I/O happens
// until Connect.
func New(cfg Config) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = DefaultAPIKey
	}
	httpClient := &http.Client{Timeout: discoveryTimeout}
	if cfg.InsecureTLS {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion:         tls.VersionTLS12,
				InsecureSkipVerify: true,
			},
		}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     noopLogger{},
		groups:     make(map[string]*Group),
		subs:       make(map[string]*subscription),
		events:     make(chan Event, eventBuffer),
	}
}

// SetLogger sets the logger for the client and its connection layers.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
	if c.api != nil {
		c.api.SetLogger(logger)
	}
}

// HouseholdID reports the household resolved by discovery. Empty before
// Connect.
func (c *Client) HouseholdID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.householdID
}

// PlayerID reports the id of the managed player. Empty before Connect.
func (c *Client) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// Player returns the managed player, or nil before the first household
// snapshot has been processed.
func (c *Client) Player() *Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

// Group returns the group with the given id from the current snapshot.
func (c *Client) Group(id string) (*Group, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.groups[id]
	return g, ok
}

// Groups returns the groups of the current snapshot.
func (c *Client) Groups() []*Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Group, 0, len(c.groups))
	for _, g := range c.groups {
		out = append(out, g)
	}
	return out
}

// conn returns the live connection, or ErrNotConnected.
func (c *Client) conn() (*api.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.api == nil {
		return nil, ErrNotConnected
	}
	return c.api, nil
}

// Connect resolves connection parameters via the player's local info
// endpoint and opens the websocket. It does not start processing messages;
// call StartListening for that.
func (c *Client) Connect(ctx context.Context) error {
	url := c.discoverURL
	if url == "" {
		url = discoveryURL(c.cfg.PlayerIP)
	}
	info, err := fetchDiscoveryInfo(ctx, c.httpClient, url, c.cfg.APIKey)
	if err != nil {
		return err
	}
	c.logger.Debug("discovery resolved",
		"playerId", info.PlayerID,
		"householdId", info.HouseholdID,
		"websocketUrl", info.WebsocketURL)

	tr := transport.New(transport.Config{
		URL:              info.WebsocketURL,
		APIKey:           c.cfg.APIKey,
		HandshakeTimeout: c.cfg.HandshakeTimeout,
		Heartbeat:        c.cfg.Heartbeat,
		InsecureTLS:      c.cfg.InsecureTLS,
	})

	c.mu.Lock()
	logger := c.logger
	tr.SetLogger(logger)
	conn := api.New(tr)
	conn.SetLogger(logger)
	c.api = conn
	c.householdID = info.HouseholdID
	c.playerID = info.PlayerID
	c.mu.Unlock()

	if err := conn.Connect(ctx); err != nil {
		return err
	}
	c.logger.Info("connected to player", "playerId", info.PlayerID)
	return nil
}

// StartListening processes messages until the connection ends.
//
// It drives the receive loop, fetches the initial household snapshot
// (publishing one GROUP_ADDED per group), resolves the managed player and
// its volume, and subscribes to groups and playerVolume events. Returns nil
// on a clean close, ctx cancellation or local Disconnect, the transport
// error otherwise.
func (c *Client) StartListening(ctx context.Context) error {
	conn, err := c.conn()
	if err != nil {
		return err
	}

	ready := make(chan struct{})
	listenResult := make(chan error, 1)
	go func() {
		listenResult <- conn.StartListening(ctx, ready)
	}()
	select {
	case <-ready:
	case err := <-listenResult:
		return err
	}

	stopDispatch := make(chan struct{})
	go c.dispatchLoop(stopDispatch)
	defer close(stopDispatch)

	if err := c.bootstrap(ctx, conn); err != nil {
		conn.Disconnect()
		<-listenResult
		return err
	}

	return <-listenResult
}

// bootstrap loads the initial state and registers the event subscriptions.
func (c *Client) bootstrap(ctx context.Context, conn *api.Conn) error {
	c.mu.Lock()
	householdID, playerID := c.householdID, c.playerID
	c.mu.Unlock()

	snapshot, err := conn.Groups().GetGroups(ctx, householdID, false)
	if err != nil {
		return fmt.Errorf("fetching initial groups snapshot: %w", err)
	}
	c.applyGroups(snapshot)

	c.mu.Lock()
	player := c.player
	c.mu.Unlock()
	if player == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	volume, err := conn.PlayerVolume().GetVolume(ctx, playerID)
	if err != nil {
		return fmt.Errorf("fetching player volume: %w", err)
	}
	player.applyVolume(*volume)

	if err := conn.PlayerVolume().Subscribe(ctx, playerID, c.handlePlayerVolume); err != nil {
		return fmt.Errorf("subscribing to player volume: %w", err)
	}
	if err := conn.Groups().Subscribe(ctx, householdID, func(_ string, data *wire.Groups) {
		c.applyGroups(data)
	}); err != nil {
		return fmt.Errorf("subscribing to groups: %w", err)
	}

	c.logger.Info("household state loaded",
		"groups", len(snapshot.Groups),
		"players", len(snapshot.Players))
	return nil
}

// handlePlayerVolume folds playerVolume events into the managed player.
func (c *Client) handlePlayerVolume(playerID string, data *wire.PlayerVolume) {
	if data == nil {
		return
	}
	c.mu.Lock()
	player := c.player
	managed := c.playerID
	c.mu.Unlock()
	if player == nil || playerID != managed {
		return
	}
	if player.applyVolume(*data) {
		c.signalEvent(Event{Type: EventPlayerUpdated, ObjectID: playerID, Player: player})
	}
}

// Disconnect tears the connection down. Pending commands are cancelled and
// the socket is released. Idempotent; safe before Connect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.api
	c.mu.Unlock()
	if conn != nil {
		conn.Disconnect()
	}
}
