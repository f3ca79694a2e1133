package transport

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// Subprotocol is the websocket sub-protocol negotiated with the player.
const Subprotocol = "v1.api.smartspeaker.audio"

// APIKeyHeader carries the API key during the handshake and discovery call.
const APIKeyHeader = "X-Sonos-Api-Key"

// Default timing values applied when the config leaves them zero.
const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultHeartbeat        = 55 * time.Second
	writeTimeout            = 10 * time.Second
)

// Config holds connection parameters for a player websocket.
type Config struct {
	// URL is the player's websocket URL as returned by discovery.
	URL string

	// APIKey is sent in the X-Sonos-Api-Key handshake header. The player
	// rejects the handshake without a valid key.
	APIKey string

	// HandshakeTimeout bounds the websocket dial.
	HandshakeTimeout time.Duration

	// Heartbeat is the ping interval keeping the connection alive.
	Heartbeat time.Duration

	// InsecureTLS skips certificate verification. Players present
	// self-signed certificates, so this is on for local connections.
	InsecureTLS bool
}

// Logger is the logging interface used by the transport.
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

// WebSocket is a websocket transport to a single Sonos player.
//
// The zero value is not usable; create one with New. Connect establishes the
// socket, Receive/Send move whole frames, Disconnect releases the socket and
// is safe to call at any time, repeatedly.
type WebSocket struct {
	cfg    Config
	logger Logger

	mu       sync.Mutex // guards conn and pingStop
	conn     *websocket.Conn
	pingStop chan struct{}

	writeMu sync.Mutex // serialises writes (frames and pings)
}

// New creates a websocket transport with the given configuration.
func New(cfg Config) *WebSocket {
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.Heartbeat == 0 {
		cfg.Heartbeat = defaultHeartbeat
	}
	return &WebSocket{
		cfg:    cfg,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the transport.
func (t *WebSocket) SetLogger(logger Logger) {
	t.logger = logger
}

// Connected reports whether the socket is currently open.
func (t *WebSocket) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// Connect performs the websocket handshake.
//
// It is invalid to call Connect on an already-connected transport; callers
// must Disconnect first. Handshake and network failures are wrapped around
// ErrCannotConnect and are not retried.
func (t *WebSocket) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return fmt.Errorf("%w: already connected", ErrInvalidState)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: t.cfg.HandshakeTimeout,
		Subprotocols:     []string{Subprotocol},
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: t.cfg.InsecureTLS, // #nosec G402 -- players use self-signed certs
		},
	}
	header := http.Header{}
	header.Set(APIKeyHeader, t.cfg.APIKey)

	t.logger.Debug("connecting websocket", "url", t.cfg.URL)

	conn, resp, err := dialer.DialContext(ctx, t.cfg.URL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("%w: handshake rejected (%s): %w", ErrCannotConnect, resp.Status, err)
		}
		return fmt.Errorf("%w: %w", ErrCannotConnect, err)
	}

	t.conn = conn
	t.pingStop = make(chan struct{})
	go t.pingLoop(conn, t.pingStop)

	t.logger.Info("websocket connected", "url", t.cfg.URL)
	return nil
}

// Disconnect closes the socket and releases resources.
//
// It is idempotent and always succeeds; errors while closing are logged only.
func (t *WebSocket) Disconnect() error {
	t.mu.Lock()
	conn := t.conn
	pingStop := t.pingStop
	t.conn = nil
	t.pingStop = nil
	t.mu.Unlock()

	if conn == nil {
		return nil
	}

	close(pingStop)

	// Best-effort close handshake before dropping the socket.
	t.writeMu.Lock()
	deadline := time.Now().Add(writeTimeout)
	if err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline); err != nil {
		t.logger.Debug("close message not sent", "error", err)
	}
	t.writeMu.Unlock()

	if err := conn.Close(); err != nil {
		t.logger.Debug("error closing websocket", "error", err)
	}
	t.logger.Info("websocket disconnected", "url", t.cfg.URL)
	return nil
}

// Receive blocks until the next whole application message arrives.
//
// It returns ErrConnectionClosed when the peer closes or ctx is cancelled,
// ErrConnectionFailed on an abnormal transport error, and ErrInvalidMessage
// when a frame is not the expected textual [header, body] form. An
// ErrInvalidMessage does not affect the socket; the caller may keep receiving.
func (t *WebSocket) Receive(ctx context.Context) (*wire.ResultMessage, json.RawMessage, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return nil, nil, ErrNotConnected
	}

	// Unblock the pending read when ctx ends. A deadline in the past fails
	// ReadMessage immediately; the socket is shutting down at that point, so
	// poisoning subsequent reads is fine.
	readDone := make(chan struct{})
	defer close(readDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.SetReadDeadline(time.Now())
		case <-readDone:
		}
	}()

	msgType, data, err := conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrConnectionClosed, ctx.Err())
		}
		if isPeerClose(err) {
			return nil, nil, fmt.Errorf("%w: %w", ErrConnectionClosed, err)
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if msgType != websocket.TextMessage {
		return nil, nil, fmt.Errorf("%w: non-text message type %d", ErrInvalidMessage, msgType)
	}

	header, body, err := wire.DecodeFrame(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	return header, body, nil
}

// Send transmits a [header, body] frame.
//
// Returns ErrNotConnected if the socket is not open and ErrConnectionFailed
// if the write fails.
func (t *WebSocket) Send(ctx context.Context, header *wire.CommandMessage, body any) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	data, err := wire.EncodeFrame(header, body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return nil
}

// pingLoop keeps the connection alive. The player drops idle connections, so
// a ping is sent every heartbeat interval until the transport disconnects.
func (t *WebSocket) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(t.cfg.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			t.writeMu.Unlock()
			if err != nil {
				t.logger.Debug("ping failed", "error", err)
				return
			}
		}
	}
}

// isPeerClose reports whether a read error represents a clean peer close.
func isPeerClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}
