package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/soundmesh/sonosws/internal/sonos/tasks"
	"github.com/soundmesh/sonosws/internal/sonos/transport"
	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// Transport moves whole [header, body] frames to and from the player.
// Implemented by transport.WebSocket; tests substitute an in-memory fake.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Connected() bool
	Receive(ctx context.Context) (*wire.ResultMessage, json.RawMessage, error)
	Send(ctx context.Context, header *wire.CommandMessage, body any) error
}

// Logger defines the logging interface used by the Conn.
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

// eventHandler is implemented by each namespace for the one event type it
// owns. The dispatch table is built at construction and immutable thereafter.
type eventHandler interface {
	eventType() string
	handleEvent(header *wire.ResultMessage, body json.RawMessage)
}

// commandResult is the single resolution of a pending command.
type commandResult struct {
	body json.RawMessage
	err  error
}

// Conn correlates commands with replies and routes pushed events.
type Conn struct {
	transport Transport
	logger    Logger
	tasks     *tasks.Supervisor

	mu      sync.Mutex
	pending map[string]chan commandResult

	// handlers maps an event type to its owning namespace. Built once in New.
	handlers map[string]eventHandler

	stopCalled atomic.Bool

	groups       *GroupsAPI
	playback     *PlaybackAPI
	playerVolume *PlayerVolumeAPI
	groupVolume  *GroupVolumeAPI
	audioClip    *AudioClipAPI
}

// New creates a Conn over the given transport.
func New(tr Transport) *Conn {
	c := &Conn{
		transport: tr,
		logger:    noopLogger{},
		tasks:     tasks.New(),
		pending:   make(map[string]chan commandResult),
	}

	c.groups = newGroupsAPI(c)
	c.playback = newPlaybackAPI(c)
	c.playerVolume = newPlayerVolumeAPI(c)
	c.groupVolume = newGroupVolumeAPI(c)
	c.audioClip = newAudioClipAPI(c)

	c.handlers = make(map[string]eventHandler)
	for _, h := range []eventHandler{c.groups, c.playback, c.playerVolume, c.groupVolume, c.audioClip} {
		c.handlers[h.eventType()] = h
	}

	return c
}

// SetLogger sets the logger for the connection and its task supervisor.
func (c *Conn) SetLogger(logger Logger) {
	c.logger = logger
	c.tasks.SetLogger(logger)
}

// Groups returns the groups namespace.
func (c *Conn) Groups() *GroupsAPI { return c.groups }

// Playback returns the playback namespace.
func (c *Conn) Playback() *PlaybackAPI { return c.playback }

// PlayerVolume returns the playerVolume namespace.
func (c *Conn) PlayerVolume() *PlayerVolumeAPI { return c.playerVolume }

// GroupVolume returns the groupVolume namespace.
func (c *Conn) GroupVolume() *GroupVolumeAPI { return c.groupVolume }

// AudioClip returns the audioClip namespace.
func (c *Conn) AudioClip() *AudioClipAPI { return c.audioClip }

// Connected reports whether the underlying transport is connected.
func (c *Conn) Connected() bool {
	return c.transport.Connected()
}

// Connect establishes the underlying transport connection.
func (c *Conn) Connect(ctx context.Context) error {
	c.stopCalled.Store(false)
	return c.transport.Connect(ctx)
}

// newCmdID allocates a fresh correlation id, unique among pending commands.
func newCmdID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SendCommand transmits a command and blocks until its reply arrives.
//
// The header's CmdID is assigned here. On success the reply's body payload is
// returned. A success:false reply yields a *FailedCommandError. If the
// connection is torn down while the command is pending, the waiter resolves
// with ErrCancelled. Context cancellation abandons the waiter.
func (c *Conn) SendCommand(ctx context.Context, header wire.CommandMessage, options any) (json.RawMessage, error) {
	if !c.transport.Connected() {
		return nil, fmt.Errorf("%w: not connected", transport.ErrInvalidState)
	}

	header.CmdID = newCmdID()
	result := make(chan commandResult, 1)

	c.mu.Lock()
	c.pending[header.CmdID] = result
	c.mu.Unlock()

	if err := c.transport.Send(ctx, &header, options); err != nil {
		c.takePending(header.CmdID)
		return nil, err
	}

	select {
	case res := <-result:
		return res.body, res.err
	case <-ctx.Done():
		c.takePending(header.CmdID)
		return nil, ctx.Err()
	}
}

// SendCommandNoWait transmits a command without registering a waiter.
//
// The send happens on a supervised task; transmission failures are logged by
// the supervisor, never returned. Use for fire-and-forget commands whose
// result the caller does not need.
func (c *Conn) SendCommandNoWait(ctx context.Context, header wire.CommandMessage, options any) error {
	if !c.transport.Connected() {
		return fmt.Errorf("%w: not connected", transport.ErrInvalidState)
	}

	header.CmdID = newCmdID()
	c.tasks.Spawn(ctx, "send:"+header.Namespace+"/"+header.Command, func(taskCtx context.Context) error {
		return c.transport.Send(taskCtx, &header, options)
	})
	return nil
}

// StartListening drives the receive loop until the connection closes, ctx is
// cancelled, or Disconnect is called.
//
// If the transport is not yet connected, it connects first. ready is closed
// once the loop is about to process messages. Returns nil on a clean peer
// close, ctx cancellation or local Disconnect, the transport error
// otherwise. All pending waiters and tracked tasks are cancelled before
// returning.
func (c *Conn) StartListening(ctx context.Context, ready chan<- struct{}) error {
	if !c.transport.Connected() {
		if err := c.transport.Connect(ctx); err != nil {
			return err
		}
	}

	if ready != nil {
		close(ready)
	}

	var loopErr error
	for {
		header, body, err := c.transport.Receive(ctx)
		if err != nil {
			if errors.Is(err, transport.ErrInvalidMessage) {
				// A single malformed frame is isolated to that frame.
				c.logger.Warn("dropping invalid message", "error", err)
				continue
			}
			if c.stopCalled.Load() || errors.Is(err, transport.ErrConnectionClosed) {
				c.logger.Debug("receive loop ended", "reason", err)
			} else {
				loopErr = err
			}
			break
		}
		c.route(ctx, header, body)
	}

	c.Disconnect()
	return loopErr
}

// Disconnect tears the connection down.
//
// Every pending command waiter resolves with ErrCancelled, every tracked
// task is cancelled, and the socket is released. Idempotent.
func (c *Conn) Disconnect() {
	c.stopCalled.Store(true)

	c.mu.Lock()
	waiters := c.pending
	c.pending = make(map[string]chan commandResult)
	c.mu.Unlock()

	for _, waiter := range waiters {
		waiter <- commandResult{err: ErrCancelled}
	}
	if len(waiters) > 0 {
		c.logger.Debug("cancelled pending commands", "count", len(waiters))
	}

	c.tasks.CancelAll()
	_ = c.transport.Disconnect()
}

// takePending removes and returns the waiter for a correlation id.
func (c *Conn) takePending(cmdID string) (chan commandResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	waiter, ok := c.pending[cmdID]
	if ok {
		delete(c.pending, cmdID)
	}
	return waiter, ok
}

// route classifies one inbound message and hands it off.
func (c *Conn) route(ctx context.Context, header *wire.ResultMessage, body json.RawMessage) {
	if header.IsCommandReply() {
		c.resolveReply(header, body)
		return
	}

	if header.IsEvent() {
		handler, ok := c.handlers[header.Type]
		if !ok {
			c.logger.Debug("received unhandled event type", "type", header.Type, "namespace", header.Namespace)
			return
		}
		// Each dispatch runs supervised so one slow handler cannot stall
		// the receive loop.
		c.tasks.Spawn(ctx, "event:"+header.Type, func(context.Context) error {
			handler.handleEvent(header, body)
			return nil
		})
		return
	}

	c.logger.Debug("received unhandled message", "namespace", header.Namespace, "response", header.Response)
}

// resolveReply delivers a command reply to its waiter. An unmatched cmdId is
// a no-op: the waiter may have already been cancelled.
func (c *Conn) resolveReply(header *wire.ResultMessage, body json.RawMessage) {
	waiter, ok := c.takePending(header.CmdID)
	if !ok {
		c.logger.Debug("reply without waiter", "cmd_id", header.CmdID)
		return
	}

	if *header.Success {
		waiter <- commandResult{body: body}
		return
	}

	var errResp wire.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		c.logger.Warn("failed reply with undecodable body", "cmd_id", header.CmdID, "error", err)
	}
	waiter <- commandResult{err: &FailedCommandError{
		ErrorCode: errResp.ErrorCode,
		Reason:    errResp.Reason,
	}}
}
