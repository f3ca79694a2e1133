package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/soundmesh/sonosws/internal/sonos/transport"
	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// fakeTransport is an in-memory Transport for correlation and routing tests.
type fakeTransport struct {
	mu        sync.Mutex
	connected bool

	// sent receives a copy of every transmitted header.
	sent chan wire.CommandMessage

	// inbound feeds Receive; closed on Disconnect.
	inbound chan inboundFrame
	closed  chan struct{}
}

type inboundFrame struct {
	header *wire.ResultMessage
	body   json.RawMessage
	err    error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		sent:    make(chan wire.CommandMessage, 64),
		inbound: make(chan inboundFrame, 64),
		closed:  make(chan struct{}),
	}
}

func (t *fakeTransport) Connect(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.connected {
		return transport.ErrInvalidState
	}
	t.connected = true
	return nil
}

func (t *fakeTransport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.connected {
		t.connected = false
		close(t.closed)
	}
	return nil
}

func (t *fakeTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Receive mirrors the transport.WebSocket contract: it unblocks with
// ErrConnectionClosed on ctx cancellation and on Disconnect.
func (t *fakeTransport) Receive(ctx context.Context) (*wire.ResultMessage, json.RawMessage, error) {
	select {
	case frame := <-t.inbound:
		return frame.header, frame.body, frame.err
	case <-t.closed:
		return nil, nil, transport.ErrConnectionClosed
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%w: %w", transport.ErrConnectionClosed, ctx.Err())
	}
}

func (t *fakeTransport) Send(_ context.Context, header *wire.CommandMessage, _ any) error {
	if !t.Connected() {
		return transport.ErrNotConnected
	}
	t.sent <- *header
	return nil
}

// reply injects a successful command reply for the given cmdId.
func (t *fakeTransport) reply(cmdID string, body string) {
	success := true
	t.inbound <- inboundFrame{
		header: &wire.ResultMessage{Namespace: "test:1", CmdID: cmdID, Success: &success},
		body:   json.RawMessage(body),
	}
}

func (t *fakeTransport) waitSent(tt *testing.T) wire.CommandMessage {
	tt.Helper()
	select {
	case header := <-t.sent:
		return header
	case <-time.After(2 * time.Second):
		tt.Fatal("no command transmitted")
		return wire.CommandMessage{}
	}
}

func newTestConn(t *testing.T) (*Conn, *fakeTransport) {
	t.Helper()
	ft := newFakeTransport()
	conn := New(ft)
	if err := conn.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return conn, ft
}

// startListening runs the receive loop in the background and returns a
// channel carrying its result.
func startListening(t *testing.T, conn *Conn) <-chan error {
	t.Helper()
	ready := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		result <- conn.StartListening(context.Background(), ready)
	}()
	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("receive loop did not start")
	}
	return result
}

func TestSendCommand_CorrelatesConcurrentReplies(t *testing.T) {
	conn, ft := newTestConn(t)
	startListening(t, conn)

	const n = 4
	results := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			body, err := conn.SendCommand(context.Background(), wire.CommandMessage{
				Namespace: "test:1", Command: "probe",
			}, nil)
			if err != nil {
				t.Errorf("SendCommand() #%d error = %v", i, err)
				return
			}
			results[i] = string(body)
		}(i)
	}

	// Collect the transmitted cmdIds, then reply in reverse order with a
	// body naming each id. Replies interleave arbitrarily with sends.
	headers := make([]wire.CommandMessage, n)
	ids := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		headers[i] = ft.waitSent(t)
		if headers[i].CmdID == "" {
			t.Fatal("transmitted command has empty cmdId")
		}
		if ids[headers[i].CmdID] {
			t.Fatalf("duplicate cmdId %q among pending commands", headers[i].CmdID)
		}
		ids[headers[i].CmdID] = true
	}
	for i := n - 1; i >= 0; i-- {
		ft.reply(headers[i].CmdID, fmt.Sprintf(`{"echo":%q}`, headers[i].CmdID))
	}
	wg.Wait()

	// Each waiter must have received the body carrying its own cmdId. The
	// send order of goroutine i is unknown, so check the multiset matches.
	got := make(map[string]bool, n)
	for _, res := range results {
		got[res] = true
	}
	for id := range ids {
		want := fmt.Sprintf(`{"echo":%q}`, id)
		if !got[want] {
			t.Errorf("no waiter received reply for cmdId %s", id)
		}
	}

	conn.Disconnect()
}

func TestSendCommand_FailedCommand(t *testing.T) {
	conn, ft := newTestConn(t)
	startListening(t, conn)
	defer conn.Disconnect()

	done := make(chan error, 1)
	go func() {
		_, err := conn.SendCommand(context.Background(), wire.CommandMessage{
			Namespace: "playback:1", Command: "play", GroupID: "G1",
		}, nil)
		done <- err
	}()

	header := ft.waitSent(t)
	success := false
	ft.inbound <- inboundFrame{
		header: &wire.ResultMessage{Namespace: "playback:1", CmdID: header.CmdID, Success: &success},
		body:   json.RawMessage(`{"errorCode":"ERROR_PLAYBACK_FAILED","reason":"ERROR_UNSUPPORTED_NAMESPACE"}`),
	}

	err := <-done
	var failed *FailedCommandError
	if !errors.As(err, &failed) {
		t.Fatalf("SendCommand() error = %v, want *FailedCommandError", err)
	}
	if failed.ErrorCode != "ERROR_PLAYBACK_FAILED" {
		t.Errorf("ErrorCode = %q, want %q", failed.ErrorCode, "ERROR_PLAYBACK_FAILED")
	}
	if failed.Reason != "ERROR_UNSUPPORTED_NAMESPACE" {
		t.Errorf("Reason = %q, want %q", failed.Reason, "ERROR_UNSUPPORTED_NAMESPACE")
	}
}

func TestDisconnect_CancelsAllPendingCommands(t *testing.T) {
	conn, ft := newTestConn(t)
	listenResult := startListening(t, conn)

	const n = 3
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := conn.SendCommand(context.Background(), wire.CommandMessage{
				Namespace: "test:1", Command: "hang",
			}, nil)
			done <- err
		}()
	}
	for i := 0; i < n; i++ {
		ft.waitSent(t)
	}

	conn.Disconnect()

	for i := 0; i < n; i++ {
		select {
		case err := <-done:
			if !errors.Is(err, ErrCancelled) {
				t.Errorf("waiter #%d error = %v, want ErrCancelled", i, err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("waiter not cancelled")
		}
	}

	if err := <-listenResult; err != nil {
		t.Errorf("StartListening() after Disconnect = %v, want nil", err)
	}
}

func TestSendCommand_NotConnected(t *testing.T) {
	conn := New(newFakeTransport())
	_, err := conn.SendCommand(context.Background(), wire.CommandMessage{Namespace: "test:1"}, nil)
	if !errors.Is(err, transport.ErrInvalidState) {
		t.Errorf("SendCommand() error = %v, want ErrInvalidState", err)
	}
}

func TestSendCommandNoWait_RegistersNoWaiter(t *testing.T) {
	conn, ft := newTestConn(t)
	defer conn.Disconnect()

	if err := conn.SendCommandNoWait(context.Background(), wire.CommandMessage{
		Namespace: "playerVolume:1", Command: "setVolume", PlayerID: "P1",
	}, map[string]any{"volume": 10}); err != nil {
		t.Fatalf("SendCommandNoWait() error = %v", err)
	}

	header := ft.waitSent(t)
	if header.CmdID == "" {
		t.Error("fire-and-forget command has empty cmdId")
	}

	conn.mu.Lock()
	pending := len(conn.pending)
	conn.mu.Unlock()
	if pending != 0 {
		t.Errorf("pending table has %d entries after no-wait send, want 0", pending)
	}
}

func TestRoute_ReplyWithoutWaiterIsNoOp(t *testing.T) {
	conn, ft := newTestConn(t)
	listenResult := startListening(t, conn)

	// A reply whose waiter no longer exists must be dropped silently and
	// must not disturb a later command.
	ft.reply("unknown-cmd-id", `{}`)

	done := make(chan error, 1)
	go func() {
		_, err := conn.SendCommand(context.Background(), wire.CommandMessage{
			Namespace: "test:1", Command: "probe",
		}, nil)
		done <- err
	}()
	header := ft.waitSent(t)
	ft.reply(header.CmdID, `{}`)

	if err := <-done; err != nil {
		t.Errorf("SendCommand() after stray reply error = %v", err)
	}

	conn.Disconnect()
	<-listenResult
}

func TestRoute_EventDispatchedToOwningNamespace(t *testing.T) {
	conn, _ := newTestConn(t)
	defer conn.Disconnect()

	received := make(chan *wire.Groups, 1)
	conn.groups.subs.add("HH1", func(_ string, data *wire.Groups) {
		received <- data
	})

	conn.route(context.Background(), &wire.ResultMessage{
		Namespace:   groupsNamespace,
		Type:        EventTypeGroups,
		HouseholdID: "HH1",
	}, json.RawMessage(`{"groups":[{"id":"G1","name":"Kitchen","coordinatorId":"P1","playerIds":["P1"]}],"players":[]}`))

	select {
	case data := <-received:
		if len(data.Groups) != 1 || data.Groups[0].ID != "G1" {
			t.Errorf("handler received %+v", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("groups handler not invoked")
	}
}

func TestSubscribe_FailedRollbackKeepsOtherHandlers(t *testing.T) {
	conn, ft := newTestConn(t)
	listenResult := startListening(t, conn)

	// Two concurrent subscriptions for the same household. The first one's
	// subscribe command fails; only its own handler may be rolled back.
	fromA := make(chan struct{}, 1)
	fromB := make(chan struct{}, 1)

	resultA := make(chan error, 1)
	go func() {
		resultA <- conn.Groups().Subscribe(context.Background(), "HH1",
			func(string, *wire.Groups) { fromA <- struct{}{} })
	}()
	headerA := ft.waitSent(t)

	resultB := make(chan error, 1)
	go func() {
		resultB <- conn.Groups().Subscribe(context.Background(), "HH1",
			func(string, *wire.Groups) { fromB <- struct{}{} })
	}()
	headerB := ft.waitSent(t)

	success := false
	ft.inbound <- inboundFrame{
		header: &wire.ResultMessage{Namespace: groupsNamespace, CmdID: headerA.CmdID, Success: &success},
		body:   json.RawMessage(`{"errorCode":"ERROR_COMMAND_FAILED"}`),
	}
	ft.reply(headerB.CmdID, `{}`)

	if err := <-resultA; err == nil {
		t.Fatal("first Subscribe() should fail")
	}
	if err := <-resultB; err != nil {
		t.Fatalf("second Subscribe() error = %v", err)
	}

	conn.groups.handleEvent(&wire.ResultMessage{
		Namespace:   groupsNamespace,
		Type:        EventTypeGroups,
		HouseholdID: "HH1",
	}, json.RawMessage(`{"groups":[],"players":[]}`))

	select {
	case <-fromB:
	case <-time.After(2 * time.Second):
		t.Fatal("surviving handler not invoked")
	}
	select {
	case <-fromA:
		t.Error("rolled-back handler was invoked")
	default:
	}

	conn.Disconnect()
	<-listenResult
}

func TestRoute_UnknownEventTypeIsDropped(t *testing.T) {
	conn, _ := newTestConn(t)
	defer conn.Disconnect()

	// Must not panic or leak a task.
	conn.route(context.Background(), &wire.ResultMessage{
		Namespace: "bogus:1",
		Type:      "bogusEvent",
	}, json.RawMessage(`{}`))

	conn.tasks.Wait()
}

func TestRoute_NeitherReplyNorEventIsDropped(t *testing.T) {
	conn, _ := newTestConn(t)
	defer conn.Disconnect()

	conn.route(context.Background(), &wire.ResultMessage{Namespace: "groups:1"}, json.RawMessage(`{}`))
}

func TestStartListening_InvalidMessageDoesNotEndLoop(t *testing.T) {
	conn, ft := newTestConn(t)
	listenResult := startListening(t, conn)

	ft.inbound <- inboundFrame{err: fmt.Errorf("%w: garbage", transport.ErrInvalidMessage)}

	// The loop must still process a correlated reply afterwards.
	done := make(chan error, 1)
	go func() {
		_, err := conn.SendCommand(context.Background(), wire.CommandMessage{
			Namespace: "test:1", Command: "probe",
		}, nil)
		done <- err
	}()
	header := ft.waitSent(t)
	ft.reply(header.CmdID, `{}`)

	if err := <-done; err != nil {
		t.Errorf("SendCommand() after invalid message error = %v", err)
	}

	conn.Disconnect()
	if err := <-listenResult; err != nil {
		t.Errorf("StartListening() = %v, want nil", err)
	}
}

func TestStartListening_ContextCancelEndsLoop(t *testing.T) {
	conn, ft := newTestConn(t)

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	listenResult := make(chan error, 1)
	go func() {
		listenResult <- conn.StartListening(ctx, ready)
	}()
	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("receive loop did not start")
	}

	// Park a command so cancellation also has a waiter to resolve.
	done := make(chan error, 1)
	go func() {
		_, err := conn.SendCommand(context.Background(), wire.CommandMessage{
			Namespace: "test:1", Command: "hang",
		}, nil)
		done <- err
	}()
	ft.waitSent(t)

	cancel()

	select {
	case err := <-listenResult:
		if err != nil {
			t.Errorf("StartListening() after cancel = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("receive loop did not end on context cancellation")
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("pending command error = %v, want ErrCancelled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pending command not cancelled")
	}
	if ft.Connected() {
		t.Error("transport still connected after cancellation")
	}
}

func TestStartListening_TransportFailureIsReturned(t *testing.T) {
	conn, ft := newTestConn(t)
	listenResult := startListening(t, conn)

	ft.inbound <- inboundFrame{err: fmt.Errorf("%w: reset", transport.ErrConnectionFailed)}

	select {
	case err := <-listenResult:
		if !errors.Is(err, transport.ErrConnectionFailed) {
			t.Errorf("StartListening() = %v, want ErrConnectionFailed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("receive loop did not end on transport failure")
	}
}
