package plant

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rithmic-go/rithmic/internal/schema"
	"github.com/rithmic-go/rithmic/pkg/websocket"
)

// fakeConn is a wsConn double driven entirely by the test: outbound
// frames land on sent, and the test pushes inbound messages onto in.
type fakeConn struct {
	in        chan websocket.Message
	sent      chan []byte
	sendErr   error
	closed    chan websocket.StatusCode
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan websocket.Message, 16),
		sent:   make(chan []byte, 16),
		closed: make(chan websocket.StatusCode, 1),
	}
}

func (f *fakeConn) IncomingMessages() <-chan websocket.Message { return f.in }

func (f *fakeConn) SendBinaryMessage(data []byte) <-chan error {
	ch := make(chan error, 1)
	f.sent <- data
	if f.sendErr != nil {
		ch <- f.sendErr
	} else {
		ch <- nil
	}
	close(ch)
	return ch
}

func (f *fakeConn) Close(status websocket.StatusCode) {
	select {
	case f.closed <- status:
	default:
	}
}

// pushReply frames and delivers msg as an inbound binary message.
func (f *fakeConn) pushReply(t *testing.T, msg schema.Message) {
	t.Helper()
	b, err := schema.Encode(msg)
	if err != nil {
		t.Fatalf("schema.Encode() error = %v", err)
	}
	f.in <- websocket.Message{Opcode: websocket.OpcodeBinary, Data: EncodeFrame(b)}
}

// lastSentTag decodes the most recently sent frame's correlation tag.
func lastSentTag(t *testing.T, frame []byte) string {
	t.Helper()
	payload, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	msg, err := schema.Decode(payload)
	if err != nil {
		t.Fatalf("schema.Decode() error = %v", err)
	}
	tag, ok := msg.CorrelationTag()
	if !ok {
		t.Fatalf("sent frame has no correlation tag")
	}
	return tag
}

func newTestActor(conn *fakeConn) (*Actor, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	a := NewActor(conn, ConnectionInfo{User: "trader", Password: "secret"},
		WithLogger(slog.New(slog.DiscardHandler)),
		WithHeartbeatInterval(time.Hour))
	go a.Run(ctx)
	return a, cancel
}

// TestActorLoginSuccess covers the login half of scenario S1: a Login
// command completes without error once the server sends back a
// successful login reply carrying its tag. Heartbeats are not checked.
func TestActorLoginSuccess(t *testing.T) {
	conn := newFakeConn()
	a, cancel := newTestActor(conn)
	defer cancel()
	h := a.Handle()

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Login(context.Background())
	}()

	sent := <-conn.sent
	tag := lastSentTag(t, sent)

	conn.pushReply(t, schema.Message{TemplateID: templateLoginResponse, UserMsg: []string{tag}, RpCode: []string{"0"}})

	if err := <-errCh; err != nil {
		t.Fatalf("Login() error = %v", err)
	}
}

func TestActorLoginProtocolError(t *testing.T) {
	conn := newFakeConn()
	a, cancel := newTestActor(conn)
	defer cancel()
	h := a.Handle()

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Login(context.Background())
	}()

	sent := <-conn.sent
	tag := lastSentTag(t, sent)
	conn.pushReply(t, schema.Message{
		TemplateID: templateLoginResponse, UserMsg: []string{tag},
		RpCode: []string{"7", "bad credentials"},
	})

	err := <-errCh
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("Login() error = %v, want ErrProtocol", err)
	}
}

// TestActorShowOrdersMultiPart covers scenario S5: the registry
// accumulates parts until the rp_code-bearing terminator arrives, and
// the handle surfaces every part.
func TestActorShowOrdersMultiPart(t *testing.T) {
	conn := newFakeConn()
	a, cancel := newTestActor(conn)
	defer cancel()
	h := a.Handle()

	respCh := make(chan []InboundResponse, 1)
	errCh := make(chan error, 1)
	go func() {
		resp, err := h.ShowOrders(context.Background())
		respCh <- resp
		errCh <- err
	}()

	sent := <-conn.sent
	tag := lastSentTag(t, sent)

	conn.pushReply(t, schema.Message{TemplateID: templateShowOrdersResponse, UserMsg: []string{tag},
		Fields: map[string]any{"basket_id": "order-1"}})
	conn.pushReply(t, schema.Message{TemplateID: templateShowOrdersResponse, UserMsg: []string{tag},
		Fields: map[string]any{"basket_id": "order-2"}})
	conn.pushReply(t, schema.Message{TemplateID: templateShowOrdersResponse, UserMsg: []string{tag}, RpCode: []string{"0"}})

	if err := <-errCh; err != nil {
		t.Fatalf("ShowOrders() error = %v", err)
	}
	resp := <-respCh
	if len(resp) != 3 {
		t.Fatalf("len(resp) = %d, want 3", len(resp))
	}
	if resp[0].Fields["basket_id"] != "order-1" || resp[1].Fields["basket_id"] != "order-2" {
		t.Errorf("resp parts out of order: %+v", resp)
	}
}

// TestActorSubscribeAckRoutesToCaller covers the ack/update template-id
// collision: the subscribe reply shares a template id with the update
// stream it opens, but it carries the caller's tag and must still reach
// the waiting Handle call rather than the broadcaster.
func TestActorSubscribeAckRoutesToCaller(t *testing.T) {
	conn := newFakeConn()
	a, cancel := newTestActor(conn)
	defer cancel()
	h := a.Handle()

	sub := h.Subscribe()

	errCh := make(chan error, 1)
	go func() {
		_, err := h.SubscribeOrderUpdates(context.Background())
		errCh <- err
	}()

	sent := <-conn.sent
	tag := lastSentTag(t, sent)
	conn.pushReply(t, schema.Message{TemplateID: templateSubscribeOrderUpdates, UserMsg: []string{tag}, RpCode: []string{"0"}})

	if err := <-errCh; err != nil {
		t.Fatalf("SubscribeOrderUpdates() error = %v", err)
	}

	// A later, untagged message on the same template id is an update.
	conn.pushReply(t, schema.Message{TemplateID: templateSubscribeOrderUpdates, Fields: map[string]any{"basket_id": "order-9"}})

	select {
	case u := <-sub.Updates:
		if u.Fields["basket_id"] != "order-9" {
			t.Errorf("update Fields = %+v, want basket_id order-9", u.Fields)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast update")
	}
}

// TestActorUnsolicitedUpdateDuringPendingRequest covers scenario S6: an
// interleaved unsolicited update must not disturb an in-flight request's
// own accumulator.
func TestActorUnsolicitedUpdateDuringPendingRequest(t *testing.T) {
	conn := newFakeConn()
	a, cancel := newTestActor(conn)
	defer cancel()
	h := a.Handle()
	sub := h.Subscribe()

	respCh := make(chan InboundResponse, 1)
	errCh := make(chan error, 1)
	go func() {
		resp, err := h.RithmicSystemInfo(context.Background())
		respCh <- resp
		errCh <- err
	}()

	sent := <-conn.sent
	tag := lastSentTag(t, sent)

	conn.pushReply(t, schema.Message{TemplateID: templateMarketDataUpdate, Fields: map[string]any{"symbol": "ESU6"}})
	conn.pushReply(t, schema.Message{TemplateID: templateRithmicSystemInfo, UserMsg: []string{tag}, RpCode: []string{"0"}})

	if err := <-errCh; err != nil {
		t.Fatalf("RithmicSystemInfo() error = %v", err)
	}
	<-respCh

	select {
	case u := <-sub.Updates:
		if u.Fields["symbol"] != "ESU6" {
			t.Errorf("update Fields = %+v, want symbol ESU6", u.Fields)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for interleaved update")
	}
}

// TestActorShutdownDrainsPending covers property 7: a connection loss
// fails every outstanding request rather than leaking a blocked caller.
func TestActorShutdownDrainsPending(t *testing.T) {
	conn := newFakeConn()
	ctx, cancel := context.WithCancel(context.Background())
	a := NewActor(conn, ConnectionInfo{}, WithLogger(slog.New(slog.DiscardHandler)), WithHeartbeatInterval(time.Hour))
	go a.Run(ctx)
	h := a.Handle()

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Login(context.Background())
	}()

	<-conn.sent // wait until the request is registered and sent
	cancel()

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("Login() error = nil, want non-nil after shutdown drain")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for drained reply")
	}
}

func TestActorSendFailureFailsRequest(t *testing.T) {
	conn := newFakeConn()
	conn.sendErr = errors.New("connection reset")
	a, cancel := newTestActor(conn)
	defer cancel()
	h := a.Handle()

	err := h.Login(context.Background())
	if err == nil {
		t.Error("Login() error = nil, want non-nil on send failure")
	}
}
