package plant

import (
	"context"
	"log/slog"
	"time"

	"github.com/rithmic-go/rithmic/pkg/websocket"
)

// wsConn is the subset of *websocket.Conn the actor depends on,
// narrowed so tests can exercise the event loop against a fake.
type wsConn interface {
	IncomingMessages() <-chan websocket.Message
	SendBinaryMessage(data []byte) <-chan error
	Close(status websocket.StatusCode)
}

// Default tunables; override with WithCommandQueueCapacity,
// WithHeartbeatInterval.
const (
	DefaultCommandQueueCapacity = 32
	DefaultHeartbeatInterval    = 15 * time.Second
)

// FrameObserver is notified of every frame the actor sends or
// receives, for metrics or logging. direction is "out" or "in".
// templateID is -1 for outbound requests other than heartbeats and for
// inbound frames that fail to decode.
type FrameObserver func(direction string, templateID int, err error)

// Actor is the single-goroutine event loop owning one WebSocket
// connection, the sender encoder, the receiver decoder, the request
// registry, and a heartbeat ticker. Construct one with NewActor and
// run it with Run; interact with it through the Handle returned by
// Actor.Handle.
type Actor struct {
	logger            *slog.Logger
	conn              wsConn
	enc               *encoder
	reg               *registry
	bcast             *broadcaster
	commands          chan command
	heartbeatInterval time.Duration
	observe           FrameObserver
	identity          SessionIdentity

	loggedIn bool
}

// Option configures an Actor at construction time.
type Option func(*Actor)

func WithLogger(l *slog.Logger) Option {
	return func(a *Actor) { a.logger = l }
}

func WithHeartbeatInterval(d time.Duration) Option {
	return func(a *Actor) { a.heartbeatInterval = d }
}

func WithCommandQueueCapacity(n int) Option {
	return func(a *Actor) { a.commands = make(chan command, n) }
}

func WithFrameObserver(f FrameObserver) Option {
	return func(a *Actor) { a.observe = f }
}

// WithSessionIdentity pre-populates the FCM/IB/account identifiers
// stamped onto order-bearing requests, for callers (e.g. a credential
// vault lookup) that already know them before login completes.
func WithSessionIdentity(id SessionIdentity) Option {
	return func(a *Actor) { a.identity = id }
}

// NewActor constructs an Actor bound to conn (already past the
// WebSocket handshake) and connInfo. Call Run to start the event loop,
// and Handle to obtain the caller-facing facade.
func NewActor(conn wsConn, connInfo ConnectionInfo, opts ...Option) *Actor {
	a := &Actor{
		logger:            slog.Default(),
		conn:              conn,
		heartbeatInterval: DefaultHeartbeatInterval,
		observe:           func(string, int, error) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.commands == nil {
		a.commands = make(chan command, DefaultCommandQueueCapacity)
	}

	a.enc = newEncoder(connInfo)
	a.enc.identity = a.identity
	a.reg = newRegistry(a.logger)
	a.bcast = newBroadcaster()

	return a
}

// Handle returns the caller-facing facade bound to this actor.
// Cheap to call repeatedly; every Handle shares the same command
// queue and subscription broadcaster.
func (a *Actor) Handle() *Handle {
	return &Handle{commands: a.commands, bcast: a.bcast}
}

// Run drives the event loop until the connection closes, ctx is
// canceled, or a Close command is processed. It suspends only at the
// select below and at each send to the connection; no case is given
// strict priority, mirroring the "no source starves" requirement
// without hand-rolling a priority scheduler Go's select doesn't need.
func (a *Actor) Run(ctx context.Context) {
	ticker := time.NewTicker(a.heartbeatInterval)
	defer ticker.Stop()

	inbound := a.conn.IncomingMessages()

	for {
		select {
		case <-ticker.C:
			if a.loggedIn {
				a.sendHeartbeat()
			}

		case cmd, ok := <-a.commands:
			if !ok {
				a.shutdown(websocket.StatusGoingAway)
				return
			}
			if cmd.close {
				a.shutdown(websocket.StatusNormalClosure)
				return
			}
			a.handleCommand(cmd)

		case msg, ok := <-inbound:
			if !ok {
				a.shutdown(websocket.StatusNormalClosure)
				return
			}
			a.handleInbound(msg)

		case <-ctx.Done():
			a.shutdown(websocket.StatusGoingAway)
			return
		}
	}
}

func (a *Actor) shutdown(status websocket.StatusCode) {
	a.conn.Close(status)
	a.reg.drainAll()
	a.bcast.closeAll()
}

func (a *Actor) sendHeartbeat() {
	frame, _, err := a.enc.Heartbeat()
	if err != nil {
		a.logger.Error("failed to build heartbeat", slog.Any("error", err))
		return
	}
	if err := <-a.conn.SendBinaryMessage(frame); err != nil {
		a.logger.Error("failed to send heartbeat", slog.Any("error", err))
		a.observe("out", templateHeartbeat, err)
		return
	}
	a.observe("out", templateHeartbeat, nil)
}

// handleCommand builds and sends the command's request. Registration
// happens before the send, to preclude a race where the reply arrives
// before the tag is known.
func (a *Actor) handleCommand(cmd command) {
	frame, tag, err := cmd.encode(a.enc)
	if err != nil {
		a.fulfillWithError(cmd.reply, err)
		return
	}

	a.reg.register(tag, cmd.reply)

	if err := <-a.conn.SendBinaryMessage(frame); err != nil {
		a.logger.Error("failed to send request", slog.String("command", cmd.name), slog.Any("error", err))
		a.observe("out", -1, err)
		a.reg.fail(tag, err)
		return
	}

	a.observe("out", -1, nil)
}

func (a *Actor) fulfillWithError(reply chan []InboundResponse, err error) {
	reply <- []InboundResponse{{HasRpCode: true, RpCode: "error", ErrorText: err.Error()}}
	close(reply)
}

func (a *Actor) handleInbound(msg websocket.Message) {
	if msg.Opcode != websocket.OpcodeBinary {
		a.logger.Debug("ignoring non-binary WebSocket message", slog.String("opcode", msg.Opcode.String()))
		return
	}

	resp, err := decodeInbound(msg.Data)
	if err != nil {
		a.logger.Error("failed to decode inbound frame", slog.Any("error", err))
		a.observe("in", -1, err)
		return
	}
	a.observe("in", resp.TemplateID, nil)

	if resp.TemplateID == templateLoginResponse && resp.HasRpCode && resp.RpCode == "0" {
		a.loggedIn = true
		for key, dst := range map[string]*string{
			"fcm_id":     &a.enc.identity.FCMID,
			"ib_id":      &a.enc.identity.IBID,
			"account_id": &a.enc.identity.AccountID,
		} {
			if v, ok := resp.Fields[key].(string); ok && v != "" {
				*dst = v
			}
		}
	}

	// A tagged message always goes to the registry first, even for a
	// template id that otherwise defaults to the update role: the ack
	// reply to a subscribe request carries the same template id as the
	// update stream it opens, but it also carries the caller's
	// correlation tag, so a registered request claims it.
	if resp.HasTag && a.reg.deliver(resp) {
		return
	}

	if resp.IsUpdate {
		a.bcast.publish(resp)
		return
	}

	a.logger.Debug("dropping unmatched reply", slog.Int("template_id", resp.TemplateID),
		slog.String("tag", resp.CorrelationTag))
}
