package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/voicebridge/ami/internal/errs"
	"github.com/voicebridge/ami/internal/ids"
	"github.com/voicebridge/ami/internal/logging"
)

const tracerName = "github.com/voicebridge/ami"

// State is the connection lifecycle: Open accepts sends and receives,
// Ending drains pending actions before closing, Closed is terminal.
type State int

const (
	StateOpen State = iota
	StateEnding
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateEnding:
		return "ending"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Handler receives dispatched events. Handlers for one name run in
// registration order; a panic in one handler is isolated and logged
// without affecting the others or the engine.
type Handler func(*Event)

// Synthetic notification channels, alongside per-event-name keys.
const (
	// ChanEvent receives every classified wire event.
	ChanEvent = "event"
	// ChanClose fires once when the connection reaches Closed.
	ChanClose = "close"
	// ChanError fires on an irrecoverable transport fault, before ChanClose.
	ChanError = "error"
)

type pendingEntry struct {
	id   string
	seq  uint64
	fut  *Future
	span trace.Span
}

// Client is the correlation and dispatch engine for one manager
// connection. It owns the outgoing byte sink, the pending-request table,
// and the event-subscriber registry. Exactly one goroutine reads the
// inbound stream, so classification and dispatch are serialized in
// arrival order; Send may be called from any number of goroutines.
//
// Clients for different connections are fully independent.
type Client struct {
	conn    io.ReadWriteCloser
	log     logging.Logger
	metrics *Metrics
	tracer  trace.Tracer
	gen     *ids.Generator

	wmu sync.Mutex // serializes writes to conn

	mu       sync.Mutex
	state    State
	seq      uint64
	pending  map[string]*pendingEntry
	handlers map[string][]Handler

	done chan struct{} // closed when the read loop exits
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger. Default discards everything.
func WithLogger(log logging.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics attaches a collector set. The caller registers it.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracerProvider enables one span per action, ended when the matching
// response resolves the future.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewClient wraps an already-established duplex byte stream. It starts
// the reader goroutine immediately; the connection is Open until End or
// Close. Connection establishment, retries, and reconnects are the
// caller's concern.
func NewClient(conn io.ReadWriteCloser, opts ...Option) *Client {
	c := &Client{
		conn:     conn,
		log:      logging.NewNopLogger(),
		gen:      ids.NewGenerator(),
		pending:  make(map[string]*pendingEntry),
		handlers: make(map[string][]Handler),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLoop()
	return c
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the reader goroutine has exited.
func (c *Client) Done() <-chan struct{} { return c.done }

// Send queues an action: assigns an ActionID when absent, writes the
// serialized frame to the transport, and registers a pending entry. The
// returned Future resolves with the matching Response, fails with a
// *ResponseError for a server-reported error, or fails with
// errs.ErrClosed when the connection dies first.
//
// Send fails fast with errs.ErrEnding after End and errs.ErrClosed after
// Close. The write is the only synchronous step; Send never waits for
// the response.
func (c *Client) Send(action *Action) (*Future, error) {
	if action == nil {
		return nil, errors.New("ami: nil action")
	}
	if name := action.Name(); name == "" {
		return nil, errs.ErrMissingAction
	}

	c.mu.Lock()
	switch c.state {
	case StateEnding:
		c.mu.Unlock()
		return nil, errs.ErrEnding
	case StateClosed:
		c.mu.Unlock()
		return nil, errs.ErrClosed
	}
	id := action.ActionID()
	if id == "" {
		id = c.gen.Next()
		action.Set(actionIDField, id)
	}
	if _, dup := c.pending[id]; dup {
		c.mu.Unlock()
		return nil, errs.ErrActionIDInUse
	}
	c.seq++
	entry := &pendingEntry{id: id, seq: c.seq, fut: newFuture()}
	if c.tracer != nil {
		_, entry.span = c.tracer.Start(context.Background(), "ami.action",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("ami.action", action.Name()),
				attribute.String("ami.action_id", id),
			))
	}
	c.pending[id] = entry
	inFlight := len(c.pending)
	c.mu.Unlock()

	frame := action.marshal()
	c.wmu.Lock()
	_, err := c.conn.Write(frame)
	c.wmu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		inFlight = len(c.pending)
		c.mu.Unlock()
		c.endSpan(entry, err)
		werr := fmt.Errorf("ami: write action: %w", err)
		entry.fut.fail(werr)
		c.metrics.setPending(inFlight)
		return nil, werr
	}

	c.metrics.recordActionSent(action.Name())
	c.metrics.setPending(inFlight)
	c.log.Debug("action queued", logging.Fields{"action": action.Name(), "action_id": id})
	return entry.fut, nil
}

// SendContext is Send followed by Future.Wait.
func (c *Client) SendContext(ctx context.Context, action *Action) (*Response, error) {
	fut, err := c.Send(action)
	if err != nil {
		return nil, err
	}
	return fut.Wait(ctx)
}

// On registers a handler. The name is an event name ("Hangup"), or one of
// the synthetic channels ChanEvent, ChanClose, ChanError. Names are
// case-insensitive; multiple handlers per name run in registration order.
func (c *Client) On(name string, handler Handler) {
	if handler == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(name))
	c.mu.Lock()
	c.handlers[key] = append(c.handlers[key], handler)
	c.mu.Unlock()
}

// End transitions Open to Ending: no new sends are accepted, already
// pending actions keep draining, and the connection closes once the last
// one resolves. A no-op when already Ending or Closed.
func (c *Client) End() {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return
	}
	c.state = StateEnding
	empty := len(c.pending) == 0
	c.mu.Unlock()

	c.log.Info("connection ending", nil)
	if empty {
		c.shutdown(nil)
	}
}

// Close hard-closes from any state: every outstanding pending entry fails
// with errs.ErrClosed in insertion order, the transport is released, and
// no further dispatch happens. Idempotent.
func (c *Client) Close() error {
	c.shutdown(nil)
	return nil
}

func (c *Client) readLoop() {
	defer close(c.done)

	dec := NewDecoder()
	buf := make([]byte, 4096)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			for _, frame := range dec.Feed(buf[:n]) {
				c.dispatch(frame)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || c.State() == StateClosed {
				c.shutdown(nil)
			} else {
				c.shutdown(err)
			}
			return
		}
	}
}

func (c *Client) dispatch(frame Fields) {
	msg, err := Classify(frame)
	if err != nil {
		c.metrics.recordFrameDropped()
		c.log.Debug("dropping unclassifiable frame", logging.Fields{"fields": len(frame)})
		return
	}
	switch m := msg.(type) {
	case *Response:
		c.dispatchResponse(m)
	case *Event:
		c.dispatchEvent(m)
	}
}

func (c *Client) dispatchResponse(resp *Response) {
	id := resp.ActionID()

	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	entry, ok := c.pending[id]
	if id == "" || !ok {
		c.mu.Unlock()
		c.metrics.recordResponseUnmatched()
		c.log.Debug("dropping unmatched response", logging.Fields{"action_id": id})
		return
	}
	delete(c.pending, id)
	inFlight := len(c.pending)
	drained := c.state == StateEnding && inFlight == 0
	c.mu.Unlock()

	c.metrics.recordResponseMatched()
	c.metrics.setPending(inFlight)

	if resp.IsError() {
		err := &ResponseError{Response: resp}
		c.endSpan(entry, err)
		entry.fut.fail(err)
	} else {
		c.endSpan(entry, nil)
		entry.fut.resolve(resp)
	}

	if drained {
		c.shutdown(nil)
	}
}

func (c *Client) dispatchEvent(event *Event) {
	name := event.Name()

	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	handlers := c.handlersLocked(ChanEvent, strings.ToLower(name))
	c.mu.Unlock()

	c.metrics.recordEvent(name)
	for _, h := range handlers {
		c.invoke(h, event)
	}
}

// handlersLocked collects the handler lists for the given keys, catch-all
// first, preserving per-key registration order. Caller holds c.mu.
func (c *Client) handlersLocked(keys ...string) []Handler {
	var out []Handler
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c.handlers[key]...)
	}
	return out
}

func (c *Client) invoke(h Handler, event *Event) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("event handler panicked", fmt.Errorf("%v", r),
				logging.Fields{"event": event.Name()})
		}
	}()
	h(event)
}

// shutdown is the single path to Closed, shared by Close, the drain
// completion of End, and transport faults. cause is non-nil only for a
// transport fault, in which case the "error" notification fires before
// "close".
func (c *Client) shutdown(cause error) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed

	entries := make([]*pendingEntry, 0, len(c.pending))
	for _, entry := range c.pending {
		entries = append(entries, entry)
	}
	c.pending = make(map[string]*pendingEntry)

	var errHandlers []Handler
	if cause != nil {
		errHandlers = c.handlersLocked(ChanError)
	}
	closeHandlers := c.handlersLocked(ChanClose)
	c.mu.Unlock()

	_ = c.conn.Close()

	// Fail outstanding requests in insertion order so the outcome is
	// deterministic under test.
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	for _, entry := range entries {
		c.endSpan(entry, errs.ErrClosed)
		entry.fut.fail(errs.ErrClosed)
	}
	c.metrics.setPending(0)

	if cause != nil {
		c.log.Error("connection error", cause, nil)
		event := newEvent(Fields{
			{Name: "Event", Value: "Error"},
			{Name: "Message", Value: cause.Error()},
		})
		for _, h := range errHandlers {
			c.invoke(h, event)
		}
	}

	c.log.Info("connection closed", logging.Fields{"outstanding": len(entries)})
	event := newEvent(Fields{{Name: "Event", Value: "Close"}})
	for _, h := range closeHandlers {
		c.invoke(h, event)
	}
}

func (c *Client) endSpan(entry *pendingEntry, err error) {
	if entry.span == nil {
		return
	}
	if err != nil {
		entry.span.RecordError(err)
		entry.span.SetStatus(codes.Error, err.Error())
	}
	entry.span.End()
}
