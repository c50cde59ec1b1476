package endpoint

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ipcwire/mqwire/internal/config"
	"github.com/ipcwire/mqwire/internal/errors"
	"github.com/ipcwire/mqwire/internal/gate"
)

// phase tags which handler inbound messages are routed to. Each phase
// owns its own contract: the server waits for the client's queue name,
// the client waits for the echoed confirmation, and a connected endpoint
// feeds application traffic to the receive callback.
type phase int

const (
	phaseIdle phase = iota
	phaseAwaitingPeerName     // server: first inbound message names the client's queue
	phaseAwaitingConfirmation // client: inbound message must echo our own queue name
	phaseConnected
)

// Endpoint is the POSIX message queue backend. One endpoint owns one
// read queue and at most one write queue; its receive pump goroutine is
// the only reader of the read queue, and the caller is the only writer
// of the write queue (concurrent Send calls need external serialization).
type Endpoint struct {
	log    *slog.Logger
	opts   *config.Options
	role   config.Role
	opener opener

	rq readQueue

	// gate is signaled while stateMu is held, so a Connect that gives up
	// can roll the phase back and discard a racing signal as one step.
	// The blocked Accept/Connect caller consumes the signal, which
	// publishes the handshake fields below to the waking goroutine.
	gate *gate.Gate

	stateMu sync.Mutex
	phase   phase
	peer    string
	hsErr   error // strict-mode confirmation mismatch, consumed by Connect

	writeMu sync.Mutex
	wq      writeQueue

	cbMu sync.RWMutex
	cb   config.ReceiveCallback

	// delivery buffers inbound payloads for Receive when no callback is
	// registered. Bounded; overflow is dropped.
	delivery chan []byte

	// Fatal error storage for pump failures.
	errMu      sync.RWMutex
	fatalErr   error
	pumpFailed chan struct{}

	eg *errgroup.Group

	mu        sync.Mutex
	done      chan struct{}
	started   bool
	closed    bool
	closeOnce sync.Once
}

// Compile-time verification that Endpoint implements the backend contract.
var _ config.Backend = (*Endpoint)(nil)

// New creates an unstarted endpoint. Call Start to create the read
// queue and begin watching it.
func New(role config.Role, opts *config.Options) *Endpoint {
	if opts == nil {
		opts = &config.Options{}
	}

	opts.ApplyDefaults()

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Endpoint{
		log:        log.With("component", "endpoint", "role", role.String()),
		opts:       opts,
		role:       role,
		opener:     newOpener(),
		gate:       gate.New(),
		delivery:   make(chan []byte, opts.ReceiveBuffer),
		pumpFailed: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// setFatalError stores the first fatal error encountered by the pump.
func (e *Endpoint) setFatalError(err error) {
	if err == nil {
		return
	}

	e.errMu.Lock()
	defer e.errMu.Unlock()

	if e.fatalErr == nil {
		e.fatalErr = err
	}
}

// getFatalError returns the stored fatal error, if any.
func (e *Endpoint) getFatalError() error {
	e.errMu.RLock()
	defer e.errMu.RUnlock()

	return e.fatalErr
}

// Start creates the endpoint's read queue and starts the receive pump
// in handshake phase.
//
// A server without an explicit name publishes the default well-known
// name; a client derives a private name from its process identity.
// Stale queues left by a crashed predecessor are unlinked before the
// exclusive create, so retries succeed instead of failing with EEXIST.
func (e *Endpoint) Start(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.ErrEndpointClosed
	}

	if e.started {
		return errors.ErrAlreadyStarted
	}

	name := e.opts.Name

	switch {
	case name != "":
		name = normalizeName(name)
	case e.role == config.RoleServer:
		name = config.DefaultServerName
	default:
		name = deriveClientName()
	}

	rq, err := e.opener.createRead(name, e.opts.MaxMessages, e.opts.MaxMessageSize)
	if err != nil {
		e.log.Error("failed to create read queue", "queue", name, "error", err)

		return err
	}

	e.rq = rq

	e.stateMu.Lock()

	if e.role == config.RoleServer {
		e.phase = phaseAwaitingPeerName
	} else {
		e.phase = phaseAwaitingConfirmation
	}

	e.stateMu.Unlock()

	// The pump must outlive the caller's ctx: the endpoint stays up
	// until Close, and e.done provides the shutdown signal.
	e.eg, _ = errgroup.WithContext(context.Background())
	e.eg.Go(e.pump)

	e.started = true
	e.log.Info("endpoint started", "queue", name)

	return nil
}

// pump blocks until the read queue is readable, then drains it empty,
// dispatching each message by phase. Draining until empty closes the
// window where a second message arriving during dispatch would never
// trigger another wakeup.
//
// A receive failure stops delivery for this endpoint only; the error is
// stored and surfaced by the next Receive call.
func (e *Endpoint) pump() error {
	defer e.log.Debug("receive pump stopped")

	buf := make([]byte, e.opts.MaxMessageSize)

	for {
		if err := e.rq.AwaitReadable(); err != nil {
			if stderrors.Is(err, errors.ErrWakeup) {
				return nil
			}

			e.log.Error("queue wait failed, delivery stopped", "error", err)
			e.setFatalError(err)
			close(e.pumpFailed)

			return err
		}

		for {
			select {
			case <-e.done:
				return nil
			default:
			}

			n, err := e.rq.Receive(buf)
			if stderrors.Is(err, errors.ErrQueueEmpty) {
				break
			}

			if err != nil {
				e.log.Error("receive failed, delivery stopped", "error", err)
				e.setFatalError(err)
				close(e.pumpFailed)

				return err
			}

			e.dispatch(buf[:n])
		}
	}
}

// dispatch routes one inbound message to the handler for the current
// phase.
func (e *Endpoint) dispatch(msg []byte) {
	e.stateMu.Lock()
	ph := e.phase
	e.stateMu.Unlock()

	switch ph {
	case phaseAwaitingPeerName:
		e.handlePeerName(msg)
	case phaseAwaitingConfirmation:
		e.handleConfirmation(msg)
	case phaseConnected:
		e.deliver(msg)
	default:
		e.log.Warn("message before start, dropped", "len", len(msg))
	}
}

// handlePeerName records the client's declared queue name and wakes the
// blocked Accept call. Inbound routing switches to application traffic
// immediately: anything the client sends after its handshake message is
// data.
func (e *Endpoint) handlePeerName(msg []byte) {
	peer := string(msg)

	e.stateMu.Lock()
	e.peer = peer
	e.phase = phaseConnected
	e.gate.Signal()
	e.stateMu.Unlock()

	e.log.Debug("peer queue name received", "peer", peer)
}

// handleConfirmation validates the server's echo against our own
// read-queue name and wakes the blocked Connect call on a match.
//
// On a mismatch the default behavior is to stay silent and let Connect
// time out; strict mode records the mismatch and wakes Connect so it
// can fail immediately.
func (e *Endpoint) handleConfirmation(msg []byte) {
	got := string(msg)
	want := e.rq.Name()

	if got == want {
		e.stateMu.Lock()
		e.phase = phaseConnected
		e.gate.Signal()
		e.stateMu.Unlock()

		e.log.Debug("handshake confirmation validated")

		return
	}

	if e.opts.StrictHandshake {
		e.stateMu.Lock()
		e.hsErr = &errors.ProtocolMismatchError{Want: want, Got: got}
		e.gate.Signal()
		e.stateMu.Unlock()

		return
	}

	e.log.Warn("handshake confirmation mismatch, letting handshake time out",
		"want", want, "got", got)
}

// deliver hands one application payload to the registered callback, or
// buffers it for Receive. Delivery is at-most-once: with the buffer
// full and no callback, the payload is dropped.
func (e *Endpoint) deliver(msg []byte) {
	p := make([]byte, len(msg))
	copy(p, msg)

	e.cbMu.RLock()
	cb := e.cb
	e.cbMu.RUnlock()

	if cb != nil {
		cb(p)

		return
	}

	select {
	case e.delivery <- p:
	default:
		e.log.Warn("delivery buffer full and no callback registered, dropping message",
			"len", len(p))
	}
}

// ensureStarted verifies the endpoint is usable.
func (e *Endpoint) ensureStarted() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.ErrEndpointClosed
	}

	if !e.started {
		return errors.ErrNotStarted
	}

	return nil
}

// Accept completes the server side of the handshake. It blocks until a
// client's handshake message arrives (bounded by AcceptTimeout when
// configured), opens a write queue to the client's declared name, and
// echoes that name back as confirmation.
//
// A failure to open the write queue or send the confirmation leaves the
// endpoint unusable; tear it down and start over.
func (e *Endpoint) Accept(ctx context.Context) error {
	if err := e.ensureStarted(); err != nil {
		return err
	}

	if e.role != config.RoleServer {
		return errors.ErrWrongRole
	}

	if e.writeQueue() != nil {
		return errors.ErrAlreadyConnected
	}

	e.log.Info("waiting for client handshake")

	if err := e.gate.WaitTimeout(ctx, e.opts.AcceptTimeout); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return &errors.TimeoutError{Op: "accept", Err: err}
		}

		return err
	}

	peer := e.Peer()

	wq, err := e.opener.openWrite(peer)
	if err != nil {
		e.log.Error("failed to open client queue", "peer", peer, "error", err)

		return err
	}

	// Echo the client's declared name back; the client validates the
	// confirmation against its own read-queue name.
	if err := wq.Send([]byte(peer), e.opts.Priority, deadlineOf(ctx)); err != nil {
		wq.Close()
		e.log.Error("failed to send handshake confirmation", "peer", peer, "error", err)

		return err
	}

	e.setWriteQueue(wq)
	e.log.Info("client accepted", "peer", peer)

	return nil
}

// Connect completes the client side of the handshake. It opens the
// server's published queue (failing fast when no server is listening),
// declares this endpoint's read-queue name, and waits up to
// ConnectTimeout for the echoed confirmation.
//
// A timed-out or mismatched handshake resets the write side, so the
// endpoint stays usable for a fresh Connect attempt.
func (e *Endpoint) Connect(ctx context.Context, server string) error {
	if err := e.ensureStarted(); err != nil {
		return err
	}

	if e.role != config.RoleClient {
		return errors.ErrWrongRole
	}

	// Connected means a write path exists. A late confirmation can flip
	// the phase without one; that must not block a retry.
	if e.writeQueue() != nil {
		return errors.ErrAlreadyConnected
	}

	server = normalizeName(server)

	// Clear any mismatch left by a previous strict-mode attempt.
	e.stateMu.Lock()
	e.hsErr = nil
	e.stateMu.Unlock()

	wq, err := e.opener.openWrite(server)
	if err != nil {
		e.log.Error("failed to open server queue", "server", server, "error", err)

		return err
	}

	e.log.Info("connecting", "server", server)

	if err := wq.Send([]byte(e.rq.Name()), e.opts.Priority, deadlineOf(ctx)); err != nil {
		wq.Close()
		e.log.Error("failed to send handshake request", "server", server, "error", err)

		return err
	}

	if err := e.gate.WaitTimeout(ctx, e.opts.ConnectTimeout); err != nil {
		wq.Close()

		// A confirmation landing after the deadline must not leave the
		// endpoint half-connected: roll the phase back and discard any
		// signal the pump raced in, so a retry starts clean.
		e.stateMu.Lock()
		e.phase = phaseAwaitingConfirmation
		e.hsErr = nil
		e.gate.Reset()
		e.stateMu.Unlock()

		if stderrors.Is(err, context.DeadlineExceeded) {
			e.log.Warn("handshake timed out", "server", server)

			return &errors.TimeoutError{Op: "connect", Peer: server, Err: err}
		}

		return err
	}

	e.stateMu.Lock()
	hsErr := e.hsErr
	e.hsErr = nil

	if hsErr == nil {
		e.peer = server
	}

	e.stateMu.Unlock()

	if hsErr != nil {
		wq.Close()

		return hsErr
	}

	e.setWriteQueue(wq)
	e.log.Info("connected", "server", server)

	return nil
}

// RegisterReceiveCallback installs the handler invoked once per inbound
// application message. Idempotent; the last registered callback wins.
// May be called before the handshake completes, but only takes effect
// for messages arriving while connected.
func (e *Endpoint) RegisterReceiveCallback(cb config.ReceiveCallback) {
	e.cbMu.Lock()
	e.cb = cb
	e.cbMu.Unlock()
}

// Send transmits one payload to the connected peer. Payloads larger
// than the peer queue's maximum message size are rejected without
// transmitting anything. Blocks while the peer's queue is full, bounded
// by the context deadline when one is set.
func (e *Endpoint) Send(ctx context.Context, payload []byte) (int, error) {
	if err := e.ensureStarted(); err != nil {
		return 0, err
	}

	wq := e.writeQueue()
	if wq == nil {
		return 0, errors.ErrNotConnected
	}

	if len(payload) > wq.MsgSize() {
		return 0, errors.ErrMessageTooLarge
	}

	if err := wq.Send(payload, e.opts.Priority, deadlineOf(ctx)); err != nil {
		return 0, err
	}

	return len(payload), nil
}

// Receive blocks for the next inbound payload and copies it into buf.
// Intended for endpoints without a registered callback; a registered
// callback consumes messages before they reach the delivery buffer.
// Returns ErrMessageTooLarge when buf is shorter than the payload; the
// truncated prefix is still copied.
func (e *Endpoint) Receive(ctx context.Context, buf []byte) (int, error) {
	if err := e.ensureStarted(); err != nil {
		return 0, err
	}

	if !e.connected() {
		return 0, errors.ErrNotConnected
	}

	if err := e.getFatalError(); err != nil {
		return 0, err
	}

	select {
	case p := <-e.delivery:
		n := copy(buf, p)
		if n < len(p) {
			return n, errors.ErrMessageTooLarge
		}

		return n, nil

	case <-e.pumpFailed:
		return 0, e.getFatalError()

	case <-e.done:
		return 0, errors.ErrEndpointClosed

	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Name returns the endpoint's own read-queue name. Empty before Start.
func (e *Endpoint) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rq == nil {
		return ""
	}

	return e.rq.Name()
}

// Peer returns the peer's queue name once the handshake has learned it.
func (e *Endpoint) Peer() string {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	return e.peer
}

// Close tears the endpoint down: stops the pump, closes both queue
// descriptors, and unlinks only the locally created read-queue name.
// Safe to call multiple times; every operation after Close fails with
// ErrEndpointClosed.
func (e *Endpoint) Close() error {
	var closeErr error

	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		wasStarted := e.started
		e.mu.Unlock()

		if !wasStarted {
			return
		}

		e.log.Info("closing endpoint")

		close(e.done)
		e.rq.Wake()

		if e.eg != nil {
			// Pump errors were already surfaced through Receive;
			// Close only waits for the goroutine to finish.
			e.eg.Wait()
		}

		if err := e.rq.Close(); err != nil {
			closeErr = err
		}

		if err := e.rq.Unlink(); err != nil && closeErr == nil {
			closeErr = err
		}

		if wq := e.writeQueue(); wq != nil {
			if err := wq.Close(); err != nil && closeErr == nil {
				closeErr = err
			}
		}

		e.log.Info("endpoint closed")
	})

	return closeErr
}

// connected reports whether the handshake has completed.
func (e *Endpoint) connected() bool {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	return e.phase == phaseConnected
}

func (e *Endpoint) writeQueue() writeQueue {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	return e.wq
}

func (e *Endpoint) setWriteQueue(wq writeQueue) {
	e.writeMu.Lock()
	e.wq = wq
	e.writeMu.Unlock()
}

// deadlineOf extracts the context deadline, zero when unset.
func deadlineOf(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}

	return time.Time{}
}
