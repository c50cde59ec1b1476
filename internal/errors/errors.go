package errors

import (
	"errors"
	"fmt"
)

// WireError is the base interface for all mqwire errors.
type WireError interface {
	error
	IsWireError() bool
}

// Compile-time verification that all error types implement WireError.
var (
	_ WireError = (*ResourceError)(nil)
	_ WireError = (*TimeoutError)(nil)
	_ WireError = (*ProtocolMismatchError)(nil)
	_ WireError = (*TransportError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNotConnected indicates the endpoint has not completed a handshake.
	ErrNotConnected = errors.New("endpoint not connected")

	// ErrAlreadyConnected indicates the endpoint already completed a handshake.
	ErrAlreadyConnected = errors.New("endpoint already connected")

	// ErrNotStarted indicates Start has not been called on the endpoint.
	ErrNotStarted = errors.New("endpoint not started")

	// ErrAlreadyStarted indicates Start was already called on the endpoint.
	ErrAlreadyStarted = errors.New("endpoint already started")

	// ErrEndpointClosed indicates the endpoint has been closed and cannot be
	// reused. Endpoints are single-use: create a new one with New().
	ErrEndpointClosed = errors.New("endpoint closed: endpoints are single-use, create a new one with New()")

	// ErrMessageTooLarge indicates a payload exceeds the queue's maximum
	// message size. Nothing is transmitted.
	ErrMessageTooLarge = errors.New("message exceeds maximum message size")

	// ErrWrongRole indicates an operation valid only for the other role,
	// such as Accept on a client or Connect on a server.
	ErrWrongRole = errors.New("operation not valid for endpoint role")

	// ErrQueueEmpty indicates a non-blocking receive found no message.
	// Internal to the receive pump; never returned to callers.
	ErrQueueEmpty = errors.New("queue empty")

	// ErrWakeup indicates a blocking wait was interrupted by an explicit
	// wakeup rather than by queue readability. Internal to the receive pump.
	ErrWakeup = errors.New("wait interrupted by wakeup")
)

// ResourceError indicates creation or opening of an OS resource failed:
// a message queue could not be created, opened, or unlinked.
type ResourceError struct {
	Op   string // "create", "open", "unlink"
	Name string // queue name involved
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s queue %s: %v", e.Op, e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// IsWireError implements WireError.
func (e *ResourceError) IsWireError() bool { return true }

// TimeoutError indicates a handshake wait exceeded its bound.
// The endpoint remains usable: callers may retry Connect.
type TimeoutError struct {
	Op   string // "connect", "accept"
	Peer string // peer queue name, if known
	Err  error
}

func (e *TimeoutError) Error() string {
	if e.Peer != "" {
		return fmt.Sprintf("%s %s: timed out: %v", e.Op, e.Peer, e.Err)
	}

	return fmt.Sprintf("%s: timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// IsWireError implements WireError.
func (e *TimeoutError) IsWireError() bool { return true }

// ProtocolMismatchError indicates the handshake confirmation did not echo
// the client's own read-queue name. Only surfaced in strict handshake mode;
// the default mode logs the mismatch and lets the handshake time out.
type ProtocolMismatchError struct {
	Want string
	Got  string
}

func (e *ProtocolMismatchError) Error() string {
	return fmt.Sprintf("handshake confirmation mismatch: want %q, got %q", e.Want, e.Got)
}

// IsWireError implements WireError.
func (e *ProtocolMismatchError) IsWireError() bool { return true }

// TransportError indicates a send or receive failed after the connection
// was established. The receive pump additionally stops delivering for the
// endpoint when its own receive fails; the endpoint must be recreated.
type TransportError struct {
	Op  string // "send", "receive"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsWireError implements WireError.
func (e *TransportError) IsWireError() bool { return true }
