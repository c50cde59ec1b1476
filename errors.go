package mqwire

import "github.com/ipcwire/mqwire/internal/errors"

// Re-export error types from the internal package.

// WireError is the base interface for all mqwire errors.
type WireError = errors.WireError

// ResourceError indicates a queue could not be created, opened, or
// unlinked. Fatal to the operation; the endpoint must be recreated.
type ResourceError = errors.ResourceError

// TimeoutError indicates a handshake wait exceeded its bound. The
// endpoint remains usable; callers may retry Connect.
type TimeoutError = errors.TimeoutError

// ProtocolMismatchError indicates the handshake confirmation did not
// echo the client's own queue name. Surfaced only with
// WithStrictHandshake(true).
type ProtocolMismatchError = errors.ProtocolMismatchError

// TransportError indicates a send or receive failed after the
// connection was established.
type TransportError = errors.TransportError

// Re-export sentinel errors from the internal package.
var (
	// ErrNotConnected indicates the endpoint has not completed a handshake.
	ErrNotConnected = errors.ErrNotConnected

	// ErrAlreadyConnected indicates the endpoint already completed a handshake.
	ErrAlreadyConnected = errors.ErrAlreadyConnected

	// ErrNotStarted indicates Start has not been called.
	ErrNotStarted = errors.ErrNotStarted

	// ErrAlreadyStarted indicates Start was already called.
	ErrAlreadyStarted = errors.ErrAlreadyStarted

	// ErrEndpointClosed indicates the endpoint has been closed and cannot
	// be reused.
	ErrEndpointClosed = errors.ErrEndpointClosed

	// ErrMessageTooLarge indicates a payload exceeds the maximum message size.
	ErrMessageTooLarge = errors.ErrMessageTooLarge

	// ErrWrongRole indicates an operation valid only for the other role.
	ErrWrongRole = errors.ErrWrongRole
)
