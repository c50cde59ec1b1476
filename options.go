package mqwire

import (
	"log/slog"
	"time"

	"github.com/ipcwire/mqwire/internal/config"
)

// Default tunables, re-exported for callers that size their own buffers.
const (
	DefaultMaxMessages    = config.DefaultMaxMessages
	DefaultMaxMessageSize = config.DefaultMaxMessageSize
	DefaultPriority       = config.DefaultPriority
	DefaultConnectTimeout = config.DefaultConnectTimeout
	DefaultServerName     = config.DefaultServerName
)

// Option configures an endpoint using the functional options pattern.
type Option func(*config.Options)

// applyOptions builds an Options struct from functional options.
func applyOptions(opts []Option) *config.Options {
	options := &config.Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *config.Options) {
		o.Logger = logger
	}
}

// WithName sets the endpoint's read-queue name. Servers default to
// DefaultServerName; clients derive a unique private name. A missing
// leading slash is added.
func WithName(name string) Option {
	return func(o *config.Options) {
		o.Name = name
	}
}

// WithMaxMessages sets the read queue depth.
func WithMaxMessages(n int) Option {
	return func(o *config.Options) {
		o.MaxMessages = n
	}
}

// WithMaxMessageSize caps the payload size the read queue accepts.
func WithMaxMessageSize(n int) Option {
	return func(o *config.Options) {
		o.MaxMessageSize = n
	}
}

// WithPriority tags all sent messages with the given queue priority.
// Both handshake and data messages use one constant priority, so plain
// FIFO ordering applies.
func WithPriority(p uint) Option {
	return func(o *config.Options) {
		o.Priority = p
	}
}

// WithConnectTimeout bounds the client's wait for the handshake
// confirmation. Defaults to 5 seconds.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *config.Options) {
		o.ConnectTimeout = d
	}
}

// WithAcceptTimeout bounds the server's wait for a client handshake.
// Zero, the default, waits indefinitely.
func WithAcceptTimeout(d time.Duration) Option {
	return func(o *config.Options) {
		o.AcceptTimeout = d
	}
}

// WithStrictHandshake makes a confirmation mismatch fail Connect
// immediately with a ProtocolMismatchError. By default a mismatch is
// only logged and the attempt runs out its ConnectTimeout, leaving the
// endpoint free to retry.
func WithStrictHandshake(strict bool) Option {
	return func(o *config.Options) {
		o.StrictHandshake = strict
	}
}

// WithReceiveBuffer sets how many inbound payloads are held for Receive
// when no callback is registered. Defaults to the queue depth; overflow
// is dropped.
func WithReceiveBuffer(n int) Option {
	return func(o *config.Options) {
		o.ReceiveBuffer = n
	}
}

// WithBackend injects a custom backend implementation. Use this for
// testing, mocking, or alternative transports; all other options are
// ignored when a backend is injected.
func WithBackend(b Backend) Option {
	return func(o *config.Options) {
		o.Backend = b
	}
}
