// Package config provides configuration types and the backend contract
// for mqwire endpoints.
package config

import (
	"context"
	"log/slog"
	"time"
)

// Tunable defaults. They match the constants the wire format was
// originally deployed with, so endpoints built with default options
// interoperate with existing peers.
const (
	// DefaultMaxMessages is the queue depth.
	DefaultMaxMessages = 5

	// DefaultMaxMessageSize is the largest payload a queue accepts.
	DefaultMaxMessageSize = 1024

	// DefaultPriority tags every sent message; plain FIFO order applies
	// as long as both sides use one constant priority.
	DefaultPriority = 10

	// DefaultConnectTimeout bounds the client's wait for the handshake
	// confirmation.
	DefaultConnectTimeout = 5000 * time.Millisecond

	// DefaultAcceptTimeout is zero: Accept waits indefinitely unless
	// configured otherwise.
	DefaultAcceptTimeout = 0

	// DefaultServerName is the well-known rendezvous queue name used when
	// a server endpoint is not given an explicit name.
	DefaultServerName = "/mqwire.server"
)

// Role fixes an endpoint as the accepting or the connecting side.
// It never changes after creation.
type Role int

const (
	// RoleServer publishes a well-known queue and accepts one client.
	RoleServer Role = iota

	// RoleClient creates a private reply queue and connects to a server.
	RoleClient
)

// String returns the role name for logging.
func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

// ReceiveCallback handles one inbound application payload. The slice is
// owned by the callback; the endpoint never reuses it.
type ReceiveCallback func(payload []byte)

// Backend is the fixed operation contract an endpoint implementation
// provides. The default implementation speaks POSIX message queues;
// custom backends can be injected via Options.Backend for testing or
// alternative transports.
type Backend interface {
	// Start creates the endpoint's read queue and begins watching it.
	Start(ctx context.Context) error

	// Accept completes the server side of the handshake.
	Accept(ctx context.Context) error

	// Connect completes the client side of the handshake against the
	// named server queue.
	Connect(ctx context.Context, server string) error

	// RegisterReceiveCallback installs the handler for inbound payloads.
	// Idempotent; the last registered callback wins.
	RegisterReceiveCallback(cb ReceiveCallback)

	// Send transmits one payload to the connected peer.
	Send(ctx context.Context, payload []byte) (int, error)

	// Receive blocks for the next inbound payload when no callback is
	// registered.
	Receive(ctx context.Context, buf []byte) (int, error)

	// Name returns the endpoint's own read-queue name.
	Name() string

	// Peer returns the peer's queue name once learned, or "".
	Peer() string

	// Close tears the endpoint down. Safe to call multiple times.
	Close() error
}

// Options holds endpoint configuration.
type Options struct {
	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger

	// Name is the endpoint's read-queue name. Servers default to
	// DefaultServerName; clients derive a unique name when empty.
	Name string

	// MaxMessages is the read queue depth.
	MaxMessages int

	// MaxMessageSize caps payload size on the read queue.
	MaxMessageSize int

	// Priority tags all sent messages.
	Priority uint

	// ConnectTimeout bounds the client handshake wait.
	ConnectTimeout time.Duration

	// AcceptTimeout bounds the server handshake wait. Zero waits forever.
	AcceptTimeout time.Duration

	// StrictHandshake surfaces a confirmation mismatch immediately as a
	// ProtocolMismatchError instead of letting the handshake time out.
	StrictHandshake bool

	// ReceiveBuffer is the depth of the delivery channel drained by
	// Receive when no callback is registered. Defaults to MaxMessages.
	ReceiveBuffer int

	// Backend overrides the default POSIX message queue implementation.
	Backend Backend
}

// ApplyDefaults fills zero-valued tunables.
func (o *Options) ApplyDefaults() {
	if o.MaxMessages <= 0 {
		o.MaxMessages = DefaultMaxMessages
	}

	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = DefaultMaxMessageSize
	}

	if o.Priority == 0 {
		o.Priority = DefaultPriority
	}

	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}

	if o.ReceiveBuffer <= 0 {
		o.ReceiveBuffer = o.MaxMessages
	}
}
