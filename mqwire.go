package mqwire

import (
	"context"

	"github.com/ipcwire/mqwire/internal/config"
	"github.com/ipcwire/mqwire/internal/endpoint"
)

// Role fixes an endpoint as the accepting or the connecting side.
type Role = config.Role

// Endpoint roles.
const (
	RoleServer = config.RoleServer
	RoleClient = config.RoleClient
)

// ReceiveCallback handles one inbound application payload. The slice is
// owned by the callback; the endpoint never reuses it.
type ReceiveCallback = config.ReceiveCallback

// Endpoint is one side of a message-queue IPC connection.
//
// Lifecycle: New, Start, then Accept (server) or Connect (client), then
// Send/Receive and the registered callback carry application traffic
// until Close. Endpoints are single-use.
type Endpoint interface {
	// Start creates the endpoint's private read queue and begins
	// watching it for the handshake. Returns a ResourceError when the
	// queue cannot be created.
	Start(ctx context.Context) error

	// Accept blocks until a client's handshake message arrives, then
	// opens the reply path and confirms the connection. Servers only.
	// Unbounded by default; see WithAcceptTimeout.
	Accept(ctx context.Context) error

	// Connect opens the named server queue, declares this endpoint's
	// reply queue, and waits for confirmation. Clients only. Fails fast
	// with a ResourceError when no server is listening, or with a
	// TimeoutError when the server never confirms within ConnectTimeout.
	Connect(ctx context.Context, server string) error

	// RegisterReceiveCallback installs the handler invoked once per
	// inbound payload after the handshake. Idempotent; last one wins.
	// Without a callback, payloads are buffered for Receive up to the
	// configured depth and dropped beyond it.
	RegisterReceiveCallback(cb ReceiveCallback)

	// Send transmits one payload to the peer and returns the number of
	// bytes sent. Payloads above the maximum message size fail with
	// ErrMessageTooLarge, nothing transmitted.
	Send(ctx context.Context, payload []byte) (int, error)

	// Receive blocks for the next inbound payload and copies it into
	// buf. Only meaningful when no callback is registered.
	Receive(ctx context.Context, buf []byte) (int, error)

	// Name returns the endpoint's own read-queue name.
	Name() string

	// Peer returns the peer's queue name once the handshake learned it.
	Peer() string

	// Close tears everything down: stops delivery, closes both queues,
	// and unlinks the locally created queue name. Safe to call multiple
	// times.
	Close() error
}

// New creates an endpoint for the given role.
//
// The endpoint is inert until Start. Servers publish DefaultServerName
// unless WithName overrides it; clients derive a private queue name
// from their process identity unless WithName overrides it.
func New(role Role, opts ...Option) Endpoint {
	options := applyOptions(opts)

	if options.Backend != nil {
		return options.Backend
	}

	return endpoint.New(role, options)
}
