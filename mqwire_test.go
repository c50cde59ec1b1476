package mqwire

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipcwire/mqwire/internal/config"
)

// recordingBackend captures facade calls for injection tests.
type recordingBackend struct {
	started   bool
	accepted  bool
	connected string
	sent      [][]byte
	cb        ReceiveCallback
	closed    int
}

func (b *recordingBackend) Start(context.Context) error { b.started = true; return nil }
func (b *recordingBackend) Accept(context.Context) error {
	b.accepted = true

	return nil
}

func (b *recordingBackend) Connect(_ context.Context, server string) error {
	b.connected = server

	return nil
}

func (b *recordingBackend) RegisterReceiveCallback(cb ReceiveCallback) { b.cb = cb }

func (b *recordingBackend) Send(_ context.Context, payload []byte) (int, error) {
	b.sent = append(b.sent, payload)

	return len(payload), nil
}

func (b *recordingBackend) Receive(context.Context, []byte) (int, error) { return 0, nil }
func (b *recordingBackend) Name() string                                 { return "/fake" }
func (b *recordingBackend) Peer() string                                 { return "/fake.peer" }
func (b *recordingBackend) Close() error                                 { b.closed++; return nil }

var _ Backend = (*recordingBackend)(nil)

func TestNew_ReturnsEndpoint(t *testing.T) {
	ep := New(RoleClient)
	require.NotNil(t, ep)
	require.NoError(t, ep.Close())
}

func TestNew_WithBackendInjection(t *testing.T) {
	backend := &recordingBackend{}
	ep := New(RoleClient, WithBackend(backend))

	ctx := context.Background()

	require.NoError(t, ep.Start(ctx))
	require.NoError(t, ep.Connect(ctx, "/some.server"))

	_, err := ep.Send(ctx, []byte("payload"))
	require.NoError(t, err)

	require.NoError(t, ep.Close())

	assert.True(t, backend.started)
	assert.Equal(t, "/some.server", backend.connected)
	assert.Equal(t, [][]byte{[]byte("payload")}, backend.sent)
	assert.Equal(t, 1, backend.closed)
}

func TestEndpoint_OperationsBeforeStart(t *testing.T) {
	ep := New(RoleClient)
	defer ep.Close()

	ctx := context.Background()

	err := ep.Connect(ctx, "/nobody")
	require.ErrorIs(t, err, ErrNotStarted)

	_, err = ep.Send(ctx, []byte("x"))
	require.ErrorIs(t, err, ErrNotStarted)

	_, err = ep.Receive(ctx, make([]byte, 16))
	require.ErrorIs(t, err, ErrNotStarted)

	assert.Empty(t, ep.Name())
	assert.Empty(t, ep.Peer())
}

func TestEndpoint_CloseBeforeStart(t *testing.T) {
	ep := New(RoleServer)
	require.NoError(t, ep.Close())
	require.NoError(t, ep.Close())

	require.ErrorIs(t, ep.Start(context.Background()), ErrEndpointClosed)
}

func TestOptions_ArePlumbedThrough(t *testing.T) {
	opts := applyOptions([]Option{
		WithName("/custom"),
		WithMaxMessages(8),
		WithMaxMessageSize(512),
		WithPriority(7),
		WithConnectTimeout(2 * time.Second),
		WithAcceptTimeout(10 * time.Second),
		WithStrictHandshake(true),
		WithReceiveBuffer(3),
		WithLogger(NopLogger()),
	})

	assert.Equal(t, "/custom", opts.Name)
	assert.Equal(t, 8, opts.MaxMessages)
	assert.Equal(t, 512, opts.MaxMessageSize)
	assert.Equal(t, uint(7), opts.Priority)
	assert.Equal(t, 2*time.Second, opts.ConnectTimeout)
	assert.Equal(t, 10*time.Second, opts.AcceptTimeout)
	assert.True(t, opts.StrictHandshake)
	assert.Equal(t, 3, opts.ReceiveBuffer)
	assert.NotNil(t, opts.Logger)
}

func TestDefaults_MatchWireFormat(t *testing.T) {
	assert.Equal(t, 5, DefaultMaxMessages)
	assert.Equal(t, 1024, DefaultMaxMessageSize)
	assert.Equal(t, uint(10), uint(DefaultPriority))
	assert.Equal(t, 5*time.Second, DefaultConnectTimeout)
	assert.Equal(t, config.DefaultServerName, DefaultServerName)
}

func TestNopLogger(t *testing.T) {
	log := NopLogger()
	require.NotNil(t, log)

	// Must not panic or write anywhere.
	log.Info("discarded", "key", "value")
}
