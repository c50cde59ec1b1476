//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mqwire "github.com/ipcwire/mqwire"
)

// serverName returns a per-process queue name so parallel CI runs never
// collide on the kernel namespace.
func serverName(t *testing.T) string {
	return fmt.Sprintf("/mqwire.itest.%d.%s", os.Getpid(), t.Name())
}

// skipIfNoMqueueSupport probes for working POSIX message queues and
// skips when the host (or sandbox) does not provide them.
func skipIfNoMqueueSupport(t *testing.T) {
	t.Helper()

	probe := mqwire.New(mqwire.RoleClient)
	defer probe.Close()

	if err := probe.Start(context.Background()); err != nil {
		t.Skipf("posix message queues unavailable: %v", err)
	}
}

// startPair runs the handshake between fresh server and client
// endpoints and returns both connected.
func startPair(t *testing.T, opts ...mqwire.Option) (server, client mqwire.Endpoint) {
	t.Helper()

	name := serverName(t)

	server = mqwire.New(mqwire.RoleServer, append(opts, mqwire.WithName(name))...)
	client = mqwire.New(mqwire.RoleClient, opts...)

	t.Cleanup(func() {
		server.Close()
		client.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, server.Start(ctx))
	require.NoError(t, client.Start(ctx))

	acceptDone := make(chan error, 1)

	go func() {
		acceptDone <- server.Accept(ctx)
	}()

	require.NoError(t, client.Connect(ctx, name))
	require.NoError(t, <-acceptDone)

	return server, client
}

func TestHandshake_RoundTrip(t *testing.T) {
	skipIfNoMqueueSupport(t)

	server, client := startPair(t)

	received := make(chan []byte, 1)
	server.RegisterReceiveCallback(func(payload []byte) {
		received <- payload
	})

	ctx := context.Background()

	for _, size := range []int{1, 2, 16, 1023, 1024} {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(i)
		}

		n, err := client.Send(ctx, payload)
		require.NoError(t, err)
		require.Equal(t, size, n)

		select {
		case got := <-received:
			assert.Equal(t, payload, got, "size %d", size)
		case <-time.After(5 * time.Second):
			t.Fatalf("payload of %d bytes never delivered", size)
		}
	}

	// One byte over the maximum is a hard error, nothing transmitted.
	_, err := client.Send(ctx, make([]byte, 1025))
	require.ErrorIs(t, err, mqwire.ErrMessageTooLarge)
}

func TestConnect_NoServerListening(t *testing.T) {
	skipIfNoMqueueSupport(t)

	client := mqwire.New(mqwire.RoleClient)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Start(ctx))

	start := time.Now()
	err := client.Connect(ctx, serverName(t))

	require.Less(t, time.Since(start), time.Second, "must fail fast, not by timeout")

	var re *mqwire.ResourceError
	require.ErrorAs(t, err, &re)
}

func TestConnect_ServerNeverAccepts(t *testing.T) {
	skipIfNoMqueueSupport(t)

	name := serverName(t)

	// The server starts (its queue exists) but never calls Accept, so
	// no confirmation ever comes back.
	server := mqwire.New(mqwire.RoleServer, mqwire.WithName(name))
	defer server.Close()

	client := mqwire.New(mqwire.RoleClient, mqwire.WithConnectTimeout(500*time.Millisecond))
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, server.Start(ctx))
	require.NoError(t, client.Start(ctx))

	start := time.Now()
	err := client.Connect(ctx, name)
	elapsed := time.Since(start)

	var te *mqwire.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.GreaterOrEqual(t, elapsed, 500*time.Millisecond)
	assert.Less(t, elapsed, 3*time.Second)
}

func TestBurst_EventuallyAllDelivered(t *testing.T) {
	skipIfNoMqueueSupport(t)

	server, client := startPair(t, mqwire.WithMaxMessages(8))

	const total = 40

	var delivered atomic.Int64

	done := make(chan struct{})

	server.RegisterReceiveCallback(func([]byte) {
		if delivered.Add(1) == total {
			close(done)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := 0; i < total; i++ {
		_, err := client.Send(ctx, []byte(fmt.Sprintf("burst-%02d", i)))
		require.NoError(t, err)
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("only %d of %d burst messages delivered", delivered.Load(), total)
	}
}

func TestClose_ThenOperationsFail(t *testing.T) {
	skipIfNoMqueueSupport(t)

	server, client := startPair(t)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	ctx := context.Background()

	_, err := client.Send(ctx, []byte("x"))
	require.ErrorIs(t, err, mqwire.ErrEndpointClosed)

	require.ErrorIs(t, client.Start(ctx), mqwire.ErrEndpointClosed)

	require.NoError(t, server.Close())
}

func TestClients_DeriveDistinctNames(t *testing.T) {
	skipIfNoMqueueSupport(t)

	a := mqwire.New(mqwire.RoleClient)
	defer a.Close()

	b := mqwire.New(mqwire.RoleClient)
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, a.Start(ctx))
	require.NoError(t, b.Start(ctx))

	require.NotEmpty(t, a.Name())
	require.NotEmpty(t, b.Name())
	require.NotEqual(t, a.Name(), b.Name())
}
