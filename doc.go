// Package mqwire provides connection-oriented IPC between processes on
// the same host over named POSIX message queues.
//
// Two roles exist: a long-lived server publishes a well-known queue
// name and accepts a connecting client; the client creates its own
// private reply queue, declares its name to the server, and waits for
// an echoed confirmation. Once the handshake completes, both sides hold
// a private pair of read/write queues and exchange opaque payloads.
// Inbound messages are push-driven: each one is handed to a registered
// receive callback without the consumer polling or blocking in a
// receive call.
//
// # Server
//
//	ep := mqwire.New(mqwire.RoleServer,
//	    mqwire.WithName("/myapp.server"),
//	    mqwire.WithLogger(slog.Default()),
//	)
//	defer ep.Close()
//
//	if err := ep.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	ep.RegisterReceiveCallback(func(payload []byte) {
//	    fmt.Printf("received %d bytes\n", len(payload))
//	})
//
//	if err := ep.Accept(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Client
//
//	ep := mqwire.New(mqwire.RoleClient)
//	defer ep.Close()
//
//	if err := ep.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := ep.Connect(ctx, "/myapp.server"); err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := ep.Send(ctx, []byte("hello")); err != nil {
//	    log.Fatal(err)
//	}
//
// Endpoints are single-use: after Close, create a new one with New.
// Concurrent Send calls on one endpoint need external serialization;
// everything else is safe to call from any goroutine.
//
// Payloads are limited to the queue's maximum message size (1024 bytes
// by default); larger sends fail without transmitting anything. The
// library requires Linux, where queue descriptors are pollable file
// descriptors.
package mqwire
