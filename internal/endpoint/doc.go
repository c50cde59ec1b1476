// Package endpoint implements the message-queue IPC endpoint: queue
// lifecycle, the connect/accept handshake, and the receive pump that
// turns message arrival into callback invocations.
//
// Each endpoint owns exactly one read queue, created at Start and
// unlinked at Close, and opens at most one write queue once the peer's
// name is learned during the handshake. A dedicated pump goroutine is
// the sole reader of the read queue: it blocks until the queue is
// readable, drains it empty, and routes each message either into the
// handshake state machine or to the registered receive callback,
// depending on the endpoint's phase.
package endpoint
