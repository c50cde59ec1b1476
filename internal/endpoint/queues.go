package endpoint

import "time"

// readQueue is the receive side of an endpoint: one named queue this
// endpoint created and owns. AwaitReadable blocks until a message is
// pending or Wake is called; Receive never blocks.
type readQueue interface {
	Name() string
	AwaitReadable() error
	Receive(p []byte) (int, error)
	Wake()
	Close() error
	Unlink() error
}

// writeQueue is the send side: the peer's queue, opened write-only once
// its name is known. MsgSize reports the peer's configured maximum so
// oversized sends can be rejected before transmitting anything.
type writeQueue interface {
	Name() string
	MsgSize() int
	Send(p []byte, prio uint, deadline time.Time) error
	Close() error
}

// opener creates and opens queues. The default implementation speaks
// POSIX message queues; tests substitute in-memory queues.
type opener interface {
	createRead(name string, maxMessages, maxMessageSize int) (readQueue, error)
	openWrite(name string) (writeQueue, error)
}
