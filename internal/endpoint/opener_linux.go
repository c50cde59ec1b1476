//go:build linux

package endpoint

import (
	"time"

	"github.com/ipcwire/mqwire/internal/posixmq"
)

func newOpener() opener { return mqOpener{} }

// mqOpener backs endpoints with kernel POSIX message queues.
type mqOpener struct{}

func (mqOpener) createRead(name string, maxMessages, maxMessageSize int) (readQueue, error) {
	q, err := posixmq.Create(name, maxMessages, maxMessageSize)
	if err != nil {
		return nil, err
	}

	w, err := posixmq.NewWaiter()
	if err != nil {
		q.Close()
		posixmq.Unlink(name)

		return nil, err
	}

	return &mqReadQueue{q: q, w: w}, nil
}

func (mqOpener) openWrite(name string) (writeQueue, error) {
	q, err := posixmq.OpenWrite(name)
	if err != nil {
		return nil, err
	}

	return &mqWriteQueue{q: q}, nil
}

type mqReadQueue struct {
	q *posixmq.Queue
	w *posixmq.Waiter
}

func (r *mqReadQueue) Name() string { return r.q.Name() }

func (r *mqReadQueue) AwaitReadable() error { return r.w.Wait(r.q.FD()) }

func (r *mqReadQueue) Receive(p []byte) (int, error) { return r.q.Receive(p) }

func (r *mqReadQueue) Wake() { r.w.Wake() }

func (r *mqReadQueue) Close() error {
	err := r.q.Close()
	if werr := r.w.Close(); err == nil {
		err = werr
	}

	return err
}

func (r *mqReadQueue) Unlink() error { return posixmq.Unlink(r.q.Name()) }

type mqWriteQueue struct {
	q *posixmq.Queue
}

func (w *mqWriteQueue) Name() string { return w.q.Name() }

func (w *mqWriteQueue) MsgSize() int { return w.q.MsgSize() }

func (w *mqWriteQueue) Send(p []byte, prio uint, deadline time.Time) error {
	return w.q.Send(p, prio, deadline)
}

func (w *mqWriteQueue) Close() error { return w.q.Close() }
