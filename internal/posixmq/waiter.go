//go:build linux

package posixmq

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/ipcwire/mqwire/internal/errors"
)

// Waiter blocks until a queue descriptor becomes readable. Queue
// descriptors on Linux are pollable, so a pipe folded into the poll set
// gives Wake a way to interrupt the wait for shutdown.
type Waiter struct {
	r int
	w int
}

// NewWaiter creates the wakeup pipe.
func NewWaiter() (*Waiter, error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, fmt.Errorf("create wakeup pipe: %w", err)
	}

	return &Waiter{r: p[0], w: p[1]}, nil
}

// Wait blocks until fd is readable or Wake is called. Returns ErrWakeup
// on wakeup so the caller can tell the two apart.
func (w *Waiter) Wait(fd int) error {
	fds := []unix.PollFd{
		{Fd: int32(fd), Events: unix.POLLIN},
		{Fd: int32(w.r), Events: unix.POLLIN},
	}

	for {
		_, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}

		if err != nil {
			return fmt.Errorf("poll queue: %w", err)
		}

		// Check the wakeup pipe first so shutdown wins over pending data.
		if fds[1].Revents&unix.POLLIN != 0 {
			w.drain()

			return errors.ErrWakeup
		}

		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			return nil
		}
	}
}

// Wake interrupts a concurrent Wait. Safe to call multiple times.
func (w *Waiter) Wake() {
	var b [1]byte

	// A full pipe already guarantees the waiter will wake.
	unix.Write(w.w, b[:])
}

func (w *Waiter) drain() {
	var b [64]byte

	for {
		n, err := unix.Read(w.r, b[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// Close releases both pipe ends.
func (w *Waiter) Close() error {
	err1 := unix.Close(w.r)
	err2 := unix.Close(w.w)

	if err1 != nil {
		return fmt.Errorf("close wakeup pipe: %w", err1)
	}

	if err2 != nil {
		return fmt.Errorf("close wakeup pipe: %w", err2)
	}

	return nil
}
