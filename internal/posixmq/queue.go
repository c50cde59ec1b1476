//go:build linux

package posixmq

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ipcwire/mqwire/internal/errors"
)

// mode for queue creation: owner and group read/write.
const createMode = 0o770

// mqAttr mirrors the kernel's struct mq_attr (eight longs).
type mqAttr struct {
	Flags   int64
	Maxmsg  int64
	Msgsize int64
	Curmsgs int64
	_       [4]int64
}

// Queue is one open message queue descriptor, read-only or write-only.
type Queue struct {
	fd      int
	name    string
	msgSize int
}

// kernelName strips the leading slash: the mq_* syscalls take the name
// without it (libc does the same before trapping).
func kernelName(name string) (*byte, error) {
	p, err := unix.BytePtrFromString(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, fmt.Errorf("queue name %q: %w", name, err)
	}

	return p, nil
}

// Create makes a new queue for reading with exclusive-create semantics.
// Any stale queue with the same name is unlinked first so a retry after
// a crash succeeds instead of failing with EEXIST. The descriptor is
// opened non-blocking: the receive pump drains it only when poll reports
// it readable.
func Create(name string, maxMessages, maxMessageSize int) (*Queue, error) {
	np, err := kernelName(name)
	if err != nil {
		return nil, err
	}

	// Ignore the result: ENOENT just means there was nothing stale.
	unix.Syscall(unix.SYS_MQ_UNLINK, uintptr(unsafe.Pointer(np)), 0, 0)

	attr := mqAttr{
		Maxmsg:  int64(maxMessages),
		Msgsize: int64(maxMessageSize),
	}

	flags := unix.O_RDONLY | unix.O_CREAT | unix.O_EXCL | unix.O_NONBLOCK

	fd, _, errno := unix.Syscall6(unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(np)),
		uintptr(flags),
		uintptr(createMode),
		uintptr(unsafe.Pointer(&attr)),
		0, 0)
	if errno != 0 {
		return nil, &errors.ResourceError{Op: "create", Name: name, Err: errno}
	}

	return &Queue{
		fd:      int(fd),
		name:    name,
		msgSize: maxMessageSize,
	}, nil
}

// OpenWrite opens an existing queue for writing. It never creates: a
// missing queue fails immediately with ENOENT, which is how a client
// learns that no server is listening.
func OpenWrite(name string) (*Queue, error) {
	np, err := kernelName(name)
	if err != nil {
		return nil, err
	}

	fd, _, errno := unix.Syscall6(unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(np)),
		uintptr(unix.O_WRONLY),
		0, 0, 0, 0)
	if errno != 0 {
		return nil, &errors.ResourceError{Op: "open", Name: name, Err: errno}
	}

	q := &Queue{fd: int(fd), name: name}

	// The peer chose the message size; fetch it so sends can be
	// validated before transmitting anything.
	var attr mqAttr

	_, _, errno = unix.Syscall(unix.SYS_MQ_GETSETATTR,
		fd, 0, uintptr(unsafe.Pointer(&attr)))
	if errno != 0 {
		unix.Close(int(fd))

		return nil, &errors.ResourceError{Op: "open", Name: name, Err: errno}
	}

	q.msgSize = int(attr.Msgsize)

	return q, nil
}

// Unlink removes a queue name from the system.
func Unlink(name string) error {
	np, err := kernelName(name)
	if err != nil {
		return err
	}

	_, _, errno := unix.Syscall(unix.SYS_MQ_UNLINK, uintptr(unsafe.Pointer(np)), 0, 0)
	if errno != 0 {
		return &errors.ResourceError{Op: "unlink", Name: name, Err: errno}
	}

	return nil
}

// IsNotExist reports whether err came from a queue name that does not exist.
func IsNotExist(err error) bool {
	return stderrors.Is(err, unix.ENOENT)
}

// Name returns the queue name as given at open time, with its slash.
func (q *Queue) Name() string { return q.name }

// FD returns the queue descriptor for polling.
func (q *Queue) FD() int { return q.fd }

// MsgSize returns the queue's maximum message size.
func (q *Queue) MsgSize() int { return q.msgSize }

// Send enqueues one message at the given priority. A zero deadline
// blocks until queue space is available; otherwise the send fails with
// ETIMEDOUT once the deadline passes.
func (q *Queue) Send(p []byte, prio uint, deadline time.Time) error {
	var msg unsafe.Pointer
	if len(p) > 0 {
		msg = unsafe.Pointer(&p[0])
	} else {
		var zero byte
		msg = unsafe.Pointer(&zero)
	}

	var tsPtr unsafe.Pointer

	if !deadline.IsZero() {
		ts := unix.NsecToTimespec(deadline.UnixNano())
		tsPtr = unsafe.Pointer(&ts)
	}

	_, _, errno := unix.Syscall6(unix.SYS_MQ_TIMEDSEND,
		uintptr(q.fd),
		uintptr(msg),
		uintptr(len(p)),
		uintptr(prio),
		uintptr(tsPtr),
		0)
	if errno != 0 {
		return &errors.TransportError{Op: "send", Err: errno}
	}

	return nil
}

// Receive drains one message without blocking. Returns ErrQueueEmpty
// when no message is pending. The buffer must be at least MsgSize bytes
// or the kernel rejects the receive with EMSGSIZE.
func (q *Queue) Receive(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, &errors.TransportError{Op: "receive", Err: unix.EMSGSIZE}
	}

	var prio uint32

	n, _, errno := unix.Syscall6(unix.SYS_MQ_TIMEDRECEIVE,
		uintptr(q.fd),
		uintptr(unsafe.Pointer(&p[0])),
		uintptr(len(p)),
		uintptr(unsafe.Pointer(&prio)),
		0, 0)

	switch errno {
	case 0:
		return int(n), nil
	case unix.EAGAIN:
		return 0, errors.ErrQueueEmpty
	default:
		return 0, &errors.TransportError{Op: "receive", Err: errno}
	}
}

// Close releases the descriptor. The name stays in the system until
// unlinked.
func (q *Queue) Close() error {
	if err := unix.Close(q.fd); err != nil {
		return fmt.Errorf("close queue %s: %w", q.name, err)
	}

	return nil
}
