// Package posixmq wraps the Linux POSIX message queue syscalls
// (mq_open, mq_timedsend, mq_timedreceive, mq_unlink) behind a small
// Queue type, plus a Waiter that blocks until a queue descriptor is
// readable or an explicit wakeup is requested.
//
// The package talks to the kernel directly through golang.org/x/sys/unix
// because no libc is involved: queue descriptors on Linux are plain file
// descriptors, which makes them pollable and lets the receive side stay
// non-blocking.
package posixmq
