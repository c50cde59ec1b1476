package mqwire

import "github.com/ipcwire/mqwire/internal/config"

// Backend is the fixed operation contract an endpoint implementation
// provides: init, deinit, accept, connect, callback registration, send,
// and receive. Implement this to provide custom backends for testing,
// mocking, or alternative transports.
//
// The default implementation speaks POSIX message queues. Custom
// backends can be injected via WithBackend.
type Backend = config.Backend
