// Package errors defines error types for the mqwire IPC library.
//
// This package provides structured error types that wrap the failure
// scenarios of message-queue endpoints: resource creation, handshake
// timeouts, confirmation mismatches, and post-connection transport
// failures. All error types support error unwrapping and can be checked
// using errors.Is, errors.As, and errors.AsType.
package errors
