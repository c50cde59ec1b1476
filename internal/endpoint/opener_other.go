//go:build !linux

package endpoint

import (
	stderrors "errors"

	"github.com/ipcwire/mqwire/internal/errors"
)

var errUnsupported = stderrors.New("posix message queues require linux")

func newOpener() opener { return unsupportedOpener{} }

type unsupportedOpener struct{}

func (unsupportedOpener) createRead(name string, _, _ int) (readQueue, error) {
	return nil, &errors.ResourceError{Op: "create", Name: name, Err: errUnsupported}
}

func (unsupportedOpener) openWrite(name string) (writeQueue, error) {
	return nil, &errors.ResourceError{Op: "open", Name: name, Err: errUnsupported}
}
