package endpoint

import (
	"fmt"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"
)

// deriveClientName returns a read-queue name that is unique across
// processes (pid) and across endpoints within one process (ulid), so
// concurrent clients never collide on the rendezvous namespace.
func deriveClientName() string {
	return fmt.Sprintf("/mqwire.client.%d.%s", os.Getpid(), ulid.Make())
}

// normalizeName ensures the leading slash POSIX queue names require.
func normalizeName(name string) string {
	if !strings.HasPrefix(name, "/") {
		return "/" + name
	}

	return name
}
