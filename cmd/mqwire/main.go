// Command mqwire is a demo and diagnostics tool for mqwire endpoints:
// it runs an echo server on a well-known queue, or connects to one and
// exchanges a message.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mqwire",
		Short: "IPC over POSIX message queues",
		Long: `mqwire exchanges messages between processes on the same host over
named POSIX message queues. A server publishes a well-known queue name
and accepts a connecting client; the client negotiates its own private
reply queue during the handshake.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to TOML config file")
	root.PersistentFlags().StringVar(&flags.serverName, "name", "", "server queue name")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flags.strict, "strict-handshake", false, "fail fast on handshake confirmation mismatch")

	root.AddCommand(newServeCmd())
	root.AddCommand(newSendCmd())

	return root
}
