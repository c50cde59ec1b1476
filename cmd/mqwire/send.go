package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	mqwire "github.com/ipcwire/mqwire"
)

func newSendCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "send <message> [message...]",
		Short: "Connect to a server and send messages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd.Context(), args, wait)
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "wait this long for a reply after each message")

	return cmd
}

func runSend(parent context.Context, messages []string, wait time.Duration) error {
	opts, server, err := loadOptions()
	if err != nil {
		return err
	}

	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}

	ep := mqwire.New(mqwire.RoleClient, opts...)
	defer ep.Close()

	if err := ep.Start(ctx); err != nil {
		return fmt.Errorf("start client: %w", err)
	}

	if err := ep.Connect(ctx, server); err != nil {
		return fmt.Errorf("connect to %s: %w", server, err)
	}

	// Generous reply buffer: servers may run with a raised message size.
	buf := make([]byte, 64*1024)

	for _, msg := range messages {
		n, err := ep.Send(ctx, []byte(msg))
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}

		fmt.Printf("sent %d bytes\n", n)

		if wait <= 0 {
			continue
		}

		replyCtx, cancel := context.WithTimeout(ctx, wait)
		n, err = ep.Receive(replyCtx, buf)
		cancel()

		if err != nil {
			return fmt.Errorf("wait for reply: %w", err)
		}

		fmt.Printf("reply %d bytes: %s\n", n, buf[:n])
	}

	return nil
}
