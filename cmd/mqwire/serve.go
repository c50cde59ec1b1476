package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mqwire "github.com/ipcwire/mqwire"
)

func newServeCmd() *cobra.Command {
	var echo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a server endpoint and print received messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), echo)
		},
	}

	cmd.Flags().BoolVar(&echo, "echo", false, "echo each received payload back to the client")

	return cmd
}

func runServe(parent context.Context, echo bool) error {
	opts, server, err := loadOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ep := mqwire.New(mqwire.RoleServer, append(opts, mqwire.WithName(server))...)
	defer ep.Close()

	if err := ep.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	ep.RegisterReceiveCallback(func(payload []byte) {
		fmt.Printf("recv %d bytes: %s\n", len(payload), payload)

		if echo {
			if _, err := ep.Send(ctx, payload); err != nil {
				fmt.Printf("echo failed: %v\n", err)
			}
		}
	})

	fmt.Printf("listening on %s\n", ep.Name())

	if err := ep.Accept(ctx); err != nil {
		return fmt.Errorf("accept: %w", err)
	}

	fmt.Printf("client connected: %s\n", ep.Peer())

	// Deliver until interrupted.
	<-ctx.Done()

	return nil
}
