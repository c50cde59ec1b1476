package main

import (
	"log/slog"
	"os"
	"time"

	mqwire "github.com/ipcwire/mqwire"
	"github.com/ipcwire/mqwire/internal/config"
)

// flags holds the CLI flag values shared across subcommands.
var flags struct {
	configPath string
	serverName string
	logLevel   string
	strict     bool
}

// loadOptions merges the config file (when given) with flag overrides
// and returns endpoint options plus the server queue name to use.
func loadOptions() (opts []mqwire.Option, server string, err error) {
	file := &config.File{}

	if flags.configPath != "" {
		file, err = config.LoadFile(flags.configPath)
		if err != nil {
			return nil, "", err
		}
	}

	server = file.ServerName
	if flags.serverName != "" {
		server = flags.serverName
	}

	if server == "" {
		server = mqwire.DefaultServerName
	}

	if file.MaxMessages > 0 {
		opts = append(opts, mqwire.WithMaxMessages(file.MaxMessages))
	}

	if file.MaxMessageSize > 0 {
		opts = append(opts, mqwire.WithMaxMessageSize(file.MaxMessageSize))
	}

	if file.Priority > 0 {
		opts = append(opts, mqwire.WithPriority(file.Priority))
	}

	if file.ConnectTimeoutMS > 0 {
		opts = append(opts, mqwire.WithConnectTimeout(time.Duration(file.ConnectTimeoutMS)*time.Millisecond))
	}

	if file.AcceptTimeoutMS > 0 {
		opts = append(opts, mqwire.WithAcceptTimeout(time.Duration(file.AcceptTimeoutMS)*time.Millisecond))
	}

	if file.StrictHandshake || flags.strict {
		opts = append(opts, mqwire.WithStrictHandshake(true))
	}

	opts = append(opts, mqwire.WithLogger(newLogger(file.LogLevel)))

	return opts, server, nil
}

// newLogger builds a text slog writing to stderr. The flag wins over
// the config file; an empty level means info.
func newLogger(fileLevel string) *slog.Logger {
	level := fileLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}

	var l slog.Level

	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
