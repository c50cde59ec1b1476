package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// File is the on-disk TOML configuration consumed by the mqwire CLI.
// All fields are optional; zero values fall back to the defaults above.
type File struct {
	ServerName       string `toml:"server_name"`
	MaxMessages      int    `toml:"max_messages"`
	MaxMessageSize   int    `toml:"max_message_size"`
	Priority         uint   `toml:"priority"`
	ConnectTimeoutMS int    `toml:"connect_timeout_ms"`
	AcceptTimeoutMS  int    `toml:"accept_timeout_ms"`
	StrictHandshake  bool   `toml:"strict_handshake"`
	LogLevel         string `toml:"log_level"`
}

// LoadFile reads and validates a TOML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return &f, nil
}

// Validate rejects values the kernel or the protocol cannot honor.
func (f *File) Validate() error {
	if f.MaxMessages < 0 {
		return fmt.Errorf("max_messages must not be negative, got %d", f.MaxMessages)
	}

	if f.MaxMessageSize < 0 {
		return fmt.Errorf("max_message_size must not be negative, got %d", f.MaxMessageSize)
	}

	if f.ConnectTimeoutMS < 0 {
		return fmt.Errorf("connect_timeout_ms must not be negative, got %d", f.ConnectTimeoutMS)
	}

	if f.AcceptTimeoutMS < 0 {
		return fmt.Errorf("accept_timeout_ms must not be negative, got %d", f.AcceptTimeoutMS)
	}

	switch f.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", f.LogLevel)
	}

	return nil
}

// Options converts the file into endpoint Options with defaults applied.
func (f *File) Options() *Options {
	o := &Options{
		Name:            f.ServerName,
		MaxMessages:     f.MaxMessages,
		MaxMessageSize:  f.MaxMessageSize,
		Priority:        f.Priority,
		ConnectTimeout:  time.Duration(f.ConnectTimeoutMS) * time.Millisecond,
		AcceptTimeout:   time.Duration(f.AcceptTimeoutMS) * time.Millisecond,
		StrictHandshake: f.StrictHandshake,
	}
	o.ApplyDefaults()

	return o
}
