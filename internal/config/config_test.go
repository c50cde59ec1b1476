package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_ApplyDefaults(t *testing.T) {
	var o Options
	o.ApplyDefaults()

	assert.Equal(t, DefaultMaxMessages, o.MaxMessages)
	assert.Equal(t, DefaultMaxMessageSize, o.MaxMessageSize)
	assert.Equal(t, uint(DefaultPriority), o.Priority)
	assert.Equal(t, DefaultConnectTimeout, o.ConnectTimeout)
	assert.Equal(t, time.Duration(DefaultAcceptTimeout), o.AcceptTimeout)
	assert.Equal(t, o.MaxMessages, o.ReceiveBuffer)
}

func TestOptions_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	o := Options{
		MaxMessages:    32,
		MaxMessageSize: 4096,
		Priority:       3,
		ConnectTimeout: time.Second,
		ReceiveBuffer:  8,
	}
	o.ApplyDefaults()

	assert.Equal(t, 32, o.MaxMessages)
	assert.Equal(t, 4096, o.MaxMessageSize)
	assert.Equal(t, uint(3), o.Priority)
	assert.Equal(t, time.Second, o.ConnectTimeout)
	assert.Equal(t, 8, o.ReceiveBuffer)
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "server", RoleServer.String())
	assert.Equal(t, "client", RoleClient.String())
	assert.Equal(t, "unknown", Role(99).String())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mqwire.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server_name = "/mqwire.demo"
max_messages = 8
max_message_size = 2048
priority = 5
connect_timeout_ms = 2500
strict_handshake = true
log_level = "debug"
`)

	f, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/mqwire.demo", f.ServerName)
	assert.Equal(t, 8, f.MaxMessages)
	assert.Equal(t, 2048, f.MaxMessageSize)
	assert.True(t, f.StrictHandshake)

	o := f.Options()
	assert.Equal(t, "/mqwire.demo", o.Name)
	assert.Equal(t, 2500*time.Millisecond, o.ConnectTimeout)
	assert.Equal(t, uint(5), o.Priority)
	assert.True(t, o.StrictHandshake)
}

func TestLoadFile_EmptyFileGetsDefaults(t *testing.T) {
	path := writeConfig(t, "")

	f, err := LoadFile(path)
	require.NoError(t, err)

	o := f.Options()
	assert.Equal(t, DefaultMaxMessages, o.MaxMessages)
	assert.Equal(t, DefaultMaxMessageSize, o.MaxMessageSize)
	assert.Equal(t, DefaultConnectTimeout, o.ConnectTimeout)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadFile_BadTOML(t *testing.T) {
	path := writeConfig(t, "max_messages = [nope")

	_, err := LoadFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config")
}

func TestLoadFile_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative max_messages", "max_messages = -1"},
		{"negative max_message_size", "max_message_size = -5"},
		{"negative connect timeout", "connect_timeout_ms = -100"},
		{"negative accept timeout", "accept_timeout_ms = -100"},
		{"bad log level", `log_level = "loud"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			_, err := LoadFile(path)
			require.Error(t, err)
		})
	}
}
