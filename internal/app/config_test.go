package app_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsecrets/internal/app"
	"devsecrets/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := app.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileDerivedKey, cfg.ParsedProfile())
	assert.Equal(t, app.TransportSQLite, cfg.Transport.Kind)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
profile: derived-key-agreement
log_level: debug
poll_interval: 1s
visibility_timeout: 45s
transport:
  kind: relay
  queue: alice
  relay_url: http://relay.internal:9000
`)
	cfg, err := app.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileDerivedKeyWithAgreement, cfg.ParsedProfile())
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 45*time.Second, cfg.VisibilityTimeout)
	assert.Equal(t, "alice", cfg.Transport.Queue)
	assert.Equal(t, "http://relay.internal:9000", cfg.Transport.RelayURL)
	// Untouched keys keep their defaults.
	assert.Equal(t, "127.0.0.1:8080", cfg.Relay.Listen)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown profile":    "profile: rot13\n",
		"unknown transport":  "transport:\n  kind: carrier-pigeon\n",
		"pubsub needs topic": "transport:\n  kind: pubsub\n  pubsub_project: p\n",
		"bad log level":      "log_level: loud\n",
		"zero poll":          "poll_interval: 0s\n",
		"queue with slash":   "transport:\n  queue: a/b\n",
		"unknown key":        "colour: blue\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := app.LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := app.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := app.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, app.Defaults().Transport.Queue, cfg.Transport.Queue)
}
