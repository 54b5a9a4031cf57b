package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsecrets/internal/app"
)

// openReceive parses args for the receive command and wires the app.
func openReceive(t *testing.T, args ...string) *app.Wire {
	t.Helper()
	o := &options{}
	recv, _, err := newRootCmd(o).Find([]string{"receive"})
	require.NoError(t, err)
	require.NoError(t, recv.ParseFlags(args))
	recv.SetContext(context.Background())

	w, err := o.open(recv)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestOpen_ReceiveSettingsFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devsecrets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
poll_interval: 1500ms
metrics_addr: 127.0.0.1:9464
transport:
  kind: memory
  queue: cfg
`), 0o600))

	w := openReceive(t, "--config", path)
	assert.Equal(t, 1500*time.Millisecond, w.Config.PollInterval)
	assert.Equal(t, "127.0.0.1:9464", w.Config.MetricsAddr)

	w = openReceive(t, "--config", path, "--poll-interval", "20ms", "--metrics-addr", "127.0.0.1:9999")
	assert.Equal(t, 20*time.Millisecond, w.Config.PollInterval)
	assert.Equal(t, "127.0.0.1:9999", w.Config.MetricsAddr)
}

func TestOpen_ReceiveDefaults(t *testing.T) {
	w := openReceive(t, "--transport", "memory")
	assert.Equal(t, 250*time.Millisecond, w.Config.PollInterval)
	assert.Empty(t, w.Config.MetricsAddr)
}
