package commands_test

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsecrets/cmd/devsecrets/commands"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestKeygen(t *testing.T) {
	out, err := run(t, "", "keygen")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{64}\n$`), out)
}

func TestSendReceive_DerivedKey(t *testing.T) {
	db := filepath.Join(t.TempDir(), "q.db")
	common := []string{"--transport", "sqlite", "--sqlite-path", db, "--queue", "t", "--profile", "derived-key"}

	key, err := run(t, "", "keygen")
	require.NoError(t, err)
	key = strings.TrimSpace(key)

	out, err := run(t, "hello\nworld\n   \nnot sent\n", append([]string{"send", "--key", key}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "< Message #1 sent")
	assert.Contains(t, out, "< Message #2 sent")
	assert.NotContains(t, out, "#3")

	out, err = run(t, "", append([]string{"receive", "--key", key, "--count", "2", "--poll-interval", "10ms"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "#1\n  hello")
	assert.Contains(t, out, "#2\n  world")
	assert.NotContains(t, out, "ALERT")
}

func TestSendReceive_PassphraseWrongKeyAlerts(t *testing.T) {
	db := filepath.Join(t.TempDir(), "q.db")
	common := []string{"--transport", "sqlite", "--sqlite-path", db, "--queue", "t"}

	_, err := run(t, "secret\n\n", append([]string{"send", "--passphrase", "right"}, common...)...)
	require.NoError(t, err)
	_, err = run(t, "ok\n\n", append([]string{"send", "--passphrase", "wrong"}, common...)...)
	require.NoError(t, err)

	out, err := run(t, "", append([]string{"receive", "--passphrase", "right", "--count", "2", "--poll-interval", "10ms"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "secret")
	// The second message was encrypted under another key.
	// Each send run starts a new session, so the forged message is #1 again.
	assert.Contains(t, out, "!! ALERT: message #1 (")
	assert.NotContains(t, out, "  ok")
}

func TestReceive_StaticKeyPrintsKey(t *testing.T) {
	db := filepath.Join(t.TempDir(), "q.db")
	common := []string{"--transport", "sqlite", "--sqlite-path", db, "--queue", "s", "--profile", "static-key"}

	// With a supplied key the receiver does not generate one.
	key, err := run(t, "", "keygen")
	require.NoError(t, err)
	key = strings.TrimSpace(key)

	_, err = run(t, "static hello\n\n", append([]string{"send", "--key", key}, common...)...)
	require.NoError(t, err)
	out, err := run(t, "", append([]string{"receive", "--key", key, "--count", "1", "--poll-interval", "10ms"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "static hello")
	assert.NotContains(t, out, "Share this key")
}

func TestSend_BadKey(t *testing.T) {
	db := filepath.Join(t.TempDir(), "q.db")
	_, err := run(t, "hi\n", "send", "--transport", "sqlite", "--sqlite-path", db, "--key", "not-hex")
	assert.Error(t, err)
}

func TestSend_PromptsForKey(t *testing.T) {
	db := filepath.Join(t.TempDir(), "q.db")
	key := strings.Repeat("AB", 32)
	out, err := run(t, key+"\nhi\n\n", "send", "--transport", "sqlite", "--sqlite-path", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Enter the shared key (hex): ")
	assert.Contains(t, out, "< Message #1 sent")
}
