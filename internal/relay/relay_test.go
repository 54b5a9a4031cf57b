package relay_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsecrets/internal/domain"
	"devsecrets/internal/logging"
	"devsecrets/internal/protocol/session"
	"devsecrets/internal/queue"
	"devsecrets/internal/relay"
	"devsecrets/internal/services/messaging"
)

func newRelay(t *testing.T, timeout time.Duration) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := relay.NewServer(logging.Discard(), timeout)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts
}

func TestClient_SendReceiveAck(t *testing.T) {
	ctx := context.Background()
	ts := newRelay(t, 0)
	c := relay.NewClient(ts.URL+"/", "alice")
	defer c.Close()

	_, ok, err := c.ReceiveNext(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Send(ctx, "1|CAFE"))

	d, ok, err := c.ReceiveNext(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1|CAFE", d.Body)
	assert.NotEmpty(t, d.Receipt)

	_, ok, err = c.ReceiveNext(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "leased delivery is invisible")

	require.NoError(t, c.Acknowledge(ctx, d))
	assert.ErrorIs(t, c.Acknowledge(ctx, d), queue.ErrNotFound)
}

func TestClient_StaleReceipt(t *testing.T) {
	ctx := context.Background()
	ts := newRelay(t, 20*time.Millisecond)
	c := relay.NewClient(ts.URL, "bob")

	require.NoError(t, c.Send(ctx, "again"))
	first, ok, err := c.ReceiveNext(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	second, ok, err := c.ReceiveNext(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, second.ID)

	assert.ErrorIs(t, c.Acknowledge(ctx, first), queue.ErrStaleReceipt)
	require.NoError(t, c.Acknowledge(ctx, second))
}

func TestClient_QueuesAreSeparate(t *testing.T) {
	ctx := context.Background()
	ts := newRelay(t, 0)
	a := relay.NewClient(ts.URL, "a")
	b := relay.NewClient(ts.URL, "b")

	require.NoError(t, a.Send(ctx, "for a"))
	_, ok, err := b.ReceiveNext(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServer_Statuses(t *testing.T) {
	ts := newRelay(t, 0)

	resp, err := http.Post(ts.URL+"/queues/q/messages", "application/json", bytes.NewBufferString(`{"body":""}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/queues/q/messages", "application/json", bytes.NewBufferString(`not json`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/queues/nobody/messages/x?receipt=y", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRelay_SessionsEndToEnd(t *testing.T) {
	ctx := context.Background()
	ts := newRelay(t, 0)
	master := bytes.Repeat([]byte{0x77}, 32)

	mk := func() *session.Session {
		s, err := session.New(domain.ProfileDerivedKey)
		require.NoError(t, err)
		require.NoError(t, s.Establish(master))
		return s
	}
	snd := messaging.NewSender(mk(), relay.NewClient(ts.URL, "e2e"), logging.Discard())
	rcv := messaging.NewReceiver(mk(), relay.NewClient(ts.URL, "e2e"), logging.Discard())

	_, err := snd.Send(ctx, []byte("over the relay"))
	require.NoError(t, err)

	in, ok, err := rcv.Poll(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "over the relay", string(in.Plaintext))
	assert.Equal(t, domain.InOrder, in.Classification)

	_, ok, err = rcv.Poll(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
