package realtime_test

import (
	"encoding/json"
	"testing"

	"quickeats-order-service/internal/logger"
	"quickeats-order-service/internal/realtime"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type statusPayload struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func connect(t *testing.T, h *realtime.Hub) *realtime.Client {
	t.Helper()
	c, err := h.Connect()
	require.NoError(t, err)
	return c
}

func drain(c *realtime.Client) []realtime.Event {
	var out []realtime.Event
	for {
		select {
		case e, ok := <-c.Events():
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestHub_DeliversOnlyToChannel(t *testing.T) {
	h := realtime.NewHub(logger.Discard())
	defer h.Close()

	x := connect(t, h)
	y := connect(t, h)
	h.Subscribe(x, "order-x")
	h.Subscribe(y, "order-y")

	require.NoError(t, h.Publish(t.Context(), "order-x", "order-status-update", statusPayload{OrderID: "order-x", Status: "ready"}))

	got := drain(x)
	require.Len(t, got, 1)
	assert.Equal(t, "order-status-update", got[0].Event)

	var payload statusPayload
	require.NoError(t, json.Unmarshal(got[0].Data, &payload))
	if diff := cmp.Diff(statusPayload{OrderID: "order-x", Status: "ready"}, payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, drain(y))
}

func TestHub_FIFOPerClient(t *testing.T) {
	h := realtime.NewHub(logger.Discard())
	defer h.Close()

	c := connect(t, h)
	h.Subscribe(c, "o1")

	statuses := []string{"confirmed", "preparing", "ready", "picked_up"}
	for _, s := range statuses {
		require.NoError(t, h.Publish(t.Context(), "o1", "order-status-update", statusPayload{OrderID: "o1", Status: s}))
	}

	got := drain(c)
	require.Len(t, got, len(statuses))
	for i, e := range got {
		var p statusPayload
		require.NoError(t, json.Unmarshal(e.Data, &p))
		assert.Equal(t, statuses[i], p.Status)
	}
}

func TestHub_NoReplay(t *testing.T) {
	h := realtime.NewHub(logger.Discard())
	defer h.Close()

	require.NoError(t, h.Publish(t.Context(), "restaurant-r", "new-order", map[string]string{"id": "o1"}))

	late := connect(t, h)
	h.Subscribe(late, "restaurant-r")
	assert.Empty(t, drain(late))
}

func TestHub_FullQueueDrops(t *testing.T) {
	h := realtime.NewHub(logger.Discard(), realtime.WithBuffer(2))
	defer h.Close()

	slow := connect(t, h)
	h.Subscribe(slow, "o1")

	for range 5 {
		require.NoError(t, h.Publish(t.Context(), "o1", "order-status-update", statusPayload{OrderID: "o1"}))
	}
	assert.Len(t, drain(slow), 2)
}

func TestHub_UnsubscribeAndDisconnect(t *testing.T) {
	h := realtime.NewHub(logger.Discard())
	defer h.Close()

	c := connect(t, h)
	h.Subscribe(c, "a")
	h.Subscribe(c, "b")
	assert.Equal(t, 1, h.SubscriberCount("a"))

	h.Unsubscribe(c, "a")
	assert.Equal(t, 0, h.SubscriberCount("a"))
	assert.Equal(t, 1, h.SubscriberCount("b"))

	h.Disconnect(c)
	h.Disconnect(c)
	assert.Equal(t, 0, h.SubscriberCount("b"))

	_, open := <-c.Events()
	assert.False(t, open)

	// subscribing a disconnected client is a no-op
	h.Subscribe(c, "b")
	assert.Equal(t, 0, h.SubscriberCount("b"))
}

func TestHub_Close(t *testing.T) {
	h := realtime.NewHub(logger.Discard())
	c := connect(t, h)
	h.Subscribe(c, "o1")

	h.Close()
	h.Close()

	_, open := <-c.Events()
	assert.False(t, open)

	err := h.Publish(t.Context(), "o1", "order-status-update", statusPayload{})
	require.ErrorIs(t, err, realtime.ErrHubClosed)

	_, err = h.Connect()
	require.ErrorIs(t, err, realtime.ErrHubClosed)
}

func TestHub_PublishRejectsUnencodable(t *testing.T) {
	h := realtime.NewHub(logger.Discard())
	defer h.Close()

	require.Error(t, h.Publish(t.Context(), "o1", "bad", make(chan int)))
}
