package realtime_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quickeats-order-service/internal/logger"
	"quickeats-order-service/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWS(t *testing.T, origins ...string) (*realtime.Hub, string) {
	t.Helper()

	hub := realtime.NewHub(logger.Discard())
	srv := httptest.NewServer(realtime.NewWSHandler(hub, origins, logger.Discard()))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func join(t *testing.T, conn *websocket.Conn, event, id string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"event": event, "data": id}))
}

func TestWS_JoinOrderReceivesUpdates(t *testing.T) {
	hub, url := startWS(t)

	tracker := dial(t, url)
	bystander := dial(t, url)
	join(t, tracker, realtime.FrameJoinOrder, "order-1")
	join(t, bystander, realtime.FrameJoinOrder, "order-2")

	require.Eventually(t, func() bool {
		return hub.SubscriberCount("order-1") == 1 && hub.SubscriberCount("order-2") == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(t.Context(), "order-1", "order-status-update",
		statusPayload{OrderID: "order-1", Status: "on_the_way"}))

	_ = tracker.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got realtime.Event
	require.NoError(t, tracker.ReadJSON(&got))
	assert.Equal(t, "order-status-update", got.Event)

	var payload statusPayload
	require.NoError(t, json.Unmarshal(got.Data, &payload))
	assert.Equal(t, "on_the_way", payload.Status)

	_ = bystander.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := bystander.ReadMessage()
	require.Error(t, err, "bystander must not receive another order's update")
}

func TestWS_LeaveAndClose(t *testing.T) {
	hub, url := startWS(t)

	conn := dial(t, url)
	join(t, conn, realtime.FrameJoinRestaurant, "rest-1")
	join(t, conn, realtime.FrameJoinOrder, "order-9")
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("rest-1") == 1 && hub.SubscriberCount("order-9") == 1
	}, time.Second, 10*time.Millisecond)

	join(t, conn, realtime.FrameLeaveOrder, "order-9")
	require.Eventually(t, func() bool { return hub.SubscriberCount("order-9") == 0 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool { return hub.SubscriberCount("rest-1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestWS_RejectsUnknownOrigin(t *testing.T) {
	_, url := startWS(t, "http://localhost:3000")

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	header = http.Header{"Origin": []string{"http://localhost:3000"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}

func TestWS_HubShutdownClosesConnection(t *testing.T) {
	hub, url := startWS(t)
	conn := dial(t, url)
	join(t, conn, realtime.FrameJoinOrder, "order-1")
	require.Eventually(t, func() bool { return hub.SubscriberCount("order-1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
