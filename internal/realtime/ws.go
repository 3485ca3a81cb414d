package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// Client frame names.
const (
	FrameJoinOrder      = "join-order"
	FrameJoinRestaurant = "join-restaurant"
	FrameLeaveOrder     = "leave-order"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

type clientFrame struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// WSHandler upgrades requests to websockets and bridges them to the hub.
// Any connection may join any channel; ids act as capabilities.
type WSHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewWSHandler(hub *Hub, allowedOrigins []string, log *slog.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || lo.Contains(allowedOrigins, "*") || lo.Contains(allowedOrigins, origin)
			},
		},
		log: log.With("component", "ws"),
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	client, err := h.hub.Connect()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.Disconnect(client)
		h.log.Debug("upgrade failed", "error", err)
		return
	}

	h.log.Debug("client connected", "client", client.ID(), "remote", r.RemoteAddr)
	go h.writePump(conn, client)
	go h.readPump(conn, client)
}

func (h *WSHandler) readPump(conn *websocket.Conn, client *Client) {
	defer func() {
		h.hub.Disconnect(client)
		conn.Close()
		h.log.Debug("client disconnected", "client", client.ID())
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("read failed", "client", client.ID(), "error", err)
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(msg, &frame); err != nil || frame.Data == "" {
			h.log.Debug("ignoring malformed frame", "client", client.ID())
			continue
		}

		switch frame.Event {
		case FrameJoinOrder, FrameJoinRestaurant:
			h.hub.Subscribe(client, frame.Data)
		case FrameLeaveOrder:
			h.hub.Unsubscribe(client, frame.Data)
		default:
			h.log.Debug("ignoring unknown frame", "client", client.ID(), "event", frame.Event)
		}
	}
}

func (h *WSHandler) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case e, ok := <-client.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
