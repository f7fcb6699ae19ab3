package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mmynk/tipsplit/internal/metrics"
	"github.com/mmynk/tipsplit/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// clientEvent is an input event sent by the page over the socket.
type clientEvent struct {
	Event string `json:"event"`
	Value string `json:"value"`
}

// handleWebSocket streams the session's state to the page. The current state
// is sent first, then every published snapshot. Input events read from the
// socket are applied to the same session.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	hub := h.sessions.Hub()
	if hub == nil {
		http.Error(w, "live updates disabled", http.StatusNotFound)
		return
	}

	sess, err := h.currentSession(w, r)
	if err != nil {
		slog.Error("Failed to load session", "error", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	// The upgrade response is written directly, so a fresh cookie has to be
	// passed along explicitly.
	conn, err := upgrader.Upgrade(w, r, w.Header().Clone())
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "session_id", sess.ID, "error", err)
		return
	}
	defer conn.Close()

	sub, err := h.sessions.Subscribe(r.Context(), sess.ID)
	if err != nil {
		// The session ended between the lookup and the subscription.
		slog.Warn("WebSocket subscribe failed", "session_id", sess.ID, "error", err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
		return
	}
	defer sub.Close()

	metrics.WSConnections.Inc()
	defer metrics.WSConnections.Dec()
	slog.Info("WebSocket connected", "session_id", sess.ID, "subscribers", hub.Subscribers(sess.ID))

	done := make(chan struct{})
	go h.readEvents(r.Context(), conn, sess.ID, done)

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(service.StateMessage(sess.State)); err != nil {
		slog.Warn("WebSocket write failed", "session_id", sess.ID, "error", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-sub.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				slog.Info("WebSocket closed by session end", "session_id", sess.ID)
				return
			}
			if err := conn.WriteJSON(service.StateMessage(snap)); err != nil {
				slog.Warn("WebSocket write failed", "session_id", sess.ID, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			slog.Info("WebSocket disconnected", "session_id", sess.ID)
			return
		case <-r.Context().Done():
			return
		}
	}
}

// readEvents applies events from the socket until it fails, then closes done.
// Results reach the page through the hub, not as direct replies.
func (h *Handler) readEvents(ctx context.Context, conn *websocket.Conn, sessionID string, done chan<- struct{}) {
	defer close(done)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := h.sessions.Touch(ctx, sessionID); err != nil {
			slog.Debug("Keepalive for ended session", "session_id", sessionID, "error", err)
		}
		return nil
	})

	for {
		var evt clientEvent
		if err := conn.ReadJSON(&evt); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("WebSocket read failed", "session_id", sessionID, "error", err)
			}
			return
		}

		if _, err := h.dispatch(ctx, sessionID, evt.Event, evt.Value); err != nil {
			if errors.Is(err, errUnknownEvent) {
				slog.Debug("Ignoring unknown event", "session_id", sessionID, "event", evt.Event)
				continue
			}
			slog.Warn("WebSocket event not applied", "session_id", sessionID, "event", evt.Event, "error", err)
		}
	}
}
