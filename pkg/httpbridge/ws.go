package httpbridge

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soypete/pedroblog/pkg/ui"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// StateMessage is pushed to websocket clients after every state change.
// The page reloads itself when Version moves past the one it rendered.
type StateMessage struct {
	Version    uint64 `json:"version"`
	Mode       string `json:"mode"`
	Submitting bool   `json:"submitting"`
	Notice     string `json:"notice,omitempty"`
	Posts      int    `json:"posts"`
}

func newStateMessage(s ui.State) StateMessage {
	return StateMessage{
		Version:    s.Version,
		Mode:       s.Mode.String(),
		Submitting: s.Submitting,
		Notice:     s.Notice,
		Posts:      len(s.Posts),
	}
}

// handleWebSocket streams controller state until the client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	id, updates := s.controller.Subscribe()
	defer s.controller.Unsubscribe(id)

	logger := s.logger.With(slog.String("subscriber", id))
	logger.Debug("websocket client connected")

	// Reads only detect the close; clients never send anything useful
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(state ui.State) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(newStateMessage(state)); err != nil {
			logger.Debug("websocket write failed", slog.String("error", err.Error()))
			return false
		}
		return true
	}

	if !send(s.controller.Snapshot()) {
		return
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			logger.Debug("websocket client disconnected")
			return
		case state, ok := <-updates:
			if !ok || !send(state) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
