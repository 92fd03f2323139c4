package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yourusername/house-odds/internal/metrics"
)

const (
	liveReadLimit = 64 << 10
	liveIdle      = 2 * time.Minute
	liveWriteWait = 10 * time.Second
)

// liveMessage is one client edit on the live preview channel.
type liveMessage struct {
	Type string `json:"type"`
	PreviewRequest
}

// handleLive upgrades to a WebSocket and answers every edit message with a
// full preview. Messages on one connection are handled in order.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		metrics.RecordRequest(SurfaceLive, "rejected")
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	metrics.SessionOpened()
	defer metrics.SessionClosed()
	s.previewLog.LogSessionOpened(sessionID, r.RemoteAddr)

	s.trackLive(conn)
	defer s.untrackLive(conn)

	conn.SetReadLimit(liveReadLimit)
	messages, err := s.serveLive(conn)
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		err = nil
	}
	s.previewLog.LogSessionClosed(sessionID, messages, err)
}

func (s *Server) serveLive(conn *websocket.Conn) (int, error) {
	messages := 0
	for {
		if err := conn.SetReadDeadline(time.Now().Add(liveIdle)); err != nil {
			return messages, err
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			return messages, err
		}
		messages++

		var msg liveMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			metrics.RecordRequest(SurfaceLive, "rejected")
			s.previewLog.LogPreviewRejected(SurfaceLive, err.Error())
			if werr := s.writeLive(conn, ErrorResponse{Error: fmt.Sprintf("%v: %v", ErrInvalidPayload, err)}); werr != nil {
				return messages, werr
			}
			continue
		}

		if msg.Type == "ping" {
			if err := s.writeLive(conn, map[string]string{"type": "pong"}); err != nil {
				return messages, err
			}
			continue
		}

		var reply interface{}
		b, err := s.previewer.FromRequest(msg.PreviewRequest)
		if err == nil {
			reply, err = s.previewer.Preview(b, msg.Stake, SurfaceLive)
		}
		if err != nil {
			metrics.RecordRequest(SurfaceLive, "rejected")
			s.previewLog.LogPreviewRejected(SurfaceLive, err.Error())
			reply = ErrorResponse{Error: err.Error()}
		} else {
			metrics.RecordRequest(SurfaceLive, "ok")
		}

		if err := s.writeLive(conn, reply); err != nil {
			return messages, err
		}
	}
}

func (s *Server) trackLive(conn *websocket.Conn) {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	s.live[conn] = struct{}{}
}

func (s *Server) untrackLive(conn *websocket.Conn) {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	delete(s.live, conn)
}

// closeLiveSessions sends a going-away close frame to every open session and
// closes it. Hijacked connections are not closed by http.Server.Shutdown.
func (s *Server) closeLiveSessions() {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn := range s.live {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(liveWriteWait))
		_ = conn.Close()
		delete(s.live, conn)
	}
}

func (s *Server) liveSessionCount() int {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	return len(s.live)
}

func (s *Server) writeLive(conn *websocket.Conn, v interface{}) error {
	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
