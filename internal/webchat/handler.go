package webchat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/clinicdesk/scheduling-assistant/internal/conversation"
	"github.com/clinicdesk/scheduling-assistant/internal/session"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

// Handler serves the chat widget over WebSocket with an HTTP fallback. Each
// inbound message is processed synchronously; the reply goes back on the same
// connection before the next frame is read.
type Handler struct {
	engine   *conversation.Engine
	sessions session.Store
	logger   *logging.Logger
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "session", "history", "pong", "error"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	State     string           `json:"state,omitempty"`
	Done      bool             `json:"done,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified transcript entry for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a web chat handler.
func NewHandler(engine *conversation.Engine, sessions session.Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, sessions: sessions, logger: logger}
}

// loadOrCreate fetches the session for id, starting a fresh conversation when
// the ID is unknown or empty. A client-supplied ID is kept so the widget's
// key stays stable across reconnects.
func (h *Handler) loadOrCreate(ctx context.Context, id string) (*conversation.Session, error) {
	if id != "" {
		sess, err := h.sessions.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, err
		}
	}
	sess := conversation.NewSession()
	if id != "" {
		sess.ID = id
	}
	return sess, nil
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()

	sess, err := h.loadOrCreate(ctx, r.URL.Query().Get("session"))
	if err != nil {
		h.logger.Error("webchat: session load failed", "error", err)
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "session unavailable"})
		return
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sess.ID})
	if len(sess.Transcript) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: historyOf(sess)})
	}

	h.logger.Info("webchat: connection opened", "session_id", sess.ID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sess.ID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		reply := h.engine.Process(ctx, sess, msg.Text)
		if err := h.sessions.Put(ctx, sess); err != nil {
			h.logger.Error("webchat: session save failed", "session_id", sess.ID, "error", err)
		}

		_ = websocket.JSON.Send(conn, OutboundMessage{
			Type:      "message",
			Role:      "assistant",
			Text:      reply.Text,
			SessionID: sess.ID,
			State:     string(reply.State),
			Done:      reply.Done,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HandleMessage is the HTTP fallback for sending messages.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	sess, err := h.loadOrCreate(r.Context(), req.SessionID)
	if err != nil {
		h.logger.Error("webchat: session load failed", "error", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	reply := h.engine.Process(r.Context(), sess, req.Text)
	if err := h.sessions.Put(r.Context(), sess); err != nil {
		h.logger.Error("webchat: session save failed", "session_id", sess.ID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(OutboundMessage{
		Type:      "message",
		Role:      "assistant",
		Text:      reply.Text,
		SessionID: sess.ID,
		State:     string(reply.State),
		Done:      reply.Done,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleHistory returns the transcript for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if id == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"messages": []HistoryMessage{}})
		return
	}
	if err != nil {
		h.logger.Error("webchat: failed to load history", "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"messages": historyOf(sess)})
}

func historyOf(sess *conversation.Session) []HistoryMessage {
	history := make([]HistoryMessage, 0, len(sess.Transcript))
	for _, m := range sess.Transcript {
		history = append(history, HistoryMessage{
			Role:      m.Role,
			Text:      m.Text,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	return history
}
