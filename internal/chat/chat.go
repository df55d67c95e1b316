// Package chat is the WebSocket conversation transport: answers come in,
// questions, scores and summaries go out. Framing only; all decisions live
// in the session engine.
package chat

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/reqpilot/internal/completeness"
	"github.com/ziadkadry99/reqpilot/internal/policy"
	"github.com/ziadkadry99/reqpilot/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler serves the interview over a WebSocket connection.
type Handler struct {
	engine *session.Engine
}

// NewHandler creates the chat transport over the given engine.
func NewHandler(engine *session.Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts the WebSocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/interview", h.handleWebSocket)
}

// clientMessage is the incoming frame format.
type clientMessage struct {
	Type      string `json:"type"`       // "answer", "question", "summary", "confirm", "restart"
	SessionID string `json:"session_id"` // empty on the first answer of a new session
	Content   string `json:"content"`
}

// serverMessage is the outgoing frame format.
type serverMessage struct {
	Type      string              `json:"type"` // "turn", "question", "summary", "session", "error"
	SessionID string              `json:"session_id"`
	Content   string              `json:"content,omitempty"`
	Score     *completeness.Score `json:"score,omitempty"`
	Category  policy.Category     `json:"category,omitempty"`
	Proceed   bool                `json:"proceed,omitempty"`
	Degraded  bool                `json:"degraded,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("chat: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("chat: websocket read: %v", err)
			}
			return
		}

		var req clientMessage
		if err := json.Unmarshal(msg, &req); err != nil {
			h.sendError(conn, "", "invalid message format")
			continue
		}

		switch req.Type {
		case "answer":
			h.handleAnswer(conn, r, req)
		case "question":
			h.handleQuestion(conn, r, req)
		case "summary":
			h.handleSummary(conn, r, req)
		case "confirm":
			h.handleConfirm(conn, r, req)
		case "restart":
			h.handleRestart(conn, r, req)
		default:
			h.sendError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (h *Handler) handleAnswer(conn *websocket.Conn, r *http.Request, req clientMessage) {
	if req.Content == "" {
		h.sendError(conn, req.SessionID, "content is required")
		return
	}

	ctx := r.Context()
	sessionID := req.SessionID
	if sessionID == "" {
		sess, err := h.engine.CreateSession(ctx, "chat")
		if err != nil {
			h.sendError(conn, "", "failed to create session: "+err.Error())
			return
		}
		sessionID = sess.ID
	}

	result, err := h.engine.SubmitAnswer(ctx, sessionID, req.Content)
	if err != nil {
		h.sendError(conn, sessionID, "processing failed: "+err.Error())
		return
	}

	h.send(conn, serverMessage{
		Type:      "turn",
		SessionID: sessionID,
		Content:   result.Decision.Reasoning,
		Score:     &result.Score,
		Proceed:   result.Decision.Action == policy.ActionProceed,
		Degraded:  result.Degraded,
	})
}

func (h *Handler) handleQuestion(conn *websocket.Conn, r *http.Request, req clientMessage) {
	q, err := h.engine.NextQuestion(r.Context(), req.SessionID)
	if err != nil {
		h.sendError(conn, req.SessionID, "question failed: "+err.Error())
		return
	}

	h.send(conn, serverMessage{
		Type:      "question",
		SessionID: req.SessionID,
		Content:   q.Text,
		Category:  q.Category,
		Proceed:   q.Proceed,
	})
}

func (h *Handler) handleSummary(conn *websocket.Conn, r *http.Request, req clientMessage) {
	st, err := h.engine.GenerateSummary(r.Context(), req.SessionID)
	if err != nil {
		h.sendError(conn, req.SessionID, "summary failed: "+err.Error())
		return
	}

	h.send(conn, serverMessage{
		Type:      "summary",
		SessionID: req.SessionID,
		Content:   st.Summary,
	})
}

func (h *Handler) handleConfirm(conn *websocket.Conn, r *http.Request, req clientMessage) {
	st, err := h.engine.Confirm(r.Context(), req.SessionID)
	if err != nil {
		h.sendError(conn, req.SessionID, "confirm failed: "+err.Error())
		return
	}

	h.send(conn, serverMessage{
		Type:      "session",
		SessionID: req.SessionID,
		Content:   string(st.Phase),
	})
}

func (h *Handler) handleRestart(conn *websocket.Conn, r *http.Request, req clientMessage) {
	sess, err := h.engine.Restart(r.Context(), req.SessionID)
	if err != nil {
		h.sendError(conn, req.SessionID, "restart failed: "+err.Error())
		return
	}

	h.send(conn, serverMessage{
		Type:      "session",
		SessionID: sess.ID,
		Content:   string(sess.Status),
	})
}

func (h *Handler) send(conn *websocket.Conn, resp serverMessage) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("chat: websocket write: %v", err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, sessionID, message string) {
	h.send(conn, serverMessage{Type: "error", SessionID: sessionID, Content: message})
}
