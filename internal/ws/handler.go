package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cohl/pennypicker/internal/auth"
	"github.com/cohl/pennypicker/internal/logger"
	"github.com/cohl/pennypicker/internal/storage"
)

// Close code sent when the token query parameter does not authenticate.
const closeAuthFailed = 4001

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is what clients send: subscribe, unsubscribe, ping.
type clientMessage struct {
	Type    string   `json:"type"`
	Symbols []string `json:"symbols"`
}

// Handler upgrades /ws requests, authenticates them, and runs the read loop.
type Handler struct {
	hub    *Hub
	tokens *auth.TokenIssuer
	repo   *storage.Repository
	logger *logger.Logger
}

func NewHandler(hub *Hub, tokens *auth.TokenIssuer, repo *storage.Repository, log *logger.Logger) *Handler {
	return &Handler{hub: hub, tokens: tokens, repo: repo, logger: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}

	user, ok := h.authenticate(r.URL.Query().Get("token"))
	if !ok {
		msg := websocket.FormatCloseMessage(closeAuthFailed, "Authentication failed")
		_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = ws.Close()
		return
	}

	conn := newConn(ws)
	h.hub.register(conn, user.ID)
	h.logger.Debug("ws connected", "user_id", user.ID)

	defer func() {
		h.hub.unregister(conn)
		conn.close()
		h.logger.Debug("ws disconnected", "user_id", user.ID)
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			_ = conn.send(Event{Type: "error", Message: "Invalid JSON"})
			continue
		}

		switch msg.Type {
		case "subscribe":
			h.hub.Subscribe(user.ID, msg.Symbols)
			_ = conn.send(Event{Type: "subscribed", Symbols: upperAll(msg.Symbols)})
		case "unsubscribe":
			h.hub.Unsubscribe(user.ID, msg.Symbols)
			_ = conn.send(Event{Type: "unsubscribed", Symbols: upperAll(msg.Symbols)})
		case "ping":
			_ = conn.send(Event{Type: "pong"})
		default:
			_ = conn.send(Event{Type: "error", Message: "Unknown message type: " + msg.Type})
		}
	}
}

func (h *Handler) authenticate(token string) (*storage.User, bool) {
	if token == "" {
		return nil, false
	}
	userID, err := h.tokens.Verify(token, auth.TokenAccess)
	if err != nil {
		return nil, false
	}
	user, err := h.repo.GetUserByID(userID)
	if err != nil || !user.IsActive {
		return nil, false
	}
	return user, true
}

func upperAll(symbols []string) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = strings.ToUpper(s)
	}
	return out
}
