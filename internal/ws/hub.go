package ws

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/cohl/pennypicker/internal/logger"
	"github.com/cohl/pennypicker/internal/metrics"
)

// Event is the envelope for every message sent to clients.
type Event struct {
	Type    string   `json:"type"`
	Symbol  string   `json:"symbol,omitempty"`
	Symbols []string `json:"symbols,omitempty"`
	Data    any      `json:"data,omitempty"`
	Signal  any      `json:"signal,omitempty"`
	TradeID string   `json:"trade_id,omitempty"`
	Status  string   `json:"status,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Conn wraps a websocket connection with a write lock, since gorilla
// connections allow only one concurrent writer.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) send(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(event)
}

func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.Close()
}

// Hub tracks live connections per user plus a symbol subscription index,
// and fans out price, signal, and trade events. Delivery is best effort:
// a failed write is logged and skipped, never retried, and never blocks
// delivery to other sockets.
type Hub struct {
	mu sync.RWMutex

	// userID -> open connections for that user
	userConns map[string]map[*Conn]struct{}
	// SYMBOL -> userIDs subscribed to it
	symbolSubs map[string]map[string]struct{}
	// connection -> owning userID
	connUsers map[*Conn]string

	// Throttles price_update fan-out; nil means unlimited.
	priceLimiter *rate.Limiter

	logger *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		userConns:  make(map[string]map[*Conn]struct{}),
		symbolSubs: make(map[string]map[string]struct{}),
		connUsers:  make(map[*Conn]string),
		logger:     log,
	}
}

// SetPriceLimiter caps price_update broadcasts per second.
func (h *Hub) SetPriceLimiter(limiter *rate.Limiter) {
	h.priceLimiter = limiter
}

func (h *Hub) register(conn *Conn, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.userConns[userID] == nil {
		h.userConns[userID] = make(map[*Conn]struct{})
	}
	h.userConns[userID][conn] = struct{}{}
	h.connUsers[conn] = userID

	metrics.WSConnections.Inc()
}

func (h *Hub) unregister(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID, ok := h.connUsers[conn]
	if !ok {
		return
	}
	delete(h.connUsers, conn)

	if conns := h.userConns[userID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.userConns, userID)
			// Last socket gone: drop the user's symbol subscriptions too.
			for symbol, subs := range h.symbolSubs {
				delete(subs, userID)
				if len(subs) == 0 {
					delete(h.symbolSubs, symbol)
				}
			}
		}
	}

	metrics.WSConnections.Dec()
}

// Subscribe registers a user for updates on the given symbols.
func (h *Hub) Subscribe(userID string, symbols []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		if h.symbolSubs[symbol] == nil {
			h.symbolSubs[symbol] = make(map[string]struct{})
		}
		h.symbolSubs[symbol][userID] = struct{}{}
	}
}

// Unsubscribe removes a user's interest in the given symbols.
func (h *Hub) Unsubscribe(userID string, symbols []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		if subs, ok := h.symbolSubs[symbol]; ok {
			delete(subs, userID)
			if len(subs) == 0 {
				delete(h.symbolSubs, symbol)
			}
		}
	}
}

// subscriberConns snapshots the connections of every user subscribed to
// symbol, so writes happen outside the hub lock.
func (h *Hub) subscriberConns(symbol string) []*Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.symbolSubs[symbol]
	if !ok {
		return nil
	}

	var conns []*Conn
	for userID := range subs {
		for conn := range h.userConns[userID] {
			conns = append(conns, conn)
		}
	}
	return conns
}

func (h *Hub) userConnsSnapshot(userID string) []*Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns := make([]*Conn, 0, len(h.userConns[userID]))
	for conn := range h.userConns[userID] {
		conns = append(conns, conn)
	}
	return conns
}

func (h *Hub) fanOut(conns []*Conn, event Event) {
	for _, conn := range conns {
		if err := conn.send(event); err != nil {
			// Connection may have died mid-broadcast; the read loop
			// will unregister it.
			h.logger.Debug("ws send failed", "type", event.Type, "error", err)
		}
	}
	if len(conns) > 0 {
		metrics.WSBroadcasts.WithLabelValues(event.Type).Add(float64(len(conns)))
	}
}

// BroadcastPriceUpdate pushes a price update to every subscriber of the
// symbol. Updates beyond the configured rate are dropped, not queued.
func (h *Hub) BroadcastPriceUpdate(symbol string, data any) {
	symbol = strings.ToUpper(symbol)
	conns := h.subscriberConns(symbol)
	if len(conns) == 0 {
		return
	}
	if h.priceLimiter != nil && !h.priceLimiter.Allow() {
		return
	}
	h.fanOut(conns, Event{Type: "price_update", Symbol: symbol, Data: data})
}

// BroadcastSignalAlert pushes a new signal to every subscriber of the symbol.
func (h *Hub) BroadcastSignalAlert(symbol string, signal any) {
	symbol = strings.ToUpper(symbol)
	conns := h.subscriberConns(symbol)
	if len(conns) == 0 {
		return
	}
	h.fanOut(conns, Event{Type: "signal_alert", Symbol: symbol, Signal: signal})
}

// SendTradeUpdate notifies one user's sockets of a trade status change.
func (h *Hub) SendTradeUpdate(userID, tradeID, status string, data any) {
	conns := h.userConnsSnapshot(userID)
	if len(conns) == 0 {
		return
	}
	h.fanOut(conns, Event{Type: "trade_update", TradeID: tradeID, Status: status, Data: data})
}

// ConnectionCount reports open connections. Used by tests and the health
// endpoint.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connUsers)
}

// SubscriberCount reports how many users watch a symbol.
func (h *Hub) SubscriberCount(symbol string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.symbolSubs[strings.ToUpper(symbol)])
}
