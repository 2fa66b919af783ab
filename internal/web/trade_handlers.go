package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cohl/pennypicker/internal/auth"
	"github.com/cohl/pennypicker/internal/broker"
	"github.com/cohl/pennypicker/internal/metrics"
	"github.com/cohl/pennypicker/internal/storage"
	"github.com/cohl/pennypicker/internal/trading"
)

type tradeView struct {
	*storage.Trade
	Symbol string `json:"symbol"`
}

func newTradeView(t *storage.Trade) tradeView {
	v := tradeView{Trade: t}
	if t.Stock != nil {
		v.Symbol = t.Stock.Symbol
	}
	return v
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	page, perPage := pageParams(r)

	trades, err := s.repo.ListTrades(user.ID, r.URL.Query().Get("status"), page, perPage)
	if err != nil {
		s.logger.Error("list trades", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]tradeView, len(trades))
	for i := range trades {
		views[i] = newTradeView(&trades[i])
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	trade, err := s.repo.GetTradeForUser(chi.URLParam(r, "id"), user.ID)
	if err != nil {
		if storage.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "Trade not found")
		} else {
			s.logger.Error("load trade", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondJSON(w, http.StatusOK, newTradeView(trade))
}

// handleCreateTrade records the order with a pending_confirmation status
// and sends the confirmation token out of band. Nothing reaches the
// broker until the token comes back.
func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req createTradeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = "limit"
	}
	if orderType == "limit" && req.Price <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "Limit orders require a positive price")
		return
	}

	stock, err := s.repo.GetStockBySymbol(req.Symbol)
	if err != nil {
		if storage.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "Stock not found")
		} else {
			s.logger.Error("load stock", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	var account *storage.BrokerAccount
	if req.BrokerAccountID != "" {
		account, err = s.repo.GetBrokerAccount(req.BrokerAccountID, user.ID)
	} else {
		account, err = s.repo.GetDefaultBrokerAccount(user.ID)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "No broker account available")
		return
	}

	token, err := auth.GenerateConfirmationToken()
	if err != nil {
		s.logger.Error("generate confirmation token", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	channel := req.ConfirmationChannel
	if channel == "" {
		channel = "email"
	}

	tif := req.TimeInForce
	if tif == "" {
		tif = "day"
	}

	trade := &storage.Trade{
		UserID:              user.ID,
		StockID:             stock.ID,
		RecommendationID:    req.RecommendationID,
		BrokerAccountID:     account.ID,
		Side:                req.Side,
		Quantity:            req.Quantity,
		OrderType:           orderType,
		Price:               req.Price,
		StopPrice:           req.StopPrice,
		TimeInForce:         tif,
		Status:              storage.TradePendingConfirmation,
		ConfirmationToken:   token,
		ConfirmationChannel: channel,
	}
	if err := s.repo.CreateTrade(trade); err != nil {
		s.logger.Error("create trade", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	trade.Stock = stock

	go s.notifier.NotifyTradeConfirmation(user, trade, stock)
	s.hub.SendTradeUpdate(user.ID, trade.ID, trade.Status, newTradeView(trade))

	respondJSON(w, http.StatusCreated, newTradeView(trade))
}

// handleConfirmTrade matches the token, marks the trade confirmed, and
// submits it to the broker in the same request.
func (s *Server) handleConfirmTrade(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req confirmTradeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	trade, err := s.repo.GetTradeForUser(chi.URLParam(r, "id"), user.ID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Trade not found")
		return
	}

	if trade.Status != storage.TradePendingConfirmation {
		respondError(w, http.StatusConflict, "Trade is not awaiting confirmation")
		return
	}
	if trade.ConfirmationToken != req.ConfirmationToken {
		respondError(w, http.StatusForbidden, "Invalid confirmation token")
		return
	}

	now := time.Now().UTC()
	trade.ConfirmedAt = &now
	trade.Status = storage.TradeConfirmed

	order, err := s.broker.SubmitOrder(broker.OrderRequest{
		Symbol:      trade.Stock.Symbol,
		Side:        trade.Side,
		Quantity:    trade.Quantity,
		OrderType:   trade.OrderType,
		LimitPrice:  trade.Price,
		StopPrice:   trade.StopPrice,
		TimeInForce: trade.TimeInForce,
	})
	if err != nil {
		s.logger.Error("submit order", "trade_id", trade.ID, "error", err)
		trade.Status = storage.TradeRejected
		if dbErr := s.repo.UpdateTrade(trade); dbErr != nil {
			s.logger.Error("update trade", "error", dbErr)
		}
		s.hub.SendTradeUpdate(user.ID, trade.ID, trade.Status, newTradeView(trade))
		respondError(w, http.StatusBadGateway, "Broker rejected the order")
		return
	}

	trade.Status = storage.TradeSubmitted
	trade.BrokerOrderID = order.ID
	trade.SubmittedAt = &now

	if order.Status == "filled" {
		trade.Status = storage.TradeFilled
		trade.FilledQuantity = order.FilledQuantity
		trade.FilledPrice = order.FilledAvgPrice
		trade.ExecutedAt = &now
	}

	if err := s.repo.UpdateTrade(trade); err != nil {
		s.logger.Error("update trade", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	metrics.OrdersSubmitted.WithLabelValues(trade.Side).Inc()
	s.hub.SendTradeUpdate(user.ID, trade.ID, trade.Status, newTradeView(trade))

	respondJSON(w, http.StatusOK, newTradeView(trade))
}

func (s *Server) handleCancelTrade(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	trade, err := s.repo.GetTradeForUser(chi.URLParam(r, "id"), user.ID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Trade not found")
		return
	}

	switch trade.Status {
	case storage.TradePendingConfirmation, storage.TradeConfirmed:
		// Nothing at the broker yet.
	case storage.TradeSubmitted:
		if err := s.broker.CancelOrder(trade.BrokerOrderID); err != nil {
			s.logger.Error("cancel order", "trade_id", trade.ID, "error", err)
			respondError(w, http.StatusBadGateway, "Broker could not cancel the order")
			return
		}
	default:
		respondError(w, http.StatusConflict, "Trade can no longer be cancelled")
		return
	}

	trade.Status = storage.TradeCancelled
	if err := s.repo.UpdateTrade(trade); err != nil {
		s.logger.Error("update trade", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.hub.SendTradeUpdate(user.ID, trade.ID, trade.Status, newTradeView(trade))
	respondJSON(w, http.StatusOK, newTradeView(trade))
}

func (s *Server) handlePositionSize(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req positionSizeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if _, err := s.repo.GetStockBySymbol(req.Symbol); err != nil {
		respondError(w, http.StatusNotFound, "Stock not found")
		return
	}

	riskPct := req.RiskPercent
	if riskPct == 0 {
		riskPct = s.config.Portfolio.DefaultRiskPct
	}

	portfolioValue := s.config.Portfolio.CashBalance
	if trades, err := s.repo.FilledTrades(user.ID); err == nil {
		for _, p := range trading.AggregatePositions(trades) {
			portfolioValue += p.MarketValue
		}
	}

	size, err := trading.CalculatePositionSize(portfolioValue, req.EntryPrice, req.StopLoss, riskPct)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	warnings := []string{}
	if size.TotalCost > s.config.Portfolio.MaxPositionUSD {
		warnings = append(warnings, "Position exceeds the configured maximum position size")
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"symbol":          req.Symbol,
		"position":        size,
		"portfolio_value": portfolioValue,
		"risk_percent":    riskPct,
		"warnings":        warnings,
	})
}
