package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cohl/pennypicker/internal/metrics"
	"github.com/cohl/pennypicker/internal/storage"
)

// handleSignalWebhook ingests a signal from the analysis pipeline. The
// caller authenticates with the shared webhook secret, not a user token.
func (s *Server) handleSignalWebhook(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Webhook-Secret")
	if s.config.Webhook.Secret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(s.config.Webhook.Secret)) != 1 {
		respondError(w, http.StatusUnauthorized, "Invalid webhook secret")
		return
	}

	var req signalWebhookRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	stock, err := s.repo.GetStockBySymbol(req.Symbol)
	if err != nil {
		if storage.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "Unknown symbol")
		} else {
			s.logger.Error("load stock", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	rec := &storage.Recommendation{
		StockID:                 stock.ID,
		SignalType:              req.SignalType,
		Confidence:              req.Confidence,
		EntryPrice:              req.EntryPrice,
		TargetPrice:             req.TargetPrice,
		StopLoss:                req.StopLoss,
		TechnicalScore:          req.TechnicalScore,
		SentimentScore:          req.SentimentScore,
		SocialScore:             req.SocialScore,
		InsiderScore:            req.InsiderScore,
		RiskScore:               req.RiskScore,
		ManipulationProbability: req.ManipulationProbability,
	}
	if len(req.Reasoning) > 0 {
		data, _ := json.Marshal(req.Reasoning)
		rec.ReasoningJSON = string(data)
	}
	if len(req.Warnings) > 0 {
		data, _ := json.Marshal(req.Warnings)
		rec.WarningsJSON = string(data)
	}
	if req.ExpiresInHours > 0 {
		expires := time.Now().UTC().Add(time.Duration(req.ExpiresInHours) * time.Hour)
		rec.ExpiresAt = &expires
	}

	if err := s.repo.CreateRecommendation(rec); err != nil {
		s.logger.Error("create recommendation", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	stock.LatestSignal = req.SignalType
	stock.SignalConfidence = req.Confidence
	if err := s.repo.UpdateStock(stock); err != nil {
		s.logger.Error("update stock signal", "symbol", stock.Symbol, "error", err)
	}

	metrics.SignalsIngested.WithLabelValues(req.SignalType).Inc()

	rec.Stock = stock
	s.hub.BroadcastSignalAlert(stock.Symbol, newRecView(rec))
	go s.notifier.DispatchSignalAlert(rec, stock)

	s.logger.Info("signal ingested",
		"symbol", stock.Symbol, "signal", req.SignalType, "confidence", req.Confidence)

	respondJSON(w, http.StatusCreated, newRecView(rec))
}
