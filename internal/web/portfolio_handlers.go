package web

import (
	"net/http"

	"github.com/cohl/pennypicker/internal/storage"
	"github.com/cohl/pennypicker/internal/trading"
)

func (s *Server) userPositions(w http.ResponseWriter, userID string) ([]trading.Position, bool) {
	trades, err := s.repo.FilledTrades(userID)
	if err != nil {
		s.logger.Error("load filled trades", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return trading.AggregatePositions(trades), true
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	positions, ok := s.userPositions(w, user.ID)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, positions)
}

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	positions, ok := s.userPositions(w, user.ID)
	if !ok {
		return
	}

	var marketValue, unrealized float64
	for _, p := range positions {
		marketValue += p.MarketValue
		unrealized += p.UnrealizedPnL
	}

	// Cash is a configured placeholder until broker account sync lands.
	cash := s.config.Portfolio.CashBalance

	respondJSON(w, http.StatusOK, map[string]any{
		"cash_balance":   cash,
		"market_value":   marketValue,
		"total_value":    cash + marketValue,
		"unrealized_pnl": unrealized,
		"position_count": len(positions),
	})
}

func (s *Server) handlePortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	trades, err := s.repo.FilledTrades(user.ID)
	if err != nil {
		s.logger.Error("load filled trades", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, trading.CalculatePerformance(trades))
}

type brokerAccountView struct {
	*storage.BrokerAccount
	APIKeyMasked string `json:"api_key_masked"`
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func (s *Server) handleListBrokerAccounts(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	accounts, err := s.repo.ListBrokerAccounts(user.ID)
	if err != nil {
		s.logger.Error("list broker accounts", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]brokerAccountView, len(accounts))
	for i := range accounts {
		masked := ""
		if key, err := s.encryptor.Decrypt(accounts[i].APIKeyEncrypted); err == nil {
			masked = maskSecret(key)
		}
		views[i] = brokerAccountView{BrokerAccount: &accounts[i], APIKeyMasked: masked}
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateBrokerAccount(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req brokerAccountRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	keyEnc, err := s.encryptor.Encrypt(req.APIKey)
	if err != nil {
		s.logger.Error("encrypt api key", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	secretEnc, err := s.encryptor.Encrypt(req.APISecret)
	if err != nil {
		s.logger.Error("encrypt api secret", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.IsDefault {
		if err := s.repo.ClearDefaultBrokerAccounts(user.ID); err != nil {
			s.logger.Error("clear default accounts", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	isPaper := true
	if req.IsPaper != nil {
		isPaper = *req.IsPaper
	}

	account := &storage.BrokerAccount{
		UserID:             user.ID,
		BrokerName:         req.BrokerName,
		AccountID:          req.AccountID,
		APIKeyEncrypted:    keyEnc,
		APISecretEncrypted: secretEnc,
		IsPaper:            isPaper,
		IsActive:           true,
		IsDefault:          req.IsDefault,
	}
	if err := s.repo.CreateBrokerAccount(account); err != nil {
		s.logger.Error("create broker account", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, brokerAccountView{
		BrokerAccount: account,
		APIKeyMasked:  maskSecret(req.APIKey),
	})
}
