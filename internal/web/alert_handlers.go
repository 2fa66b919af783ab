package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cohl/pennypicker/internal/storage"
)

type alertConfigView struct {
	*storage.AlertConfig
	SignalTypes []string `json:"signal_types"`
	Symbols     []string `json:"symbols"`
}

func newAlertConfigView(cfg *storage.AlertConfig) alertConfigView {
	v := alertConfigView{AlertConfig: cfg}
	if cfg.SignalTypesJSON != "" {
		_ = json.Unmarshal([]byte(cfg.SignalTypesJSON), &v.SignalTypes)
	}
	if cfg.SymbolsJSON != "" {
		_ = json.Unmarshal([]byte(cfg.SymbolsJSON), &v.Symbols)
	}
	return v
}

func (s *Server) handleListAlertConfigs(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	configs, err := s.repo.ListAlertConfigs(user.ID)
	if err != nil {
		s.logger.Error("list alert configs", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]alertConfigView, len(configs))
	for i := range configs {
		views[i] = newAlertConfigView(&configs[i])
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) applyAlertConfigRequest(cfg *storage.AlertConfig, req *alertConfigRequest) {
	cfg.AlertType = req.AlertType
	cfg.Channel = req.Channel
	cfg.MinConfidence = req.MinConfidence
	cfg.QuietHoursStart = req.QuietHoursStart
	cfg.QuietHoursEnd = req.QuietHoursEnd

	cfg.SignalTypesJSON = ""
	if len(req.SignalTypes) > 0 {
		data, _ := json.Marshal(req.SignalTypes)
		cfg.SignalTypesJSON = string(data)
	}
	cfg.SymbolsJSON = ""
	if len(req.Symbols) > 0 {
		data, _ := json.Marshal(req.Symbols)
		cfg.SymbolsJSON = string(data)
	}

	cfg.IsActive = true
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}
}

func (s *Server) handleCreateAlertConfig(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req alertConfigRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if _, err := s.repo.FindAlertConfig(user.ID, req.AlertType, req.Channel); err == nil {
		respondError(w, http.StatusConflict, "An alert config for this type and channel already exists")
		return
	}

	cfg := &storage.AlertConfig{UserID: user.ID}
	s.applyAlertConfigRequest(cfg, &req)

	if err := s.repo.CreateAlertConfig(cfg); err != nil {
		s.logger.Error("create alert config", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusCreated, newAlertConfigView(cfg))
}

func (s *Server) handleGetAlertConfig(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	cfg, err := s.repo.GetAlertConfig(chi.URLParam(r, "id"), user.ID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Alert config not found")
		return
	}
	respondJSON(w, http.StatusOK, newAlertConfigView(cfg))
}

func (s *Server) handleUpdateAlertConfig(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	cfg, err := s.repo.GetAlertConfig(chi.URLParam(r, "id"), user.ID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Alert config not found")
		return
	}

	var req alertConfigRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.applyAlertConfigRequest(cfg, &req)
	if err := s.repo.UpdateAlertConfig(cfg); err != nil {
		s.logger.Error("update alert config", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, newAlertConfigView(cfg))
}

func (s *Server) handleDeleteAlertConfig(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	cfg, err := s.repo.GetAlertConfig(chi.URLParam(r, "id"), user.ID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Alert config not found")
		return
	}

	if err := s.repo.DeleteAlertConfig(cfg); err != nil {
		s.logger.Error("delete alert config", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlertHistory(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	page, perPage := pageParams(r)

	records, err := s.repo.ListAlertRecords(user.ID, page, perPage)
	if err != nil {
		s.logger.Error("list alert records", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (s *Server) handleTestAlert(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req testAlertRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.notifier.SendTest(user.ID, req.Channel); err != nil {
		respondError(w, http.StatusBadGateway, "Test alert failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "Test alert sent"})
}
