package web

import "net/http"

// apiKeysView never returns plaintext keys, only masked tails.
type apiKeysView struct {
	PolygonKey       string `json:"polygon_key"`
	AlphaVantageKey  string `json:"alpha_vantage_key"`
	SECKey           string `json:"sec_key"`
	BenzingaKey      string `json:"benzinga_key"`
	AlpacaKey        string `json:"alpaca_key"`
	AlpacaSecret     string `json:"alpaca_secret"`
	AlpacaPaper      bool   `json:"alpaca_paper"`
	SendgridKey      string `json:"sendgrid_key"`
	TwilioSID        string `json:"twilio_sid"`
	TwilioAuthToken  string `json:"twilio_auth_token"`
	TwilioFromNumber string `json:"twilio_from_number"`
}

func (s *Server) maskStored(encrypted string) string {
	if encrypted == "" {
		return ""
	}
	plain, err := s.encryptor.Decrypt(encrypted)
	if err != nil {
		return ""
	}
	return maskSecret(plain)
}

func (s *Server) handleGetAPIKeys(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	settings, err := s.repo.GetOrCreateAPIKeySettings(user.ID)
	if err != nil {
		s.logger.Error("load api key settings", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, apiKeysView{
		PolygonKey:       s.maskStored(settings.PolygonKey),
		AlphaVantageKey:  s.maskStored(settings.AlphaVantageKey),
		SECKey:           s.maskStored(settings.SECKey),
		BenzingaKey:      s.maskStored(settings.BenzingaKey),
		AlpacaKey:        s.maskStored(settings.AlpacaKey),
		AlpacaSecret:     s.maskStored(settings.AlpacaSecret),
		AlpacaPaper:      settings.AlpacaPaper,
		SendgridKey:      s.maskStored(settings.SendgridKey),
		TwilioSID:        s.maskStored(settings.TwilioSID),
		TwilioAuthToken:  s.maskStored(settings.TwilioAuthToken),
		TwilioFromNumber: settings.TwilioFromNumber,
	})
}

func (s *Server) handleUpdateAPIKeys(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req apiKeysRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	settings, err := s.repo.GetOrCreateAPIKeySettings(user.ID)
	if err != nil {
		s.logger.Error("load api key settings", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Only fields present in the request are touched; an empty string
	// clears the key.
	set := func(dst *string, src *string) error {
		if src == nil {
			return nil
		}
		if *src == "" {
			*dst = ""
			return nil
		}
		enc, err := s.encryptor.Encrypt(*src)
		if err != nil {
			return err
		}
		*dst = enc
		return nil
	}

	for _, pair := range []struct {
		dst *string
		src *string
	}{
		{&settings.PolygonKey, req.PolygonKey},
		{&settings.AlphaVantageKey, req.AlphaVantageKey},
		{&settings.SECKey, req.SECKey},
		{&settings.BenzingaKey, req.BenzingaKey},
		{&settings.AlpacaKey, req.AlpacaKey},
		{&settings.AlpacaSecret, req.AlpacaSecret},
		{&settings.SendgridKey, req.SendgridKey},
		{&settings.TwilioSID, req.TwilioSID},
		{&settings.TwilioAuthToken, req.TwilioAuthToken},
	} {
		if err := set(pair.dst, pair.src); err != nil {
			s.logger.Error("encrypt api key", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	if req.AlpacaPaper != nil {
		settings.AlpacaPaper = *req.AlpacaPaper
	}
	if req.TwilioFromNumber != nil {
		settings.TwilioFromNumber = *req.TwilioFromNumber
	}

	if err := s.repo.UpdateAPIKeySettings(settings); err != nil {
		s.logger.Error("update api key settings", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"detail": "Settings updated"})
}
