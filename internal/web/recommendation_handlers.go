package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cohl/pennypicker/internal/storage"
)

// recView adds the decoded reasoning fields and the stock symbol to the
// stored recommendation.
type recView struct {
	*storage.Recommendation
	Symbol    string   `json:"symbol"`
	Reasoning []string `json:"reasoning"`
	Warnings  []string `json:"warnings"`
}

func newRecView(rec *storage.Recommendation) recView {
	v := recView{Recommendation: rec}
	if rec.Stock != nil {
		v.Symbol = rec.Stock.Symbol
	}
	if rec.ReasoningJSON != "" {
		_ = json.Unmarshal([]byte(rec.ReasoningJSON), &v.Reasoning)
	}
	if rec.WarningsJSON != "" {
		_ = json.Unmarshal([]byte(rec.WarningsJSON), &v.Warnings)
	}
	return v
}

func recViews(recs []storage.Recommendation) []recView {
	views := make([]recView, len(recs))
	for i := range recs {
		views[i] = newRecView(&recs[i])
	}
	return views
}

func (s *Server) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, perPage := pageParams(r)

	filter := storage.RecommendationFilter{
		SignalType:    q.Get("signal_type"),
		MinConfidence: queryFloat(r, "min_confidence"),
		Symbol:        q.Get("symbol"),
		ActiveOnly:    true,
		Page:          page,
		PerPage:       perPage,
	}

	recs, total, err := s.repo.ListRecommendations(filter)
	if err != nil {
		s.logger.Error("list recommendations", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, paginated{Items: recViews(recs), Total: total, Page: page, PerPage: perPage})
}

func (s *Server) handleRecommendationHistory(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	filter := storage.RecommendationFilter{
		ClosedOnly: true,
		Outcome:    r.URL.Query().Get("outcome"),
		Page:       page,
		PerPage:    perPage,
	}
	recs, total, err := s.repo.ListRecommendations(filter)
	if err != nil {
		s.logger.Error("list recommendation history", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, paginated{Items: recViews(recs), Total: total, Page: page, PerPage: perPage})
}

func (s *Server) handleRecommendationPerformance(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)
	if days < 1 || days > 365 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	recs, err := s.repo.ClosedRecommendationsSince(cutoff)
	if err != nil {
		s.logger.Error("load closed recommendations", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var wins, losses int
	var totalReturn, maxReturn, minReturn float64
	for i := range recs {
		switch recs[i].ActualOutcome {
		case "win":
			wins++
		case "loss":
			losses++
		}
		ret := recs[i].ActualReturnPct
		totalReturn += ret
		if i == 0 || ret > maxReturn {
			maxReturn = ret
		}
		if i == 0 || ret < minReturn {
			minReturn = ret
		}
	}

	var winRate, avgReturn float64
	if wins+losses > 0 {
		winRate = float64(wins) / float64(wins+losses) * 100
	}
	if len(recs) > 0 {
		avgReturn = totalReturn / float64(len(recs))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"period_days":    days,
		"total_closed":   len(recs),
		"wins":           wins,
		"losses":         losses,
		"win_rate":       winRate,
		"avg_return_pct": avgReturn,
		"max_return_pct": maxReturn,
		"min_return_pct": minReturn,
	})
}

func (s *Server) handleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.repo.GetRecommendation(chi.URLParam(r, "id"))
	if err != nil {
		if storage.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "Recommendation not found")
		} else {
			s.logger.Error("load recommendation", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondJSON(w, http.StatusOK, newRecView(rec))
}
