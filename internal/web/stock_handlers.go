package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cohl/pennypicker/internal/storage"
)

func (s *Server) handleListStocks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, perPage := pageParams(r)

	filter := storage.StockFilter{
		Sector:        q.Get("sector"),
		Exchange:      q.Get("exchange"),
		MinPrice:      queryFloat(r, "min_price"),
		MaxPrice:      queryFloat(r, "max_price"),
		MinVolume:     queryInt64(r, "min_volume"),
		Signal:        q.Get("signal"),
		MinConfidence: queryFloat(r, "min_confidence"),
		Search:        q.Get("search"),
		SortBy:        q.Get("sort_by"),
		Order:         q.Get("order"),
		Page:          page,
		PerPage:       perPage,
	}

	stocks, total, err := s.repo.ListStocks(filter)
	if err != nil {
		s.logger.Error("list stocks", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, paginated{Items: stocks, Total: total, Page: page, PerPage: perPage})
}

// loadStock resolves the {symbol} route parameter or writes a 404.
func (s *Server) loadStock(w http.ResponseWriter, r *http.Request) *storage.Stock {
	symbol := chi.URLParam(r, "symbol")
	stock, err := s.repo.GetStockBySymbol(symbol)
	if err != nil {
		if storage.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "Stock not found")
		} else {
			s.logger.Error("load stock", "symbol", symbol, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return nil
	}
	return stock
}

func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	stock := s.loadStock(w, r)
	if stock == nil {
		return
	}

	bars, err := s.repo.GetPriceBars(stock.ID, "1d", nil, nil, 30)
	if err != nil {
		s.logger.Error("load price bars", "symbol", stock.Symbol, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"stock":       stock,
		"recent_bars": bars,
		"indicators":  indicatorsOf(stock),
	})
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	stock := s.loadStock(w, r)
	if stock == nil {
		return
	}

	q := r.URL.Query()
	interval := q.Get("interval")
	if interval == "" {
		interval = "1d"
	}

	var start, end *time.Time
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "Invalid start timestamp")
			return
		}
		start = &t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "Invalid end timestamp")
			return
		}
		end = &t
	}

	bars, err := s.repo.GetPriceBars(stock.ID, interval, start, end, queryInt(r, "limit", 500))
	if err != nil {
		s.logger.Error("load price bars", "symbol", stock.Symbol, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"symbol":   stock.Symbol,
		"interval": interval,
		"bars":     bars,
	})
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	stock := s.loadStock(w, r)
	if stock == nil {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"symbol":     stock.Symbol,
		"indicators": indicatorsOf(stock),
		"as_of":      stock.LastUpdated,
	})
}

func (s *Server) handleStockNews(w http.ResponseWriter, r *http.Request) {
	stock := s.loadStock(w, r)
	if stock == nil {
		return
	}

	page, perPage := pageParams(r)
	articles, err := s.repo.GetStockNews(stock.ID, page, perPage)
	if err != nil {
		s.logger.Error("load news", "symbol", stock.Symbol, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"symbol":   stock.Symbol,
		"articles": articles,
	})
}

func indicatorsOf(stock *storage.Stock) map[string]float64 {
	return map[string]float64{
		"rsi_14":      stock.RSI14,
		"macd":        stock.MACD,
		"macd_signal": stock.MACDSignal,
		"sma_20":      stock.SMA20,
		"sma_50":      stock.SMA50,
	}
}
