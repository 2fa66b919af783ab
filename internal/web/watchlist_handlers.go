package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cohl/pennypicker/internal/storage"
)

// watchlistView expands the entries with their stock snapshots.
type watchlistView struct {
	*storage.Watchlist
	Entries []watchlistEntryView `json:"entries"`
}

type watchlistEntryView struct {
	*storage.WatchlistEntry
	Stock *storage.Stock `json:"stock"`
}

func newWatchlistView(wl *storage.Watchlist) watchlistView {
	v := watchlistView{Watchlist: wl, Entries: make([]watchlistEntryView, len(wl.Entries))}
	for i := range wl.Entries {
		v.Entries[i] = watchlistEntryView{
			WatchlistEntry: &wl.Entries[i],
			Stock:          wl.Entries[i].Stock,
		}
	}
	return v
}

func (s *Server) handleListWatchlists(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	lists, err := s.repo.ListWatchlists(user.ID)
	if err != nil {
		s.logger.Error("list watchlists", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]watchlistView, len(lists))
	for i := range lists {
		views[i] = newWatchlistView(&lists[i])
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateWatchlist(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req watchlistRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	wl := &storage.Watchlist{
		UserID:      user.ID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateWatchlist(wl); err != nil {
		s.logger.Error("create watchlist", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusCreated, newWatchlistView(wl))
}

// loadWatchlist resolves {id} for the current user or writes a 404.
func (s *Server) loadWatchlist(w http.ResponseWriter, r *http.Request) *storage.Watchlist {
	user := userFrom(r)
	wl, err := s.repo.GetWatchlist(chi.URLParam(r, "id"), user.ID)
	if err != nil {
		if storage.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "Watchlist not found")
		} else {
			s.logger.Error("load watchlist", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return nil
	}
	return wl
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	wl := s.loadWatchlist(w, r)
	if wl == nil {
		return
	}
	respondJSON(w, http.StatusOK, newWatchlistView(wl))
}

func (s *Server) handleUpdateWatchlist(w http.ResponseWriter, r *http.Request) {
	wl := s.loadWatchlist(w, r)
	if wl == nil {
		return
	}

	var req watchlistRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	wl.Name = req.Name
	wl.Description = req.Description
	if err := s.repo.UpdateWatchlist(wl); err != nil {
		s.logger.Error("update watchlist", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, newWatchlistView(wl))
}

func (s *Server) handleDeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	wl := s.loadWatchlist(w, r)
	if wl == nil {
		return
	}
	if err := s.repo.DeleteWatchlist(wl); err != nil {
		s.logger.Error("delete watchlist", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddWatchlistStock(w http.ResponseWriter, r *http.Request) {
	wl := s.loadWatchlist(w, r)
	if wl == nil {
		return
	}

	var req watchlistEntryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
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

	if _, err := s.repo.GetWatchlistEntry(wl.ID, stock.ID); err == nil {
		respondError(w, http.StatusConflict, "Stock already in watchlist")
		return
	}

	entry := &storage.WatchlistEntry{
		WatchlistID:   wl.ID,
		StockID:       stock.ID,
		Notes:         req.Notes,
		AlertOnSignal: req.AlertOnSignal,
	}
	if err := s.repo.AddWatchlistEntry(entry); err != nil {
		s.logger.Error("add watchlist entry", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	entry.Stock = stock
	respondJSON(w, http.StatusCreated, watchlistEntryView{WatchlistEntry: entry, Stock: stock})
}

func (s *Server) handleRemoveWatchlistStock(w http.ResponseWriter, r *http.Request) {
	wl := s.loadWatchlist(w, r)
	if wl == nil {
		return
	}

	stock, err := s.repo.GetStockBySymbol(chi.URLParam(r, "symbol"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Stock not found")
		return
	}

	entry, err := s.repo.GetWatchlistEntry(wl.ID, stock.ID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Stock not in watchlist")
		return
	}

	if err := s.repo.DeleteWatchlistEntry(entry); err != nil {
		s.logger.Error("delete watchlist entry", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
