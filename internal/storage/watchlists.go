package storage

func (r *Repository) CreateWatchlist(wl *Watchlist) error {
	return r.db.Create(wl).Error
}

func (r *Repository) UpdateWatchlist(wl *Watchlist) error {
	return r.db.Save(wl).Error
}

func (r *Repository) DeleteWatchlist(wl *Watchlist) error {
	if err := r.db.Where("watchlist_id = ?", wl.ID).Delete(&WatchlistEntry{}).Error; err != nil {
		return err
	}
	return r.db.Delete(wl).Error
}

func (r *Repository) GetWatchlist(watchlistID, userID string) (*Watchlist, error) {
	var wl Watchlist
	err := r.db.Preload("Entries").Preload("Entries.Stock").
		Where("id = ? AND user_id = ?", watchlistID, userID).
		First(&wl).Error
	if err != nil {
		return nil, err
	}
	return &wl, nil
}

func (r *Repository) ListWatchlists(userID string) ([]Watchlist, error) {
	var lists []Watchlist
	err := r.db.Preload("Entries").Preload("Entries.Stock").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lists).Error
	return lists, err
}

func (r *Repository) AddWatchlistEntry(entry *WatchlistEntry) error {
	return r.db.Create(entry).Error
}

func (r *Repository) GetWatchlistEntry(watchlistID, stockID string) (*WatchlistEntry, error) {
	var entry WatchlistEntry
	err := r.db.Where("watchlist_id = ? AND stock_id = ?", watchlistID, stockID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) DeleteWatchlistEntry(entry *WatchlistEntry) error {
	return r.db.Delete(entry).Error
}
