package storage

import (
	"strings"
	"time"
)

// StockFilter narrows and orders the penny stock listing.
type StockFilter struct {
	Sector        string
	Exchange      string
	MinPrice      *float64
	MaxPrice      *float64
	MinVolume     *int64
	Signal        string
	MinConfidence *float64
	Search        string

	SortBy string // signal_confidence, volume, current_price, symbol
	Order  string // asc, desc

	Page    int
	PerPage int
}

func (r *Repository) CreateStock(stock *Stock) error {
	return r.db.Create(stock).Error
}

func (r *Repository) UpdateStock(stock *Stock) error {
	return r.db.Save(stock).Error
}

// UpsertStock inserts or updates by symbol, used by the universe loader.
func (r *Repository) UpsertStock(stock *Stock) error {
	var existing Stock
	err := r.db.Where("symbol = ?", stock.Symbol).First(&existing).Error
	if err != nil {
		if IsNotFound(err) {
			return r.db.Create(stock).Error
		}
		return err
	}
	stock.ID = existing.ID
	stock.CreatedAt = existing.CreatedAt
	return r.db.Save(stock).Error
}

func (r *Repository) GetStockBySymbol(symbol string) (*Stock, error) {
	var stock Stock
	if err := r.db.Where("symbol = ?", strings.ToUpper(symbol)).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *Repository) ListStocks(f StockFilter) ([]Stock, int64, error) {
	q := r.db.Model(&Stock{}).Where("is_active = ? AND is_penny_stock = ?", true, true)

	if f.Sector != "" {
		q = q.Where("sector = ?", f.Sector)
	}
	if f.Exchange != "" {
		q = q.Where("exchange = ?", f.Exchange)
	}
	if f.MinPrice != nil {
		q = q.Where("current_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("current_price <= ?", *f.MaxPrice)
	}
	if f.MinVolume != nil {
		q = q.Where("volume >= ?", *f.MinVolume)
	}
	if f.Signal != "" {
		q = q.Where("latest_signal = ?", f.Signal)
	}
	if f.MinConfidence != nil {
		q = q.Where("signal_confidence >= ?", *f.MinConfidence)
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		q = q.Where("symbol LIKE ? OR name LIKE ?", term, term)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := f.SortBy
	switch sortBy {
	case "signal_confidence", "volume", "current_price", "symbol":
	default:
		sortBy = "signal_confidence"
	}
	dir := "DESC"
	if f.Order == "asc" {
		dir = "ASC"
	}
	q = q.Order(sortBy + " " + dir)

	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}

	var stocks []Stock
	err := q.Offset((page - 1) * perPage).Limit(perPage).Find(&stocks).Error
	return stocks, total, err
}

// ActiveSymbols returns symbols of active penny stocks for the poller.
func (r *Repository) ActiveSymbols() ([]string, error) {
	var symbols []string
	err := r.db.Model(&Stock{}).
		Where("is_active = ? AND is_penny_stock = ?", true, true).
		Pluck("symbol", &symbols).Error
	return symbols, err
}

// Price bars

func (r *Repository) SavePriceBar(bar *PriceBar) error {
	return r.db.Create(bar).Error
}

func (r *Repository) GetPriceBars(stockID, interval string, start, end *time.Time, limit int) ([]PriceBar, error) {
	q := r.db.Where("stock_id = ? AND interval = ?", stockID, interval)
	if start != nil {
		q = q.Where("timestamp >= ?", *start)
	}
	if end != nil {
		q = q.Where("timestamp <= ?", *end)
	}
	if limit < 1 {
		limit = 500
	}

	var bars []PriceBar
	if err := q.Order("timestamp DESC").Limit(limit).Find(&bars).Error; err != nil {
		return nil, err
	}

	// Callers chart these, so return them oldest first.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

// News

func (r *Repository) SaveNewsArticle(article *NewsArticle) error {
	return r.db.Create(article).Error
}

func (r *Repository) GetStockNews(stockID string, page, perPage int) ([]NewsArticle, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	var articles []NewsArticle
	err := r.db.Where("stock_id = ?", stockID).
		Order("published_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&articles).Error
	return articles, err
}
