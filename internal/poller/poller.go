package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/cohl/pennypicker/internal/config"
	"github.com/cohl/pennypicker/internal/logger"
	"github.com/cohl/pennypicker/internal/marketdata"
	"github.com/cohl/pennypicker/internal/storage"
	"github.com/cohl/pennypicker/internal/ws"
)

// Poller periodically refreshes quotes for the tracked universe and pushes
// price updates to WebSocket subscribers.
type Poller struct {
	repo   *storage.Repository
	market *marketdata.Client
	hub    *ws.Hub
	config *config.Config
	logger *logger.Logger
	loc    *time.Location
}

func NewPoller(repo *storage.Repository, market *marketdata.Client, hub *ws.Hub, cfg *config.Config, log *logger.Logger) *Poller {
	return &Poller{
		repo:   repo,
		market: market,
		hub:    hub,
		config: cfg,
		logger: log,
		loc:    cfg.MarketLocation(),
	}
}

func (p *Poller) Run(ctx context.Context) {
	interval := p.config.PollInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.logger.Info("price poller started", "interval", interval.String())

	p.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("price poller stopped")
			return
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

func (p *Poller) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic in poller cycle", "panic", fmt.Sprint(r))
		}
	}()

	if !p.isWithinMarketHours() {
		p.logger.Debug("outside market hours, skipping cycle")
		return
	}

	symbols, err := p.repo.ActiveSymbols()
	if err != nil {
		p.logger.Error("list active symbols", "error", err)
		return
	}
	if len(symbols) == 0 {
		return
	}

	tracked := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		tracked[s] = true
	}

	quotes, err := p.market.GroupedDaily(ctx, time.Now().In(p.loc))
	if err != nil {
		p.logger.Error("fetch grouped daily", "error", err)
		return
	}

	updated := 0
	for symbol, quote := range quotes {
		if !tracked[symbol] {
			continue
		}
		if err := p.applyQuote(symbol, quote); err != nil {
			p.logger.Error("apply quote", "symbol", symbol, "error", err)
			continue
		}
		updated++

		p.hub.BroadcastPriceUpdate(symbol, map[string]any{
			"price":     quote.Close,
			"volume":    quote.Volume,
			"day_high":  quote.High,
			"day_low":   quote.Low,
			"timestamp": quote.Timestamp.Format(time.RFC3339),
		})
	}

	p.logger.Info("poll cycle completed", "tracked", len(symbols), "updated", updated)
}

func (p *Poller) applyQuote(symbol string, quote marketdata.Quote) error {
	stock, err := p.repo.GetStockBySymbol(symbol)
	if err != nil {
		return fmt.Errorf("load stock: %w", err)
	}

	stock.PreviousClose = stock.CurrentPrice
	stock.CurrentPrice = quote.Close
	stock.DayHigh = quote.High
	stock.DayLow = quote.Low
	stock.Volume = quote.Volume
	stock.LastUpdated = time.Now().UTC()

	if err := p.repo.UpdateStock(stock); err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

func (p *Poller) isWithinMarketHours() bool {
	now := time.Now().In(p.loc)

	weekday := now.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return false
	}

	totalMinutes := now.Hour()*60 + now.Minute()

	// NYSE/NASDAQ regular session: 09:30 - 16:00 ET
	return totalMinutes >= 570 && totalMinutes <= 960
}
