package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cohl/pennypicker/internal/config"
	"github.com/cohl/pennypicker/internal/logger"
	"github.com/cohl/pennypicker/internal/marketdata"
	"github.com/cohl/pennypicker/internal/storage"
)

// loadstocks seeds the tracked universe: it walks the Polygon ticker
// listing, keeps symbols that trade under the penny-stock price cap with
// enough volume, and upserts them into the database.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dbPath := flag.String("db", "data/pennypicker.db", "path to SQLite database")
	maxPages := flag.Int("max-pages", 5, "ticker listing pages to fetch")
	delay := flag.Duration("delay", 250*time.Millisecond, "pause between quote requests")
	dryRun := flag.Bool("dry-run", false, "list matches without writing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Polygon.APIKey == "" {
		fmt.Fprintln(os.Stderr, "polygon.api_key is required")
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)

	db, err := storage.NewDatabase(*dbPath)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	market := marketdata.NewClient(cfg.Polygon.APIKey, cfg.PolygonTimeout(), log)

	ctx := context.Background()
	tickers, err := market.FetchTickers(ctx, *maxPages)
	if err != nil {
		log.Error("fetch tickers failed", "error", err)
		os.Exit(1)
	}
	log.Info("fetched ticker listing", "count", len(tickers))

	matched, skipped := 0, 0
	for _, ticker := range tickers {
		quote, err := market.PreviousClose(ctx, ticker.Symbol)
		if err != nil {
			log.Debug("no quote", "symbol", ticker.Symbol, "error", err)
			skipped++
			time.Sleep(*delay)
			continue
		}

		if quote.Close <= 0 ||
			quote.Close > cfg.Universe.MaxPrice ||
			quote.Volume < cfg.Universe.MinVolume {
			skipped++
			time.Sleep(*delay)
			continue
		}

		matched++
		fmt.Printf("  %-6s $%.4f  vol %d  %s\n", ticker.Symbol, quote.Close, quote.Volume, ticker.Name)

		if !*dryRun {
			stock := &storage.Stock{
				Symbol:        ticker.Symbol,
				Name:          ticker.Name,
				Exchange:      ticker.Exchange,
				MarketTier:    ticker.MarketTier,
				CIK:           ticker.CIK,
				CurrentPrice:  quote.Close,
				PreviousClose: quote.PreviousClose,
				DayHigh:       quote.High,
				DayLow:        quote.Low,
				Volume:        quote.Volume,
				IsActive:      true,
				IsPennyStock:  true,
				LastUpdated:   time.Now().UTC(),
			}
			if err := repo.UpsertStock(stock); err != nil {
				log.Error("upsert stock failed", "symbol", ticker.Symbol, "error", err)
			}
		}

		time.Sleep(*delay)
	}

	log.Info("universe load complete", "matched", matched, "skipped", skipped, "dry_run", *dryRun)
}
