package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/cohl/pennypicker/internal/auth"
	"github.com/cohl/pennypicker/internal/broker"
	"github.com/cohl/pennypicker/internal/config"
	"github.com/cohl/pennypicker/internal/logger"
	"github.com/cohl/pennypicker/internal/marketdata"
	"github.com/cohl/pennypicker/internal/notify"
	"github.com/cohl/pennypicker/internal/poller"
	"github.com/cohl/pennypicker/internal/storage"
	"github.com/cohl/pennypicker/internal/web"
	"github.com/cohl/pennypicker/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dbPath := flag.String("db", "data/pennypicker.db", "path to SQLite database")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("starting pennypicker", "port", cfg.Server.Port)

	db, err := storage.NewDatabase(*dbPath)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())

	encryptor, err := auth.NewEncryptor(cfg.Auth.EncryptionSecret)
	if err != nil {
		log.Error("encryptor init failed", "error", err)
		os.Exit(1)
	}

	hub := ws.NewHub(log)
	hub.SetPriceLimiter(rate.NewLimiter(rate.Limit(20), 40))

	notifier := notify.NewNotifier(repo, cfg, log)
	brk := broker.NewAlpacaBroker(cfg, log)
	market := marketdata.NewClient(cfg.Polygon.APIKey, cfg.PolygonTimeout(), log)

	if cfg.Poller.Enabled {
		p := poller.NewPoller(repo, market, hub, cfg, log)
		go p.Run(ctx)
	}

	server := web.NewServer(repo, tokens, encryptor, hub, notifier, brk, cfg, log)
	go func() {
		if err := server.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", "error", err)
	}

	log.Info("pennypicker stopped")
}
