package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cohl/pennypicker/internal/auth"
	"github.com/cohl/pennypicker/internal/broker"
	"github.com/cohl/pennypicker/internal/config"
	"github.com/cohl/pennypicker/internal/logger"
	"github.com/cohl/pennypicker/internal/notify"
	"github.com/cohl/pennypicker/internal/storage"
	"github.com/cohl/pennypicker/internal/ws"
)

// Server wires the REST API, the WebSocket endpoint, and the operational
// endpoints into one HTTP server.
type Server struct {
	repo      *storage.Repository
	tokens    *auth.TokenIssuer
	encryptor *auth.Encryptor
	hub       *ws.Hub
	wsHandler http.Handler
	notifier  *notify.Notifier
	broker    broker.Broker
	config    *config.Config
	logger    *logger.Logger

	httpServer *http.Server
}

func NewServer(
	repo *storage.Repository,
	tokens *auth.TokenIssuer,
	encryptor *auth.Encryptor,
	hub *ws.Hub,
	notifier *notify.Notifier,
	brk broker.Broker,
	cfg *config.Config,
	log *logger.Logger,
) *Server {
	s := &Server{
		repo:      repo,
		tokens:    tokens,
		encryptor: encryptor,
		hub:       hub,
		wsHandler: ws.NewHandler(hub, tokens, repo, log),
		notifier:  notifier,
		broker:    brk,
		config:    cfg,
		logger:    log,
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware(s.config.Server.CORSOrigins))
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Post("/webhooks/signals", s.handleSignalWebhook)

		// Authenticates via the token query parameter, not the
		// Authorization header.
		r.Get("/ws", s.wsHandler.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Put("/auth/me", s.handleUpdateMe)
			r.Post("/auth/logout", s.handleLogout)

			r.Route("/stocks", func(r chi.Router) {
				r.Get("/", s.handleListStocks)
				r.Get("/{symbol}", s.handleGetStock)
				r.Get("/{symbol}/price-history", s.handlePriceHistory)
				r.Get("/{symbol}/indicators", s.handleIndicators)
				r.Get("/{symbol}/news", s.handleStockNews)
			})

			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/", s.handleListRecommendations)
				r.Get("/history", s.handleRecommendationHistory)
				r.Get("/performance", s.handleRecommendationPerformance)
				r.Get("/{id}", s.handleGetRecommendation)
			})

			r.Route("/watchlists", func(r chi.Router) {
				r.Get("/", s.handleListWatchlists)
				r.Post("/", s.handleCreateWatchlist)
				r.Get("/{id}", s.handleGetWatchlist)
				r.Put("/{id}", s.handleUpdateWatchlist)
				r.Delete("/{id}", s.handleDeleteWatchlist)
				r.Post("/{id}/stocks", s.handleAddWatchlistStock)
				r.Delete("/{id}/stocks/{symbol}", s.handleRemoveWatchlistStock)
			})

			r.Route("/trades", func(r chi.Router) {
				r.Get("/", s.handleListTrades)
				r.Post("/", s.handleCreateTrade)
				r.Post("/position-size", s.handlePositionSize)
				r.Get("/{id}", s.handleGetTrade)
				r.Post("/{id}/confirm", s.handleConfirmTrade)
				r.Post("/{id}/cancel", s.handleCancelTrade)
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/configs", s.handleListAlertConfigs)
				r.Post("/configs", s.handleCreateAlertConfig)
				r.Get("/configs/{id}", s.handleGetAlertConfig)
				r.Put("/configs/{id}", s.handleUpdateAlertConfig)
				r.Delete("/configs/{id}", s.handleDeleteAlertConfig)
				r.Get("/history", s.handleAlertHistory)
				r.Post("/test", s.handleTestAlert)
			})

			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/positions", s.handlePositions)
				r.Get("/summary", s.handlePortfolioSummary)
				r.Get("/performance", s.handlePortfolioPerformance)
				r.Get("/broker-accounts", s.handleListBrokerAccounts)
				r.Post("/broker-accounts", s.handleCreateBrokerAccount)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/api-keys", s.handleGetAPIKeys)
				r.Put("/api-keys", s.handleUpdateAPIKeys)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"ws_connections": s.hub.ConnectionCount(),
	})
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
