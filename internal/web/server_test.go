package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohl/pennypicker/internal/auth"
	"github.com/cohl/pennypicker/internal/broker"
	"github.com/cohl/pennypicker/internal/config"
	"github.com/cohl/pennypicker/internal/logger"
	"github.com/cohl/pennypicker/internal/notify"
	"github.com/cohl/pennypicker/internal/storage"
	"github.com/cohl/pennypicker/internal/ws"
)

type stubBroker struct {
	lastRequest broker.OrderRequest
	failSubmit  bool
	cancelled   []string
}

func (b *stubBroker) SubmitOrder(req broker.OrderRequest) (*broker.Order, error) {
	b.lastRequest = req
	if b.failSubmit {
		return nil, fmt.Errorf("order rejected")
	}
	price := req.LimitPrice
	if price == 0 {
		price = 1.00
	}
	return &broker.Order{
		ID:             "order-1",
		Status:         "filled",
		FilledQuantity: req.Quantity,
		FilledAvgPrice: price,
	}, nil
}

func (b *stubBroker) CancelOrder(orderID string) error {
	b.cancelled = append(b.cancelled, orderID)
	return nil
}

type apiFixture struct {
	server *httptest.Server
	repo   *storage.Repository
	broker *stubBroker
	cfg    *config.Config
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	repo := storage.NewRepository(db)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "api-test-secret"
	cfg.Auth.EncryptionSecret = "api-test-encryption"
	cfg.Auth.AccessTokenMinutes = 15
	cfg.Auth.RefreshTokenDays = 7
	cfg.Webhook.Secret = "hook-secret"
	cfg.Portfolio.CashBalance = 10000
	cfg.Portfolio.DefaultRiskPct = 0.01
	cfg.Portfolio.MaxPositionUSD = 2500

	log := logger.Discard()
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	encryptor, err := auth.NewEncryptor(cfg.Auth.EncryptionSecret)
	require.NoError(t, err)

	hub := ws.NewHub(log)
	notifier := notify.NewNotifier(repo, cfg, log)
	brk := &stubBroker{}

	s := NewServer(repo, tokens, encryptor, hub, notifier, brk, cfg, log)
	server := httptest.NewServer(s.Routes())
	t.Cleanup(server.Close)

	return &apiFixture{server: server, repo: repo, broker: brk, cfg: cfg}
}

// do sends a JSON request and decodes the response into out when non-nil.
func (f *apiFixture) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// registerAndLogin creates a user and returns their access token.
func (f *apiFixture) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	status := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    email,
		"password": "supersecret1",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var pair map[string]string
	status = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": "supersecret1",
	}, &pair)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, pair["access_token"])
	return pair["access_token"]
}

func (f *apiFixture) seedStock(t *testing.T, symbol string, price float64) *storage.Stock {
	t.Helper()
	stock := &storage.Stock{
		Symbol:       symbol,
		Name:         symbol + " Corp",
		CurrentPrice: price,
		Volume:       100000,
		IsActive:     true,
		IsPennyStock: true,
	}
	require.NoError(t, f.repo.CreateStock(stock))
	return stock
}

func TestRegisterLoginAndMe(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")

	var me map[string]any
	status := f.do(t, http.MethodGet, "/api/v1/auth/me", token, nil, &me)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "trader@example.com", me["email"])
	// The password hash never leaves the server.
	_, leaked := me["hashed_password"]
	assert.False(t, leaked)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAPIFixture(t)
	f.registerAndLogin(t, "dup@example.com")

	status := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "dup@example.com",
		"password": "supersecret1",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAPIFixture(t)
	f.registerAndLogin(t, "trader@example.com")

	status := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "trader@example.com",
		"password": "not-the-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRefreshFlow(t *testing.T) {
	f := newAPIFixture(t)
	f.registerAndLogin(t, "trader@example.com")

	var pair map[string]string
	status := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "trader@example.com",
		"password": "supersecret1",
	}, &pair)
	require.Equal(t, http.StatusOK, status)

	var refreshed map[string]string
	status = f.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": pair["refresh_token"],
	}, &refreshed)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, refreshed["access_token"])

	// An access token is not accepted as a refresh token.
	status = f.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": pair["access_token"],
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequiresAuth(t *testing.T) {
	f := newAPIFixture(t)

	status := f.do(t, http.MethodGet, "/api/v1/stocks/", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = f.do(t, http.MethodGet, "/api/v1/stocks/", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestListStocksWithFilters(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")
	f.seedStock(t, "AAAA", 0.50)
	f.seedStock(t, "BBBB", 3.00)

	var page paginated
	status := f.do(t, http.MethodGet, "/api/v1/stocks/?max_price=1.00", token, nil, &page)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), page.Total)

	var stock map[string]any
	status = f.do(t, http.MethodGet, "/api/v1/stocks/BBBB", token, nil, &stock)
	assert.Equal(t, http.StatusOK, status)

	status = f.do(t, http.MethodGet, "/api/v1/stocks/ZZZZ", token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWatchlistFlow(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")
	f.seedStock(t, "AAAA", 0.50)

	var created map[string]any
	status := f.do(t, http.MethodPost, "/api/v1/watchlists/", token, map[string]any{
		"name": "Momentum",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	listID := created["id"].(string)

	status = f.do(t, http.MethodPost, "/api/v1/watchlists/"+listID+"/stocks", token, map[string]any{
		"symbol": "AAAA",
		"notes":  "gap watch",
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	// Adding the same stock again conflicts.
	status = f.do(t, http.MethodPost, "/api/v1/watchlists/"+listID+"/stocks", token, map[string]any{
		"symbol": "AAAA",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var got map[string]any
	status = f.do(t, http.MethodGet, "/api/v1/watchlists/"+listID, token, nil, &got)
	require.Equal(t, http.StatusOK, status)
	entries := got["entries"].([]any)
	assert.Len(t, entries, 1)

	status = f.do(t, http.MethodDelete, "/api/v1/watchlists/"+listID+"/stocks/AAAA", token, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status = f.do(t, http.MethodDelete, "/api/v1/watchlists/"+listID, token, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status = f.do(t, http.MethodGet, "/api/v1/watchlists/"+listID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWatchlistIsolation(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.registerAndLogin(t, "owner@example.com")
	intruder := f.registerAndLogin(t, "intruder@example.com")

	var created map[string]any
	status := f.do(t, http.MethodPost, "/api/v1/watchlists/", owner, map[string]any{"name": "Private"}, &created)
	require.Equal(t, http.StatusCreated, status)

	status = f.do(t, http.MethodGet, "/api/v1/watchlists/"+created["id"].(string), intruder, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (f *apiFixture) addBrokerAccount(t *testing.T, token string) {
	t.Helper()
	status := f.do(t, http.MethodPost, "/api/v1/portfolio/broker-accounts", token, map[string]any{
		"broker_name": "alpaca",
		"api_key":     "PKTEST12345678",
		"api_secret":  "SECRET12345678",
		"is_default":  true,
	}, nil)
	require.Equal(t, http.StatusCreated, status)
}

func TestTradeConfirmationWorkflow(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")
	f.seedStock(t, "AAAA", 0.50)
	f.addBrokerAccount(t, token)

	var created map[string]any
	status := f.do(t, http.MethodPost, "/api/v1/trades/", token, map[string]any{
		"symbol":   "AAAA",
		"side":     "buy",
		"quantity": 100,
		"price":    0.55,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, storage.TradePendingConfirmation, created["status"])
	// The confirmation token travels out of band, never in the response.
	_, leaked := created["confirmation_token"]
	assert.False(t, leaked)

	tradeID := created["id"].(string)

	// Wrong token is rejected.
	status = f.do(t, http.MethodPost, "/api/v1/trades/"+tradeID+"/confirm", token, map[string]any{
		"confirmation_token": "wrong",
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Fetch the real token the way the notifier would have delivered it.
	user, err := f.repo.GetUserByEmail("trader@example.com")
	require.NoError(t, err)
	trade, err := f.repo.GetTradeForUser(tradeID, user.ID)
	require.NoError(t, err)

	var confirmed map[string]any
	status = f.do(t, http.MethodPost, "/api/v1/trades/"+tradeID+"/confirm", token, map[string]any{
		"confirmation_token": trade.ConfirmationToken,
	}, &confirmed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, storage.TradeFilled, confirmed["status"])

	assert.Equal(t, "AAAA", f.broker.lastRequest.Symbol)
	assert.Equal(t, int64(100), f.broker.lastRequest.Quantity)

	// Confirming twice conflicts.
	status = f.do(t, http.MethodPost, "/api/v1/trades/"+tradeID+"/confirm", token, map[string]any{
		"confirmation_token": trade.ConfirmationToken,
	}, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestTradeBrokerRejection(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")
	f.seedStock(t, "AAAA", 0.50)
	f.addBrokerAccount(t, token)
	f.broker.failSubmit = true

	var created map[string]any
	status := f.do(t, http.MethodPost, "/api/v1/trades/", token, map[string]any{
		"symbol":   "AAAA",
		"side":     "buy",
		"quantity": 100,
		"price":    0.55,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	tradeID := created["id"].(string)

	user, err := f.repo.GetUserByEmail("trader@example.com")
	require.NoError(t, err)
	trade, err := f.repo.GetTradeForUser(tradeID, user.ID)
	require.NoError(t, err)

	status = f.do(t, http.MethodPost, "/api/v1/trades/"+tradeID+"/confirm", token, map[string]any{
		"confirmation_token": trade.ConfirmationToken,
	}, nil)
	assert.Equal(t, http.StatusBadGateway, status)

	trade, err = f.repo.GetTradeForUser(tradeID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.TradeRejected, trade.Status)
}

func TestTradeCancel(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")
	f.seedStock(t, "AAAA", 0.50)
	f.addBrokerAccount(t, token)

	var created map[string]any
	status := f.do(t, http.MethodPost, "/api/v1/trades/", token, map[string]any{
		"symbol":   "AAAA",
		"side":     "sell",
		"quantity": 10,
		"price":    0.60,
	}, &created)
	require.Equal(t, http.StatusCreated, status)

	var cancelled map[string]any
	status = f.do(t, http.MethodPost, "/api/v1/trades/"+created["id"].(string)+"/cancel", token, nil, &cancelled)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, storage.TradeCancelled, cancelled["status"])
}

func TestTradeWithoutBrokerAccount(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")
	f.seedStock(t, "AAAA", 0.50)

	status := f.do(t, http.MethodPost, "/api/v1/trades/", token, map[string]any{
		"symbol":   "AAAA",
		"side":     "buy",
		"quantity": 100,
		"price":    0.55,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPositionSize(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")
	f.seedStock(t, "AAAA", 0.50)

	var result struct {
		Position struct {
			Shares     int64   `json:"shares"`
			TotalCost  float64 `json:"total_cost"`
			RiskAmount float64 `json:"risk_amount"`
		} `json:"position"`
		PortfolioValue float64 `json:"portfolio_value"`
	}
	status := f.do(t, http.MethodPost, "/api/v1/trades/position-size", token, map[string]any{
		"symbol":      "AAAA",
		"entry_price": 0.50,
		"stop_loss":   0.40,
	}, &result)
	require.Equal(t, http.StatusOK, status)

	// $10,000 placeholder cash, 1% default risk, $0.10 per-share risk.
	assert.Equal(t, int64(1000), result.Position.Shares)
	assert.InDelta(t, 100.0, result.Position.RiskAmount, 0.001)
	assert.InDelta(t, 10000.0, result.PortfolioValue, 0.001)
}

func TestSignalWebhook(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")
	f.seedStock(t, "AAAA", 0.50)

	payload := map[string]any{
		"symbol":      "AAAA",
		"signal_type": "strong_buy",
		"confidence":  0.92,
		"entry_price": 0.52,
		"stop_loss":   0.45,
		"reasoning":   []string{"volume breakout"},
	}

	// Missing secret is rejected.
	status := f.do(t, http.MethodPost, "/api/v1/webhooks/signals", "", payload, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/api/v1/webhooks/signals", jsonBody(t, payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", "hook-secret")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The stock's cached signal is updated.
	stock, err := f.repo.GetStockBySymbol("AAAA")
	require.NoError(t, err)
	assert.Equal(t, storage.SignalStrongBuy, stock.LatestSignal)
	assert.InDelta(t, 0.92, stock.SignalConfidence, 0.001)

	// And the recommendation is visible through the API.
	var page paginated
	status = f.do(t, http.MethodGet, "/api/v1/recommendations/?symbol=AAAA", token, nil, &page)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), page.Total)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return &buf
}

func TestRecommendationHistoryAndPerformance(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")
	stock := f.seedStock(t, "AAAA", 0.50)

	closedAt := time.Now().UTC().Add(-time.Hour)
	closed := &storage.Recommendation{
		StockID:         stock.ID,
		SignalType:      storage.SignalBuy,
		Confidence:      0.5,
		EntryPrice:      0.40,
		ActualOutcome:   "win",
		ActualReturnPct: 25,
		ClosedAt:        &closedAt,
	}
	require.NoError(t, f.repo.CreateRecommendation(closed))
	open := &storage.Recommendation{
		StockID:    stock.ID,
		SignalType: storage.SignalStrongBuy,
		Confidence: 0.9,
		EntryPrice: 0.50,
	}
	require.NoError(t, f.repo.CreateRecommendation(open))

	// A still-open recommendation must not occupy a history page or
	// inflate the total, even when the page window is a single row.
	var page paginated
	status := f.do(t, http.MethodGet, "/api/v1/recommendations/history?per_page=1&page=1", token, nil, &page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), page.Total)
	items, ok := page.Items.([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "win", items[0].(map[string]any)["actual_outcome"])

	status = f.do(t, http.MethodGet, "/api/v1/recommendations/history?outcome=loss", token, nil, &page)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(0), page.Total)

	var perf map[string]any
	status = f.do(t, http.MethodGet, "/api/v1/recommendations/performance", token, nil, &perf)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), perf["total_closed"])
	assert.Equal(t, float64(1), perf["wins"])
	assert.InDelta(t, 100.0, perf["win_rate"].(float64), 0.001)
	assert.InDelta(t, 25.0, perf["avg_return_pct"].(float64), 0.001)
	assert.InDelta(t, 25.0, perf["max_return_pct"].(float64), 0.001)
}

func TestAlertConfigCRUD(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")

	var created map[string]any
	status := f.do(t, http.MethodPost, "/api/v1/alerts/configs", token, map[string]any{
		"alert_type":     "signal",
		"channel":        "email",
		"min_confidence": 0.8,
		"signal_types":   []string{"strong_buy"},
	}, &created)
	require.Equal(t, http.StatusCreated, status)

	// Same type and channel again conflicts.
	status = f.do(t, http.MethodPost, "/api/v1/alerts/configs", token, map[string]any{
		"alert_type": "signal",
		"channel":    "email",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	configID := created["id"].(string)
	var fetched map[string]any
	status = f.do(t, http.MethodGet, "/api/v1/alerts/configs/"+configID, token, nil, &fetched)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"strong_buy"}, fetched["signal_types"])

	var updated map[string]any
	status = f.do(t, http.MethodPut, "/api/v1/alerts/configs/"+configID, token, map[string]any{
		"alert_type":     "signal",
		"channel":        "email",
		"min_confidence": 0.6,
		"is_active":      false,
	}, &updated)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0.6, updated["min_confidence"])
	assert.Equal(t, false, updated["is_active"])

	status = f.do(t, http.MethodDelete, "/api/v1/alerts/configs/"+configID, token, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	var configs []map[string]any
	status = f.do(t, http.MethodGet, "/api/v1/alerts/configs", token, nil, &configs)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, configs)
}

func TestAPIKeySettingsMasked(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")

	status := f.do(t, http.MethodPut, "/api/v1/settings/api-keys", token, map[string]any{
		"polygon_key": "pk_live_ABCDEF123456",
	}, nil)
	require.Equal(t, http.StatusOK, status)

	var keys map[string]any
	status = f.do(t, http.MethodGet, "/api/v1/settings/api-keys", token, nil, &keys)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "****3456", keys["polygon_key"])
	assert.Empty(t, keys["alpaca_key"])

	// Stored value is encrypted, not plaintext.
	user, err := f.repo.GetUserByEmail("trader@example.com")
	require.NoError(t, err)
	settings, err := f.repo.GetOrCreateAPIKeySettings(user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, settings.PolygonKey)
	assert.NotEqual(t, "pk_live_ABCDEF123456", settings.PolygonKey)
}

func TestPortfolioSummary(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "trader@example.com")
	stock := f.seedStock(t, "AAAA", 2.00)

	user, err := f.repo.GetUserByEmail("trader@example.com")
	require.NoError(t, err)
	account := &storage.BrokerAccount{UserID: user.ID, BrokerName: "alpaca", IsActive: true}
	require.NoError(t, f.repo.CreateBrokerAccount(account))

	now := time.Now().UTC()
	trade := &storage.Trade{
		UserID: user.ID, StockID: stock.ID, BrokerAccountID: account.ID,
		Side: storage.SideBuy, Quantity: 100, Status: storage.TradeFilled,
		ConfirmationToken: "tok-pf", FilledQuantity: 100, FilledPrice: 1.50,
		ExecutedAt: &now,
	}
	require.NoError(t, f.repo.CreateTrade(trade))

	var summary map[string]float64
	status := f.do(t, http.MethodGet, "/api/v1/portfolio/summary", token, nil, &summary)
	require.Equal(t, http.StatusOK, status)

	assert.InDelta(t, 10000.0, summary["cash_balance"], 0.001)
	assert.InDelta(t, 200.0, summary["market_value"], 0.001)
	assert.InDelta(t, 50.0, summary["unrealized_pnl"], 0.001)

	var positions []map[string]any
	status = f.do(t, http.MethodGet, "/api/v1/portfolio/positions", token, nil, &positions)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, positions, 1)
	assert.Equal(t, "AAAA", positions[0]["symbol"])
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)

	resp, err := http.Get(f.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
