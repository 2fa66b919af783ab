package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return NewRepository(db)
}

func TestUserLifecycle(t *testing.T) {
	repo := newTestRepo(t)

	user := &User{
		Email:          "trader@example.com",
		HashedPassword: "hashed",
		FullName:       "Test Trader",
		IsActive:       true,
		Role:           RoleUser,
	}
	require.NoError(t, repo.CreateUser(user))
	assert.NotEmpty(t, user.ID)

	byEmail, err := repo.GetUserByEmail("trader@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byEmail.FullName = "Renamed Trader"
	require.NoError(t, repo.UpdateUser(byEmail))

	byID, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Trader", byID.FullName)

	_, err = repo.GetUserByEmail("nobody@example.com")
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertStock(t *testing.T) {
	repo := newTestRepo(t)

	stock := &Stock{Symbol: "ABCD", Name: "Alpha Corp", CurrentPrice: 1.25, IsActive: true, IsPennyStock: true}
	require.NoError(t, repo.UpsertStock(stock))
	firstID := stock.ID

	updated := &Stock{Symbol: "ABCD", Name: "Alpha Corp", CurrentPrice: 1.50, IsActive: true, IsPennyStock: true}
	require.NoError(t, repo.UpsertStock(updated))
	assert.Equal(t, firstID, updated.ID)

	got, err := repo.GetStockBySymbol("abcd")
	require.NoError(t, err)
	assert.Equal(t, 1.50, got.CurrentPrice)
}

func seedStocks(t *testing.T, repo *Repository) {
	t.Helper()
	stocks := []Stock{
		{Symbol: "AAAA", Name: "Aaa Mining", Sector: "Materials", CurrentPrice: 0.50, Volume: 50000, LatestSignal: SignalBuy, SignalConfidence: 0.9, IsActive: true, IsPennyStock: true},
		{Symbol: "BBBB", Name: "Bbb Pharma", Sector: "Healthcare", CurrentPrice: 2.00, Volume: 200000, LatestSignal: SignalStrongBuy, SignalConfidence: 0.8, IsActive: true, IsPennyStock: true},
		{Symbol: "CCCC", Name: "Ccc Energy", Sector: "Energy", CurrentPrice: 4.50, Volume: 15000, LatestSignal: SignalHold, SignalConfidence: 0.4, IsActive: true, IsPennyStock: true},
		{Symbol: "DDDD", Name: "Ddd Inactive", Sector: "Energy", CurrentPrice: 1.00, Volume: 90000, IsPennyStock: true},
	}
	for i := range stocks {
		require.NoError(t, repo.CreateStock(&stocks[i]))
	}

	// Column defaults swallow a false on insert, so deactivate explicitly.
	stocks[3].IsActive = false
	require.NoError(t, repo.UpdateStock(&stocks[3]))
}

func TestListStocksFilters(t *testing.T) {
	repo := newTestRepo(t)
	seedStocks(t, repo)

	// Inactive stocks never appear.
	all, total, err := repo.ListStocks(StockFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	// Default order is confidence descending.
	assert.Equal(t, "AAAA", all[0].Symbol)

	maxPrice := 1.0
	cheap, _, err := repo.ListStocks(StockFilter{MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "AAAA", cheap[0].Symbol)

	bySector, _, err := repo.ListStocks(StockFilter{Sector: "Healthcare"})
	require.NoError(t, err)
	require.Len(t, bySector, 1)
	assert.Equal(t, "BBBB", bySector[0].Symbol)

	bySignal, _, err := repo.ListStocks(StockFilter{Signal: SignalStrongBuy})
	require.NoError(t, err)
	require.Len(t, bySignal, 1)
	assert.Equal(t, "BBBB", bySignal[0].Symbol)

	search, _, err := repo.ListStocks(StockFilter{Search: "Pharma"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "BBBB", search[0].Symbol)

	paged, total, err := repo.ListStocks(StockFilter{Page: 2, PerPage: 2, SortBy: "symbol", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
	assert.Equal(t, "CCCC", paged[0].Symbol)
}

func TestActiveSymbols(t *testing.T) {
	repo := newTestRepo(t)
	seedStocks(t, repo)

	symbols, err := repo.ActiveSymbols()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAAA", "BBBB", "CCCC"}, symbols)
}

func TestPriceBarsChronological(t *testing.T) {
	repo := newTestRepo(t)

	stock := &Stock{Symbol: "ABCD", IsActive: true, IsPennyStock: true}
	require.NoError(t, repo.CreateStock(stock))

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		bar := &PriceBar{
			StockID:   stock.ID,
			Timestamp: base.AddDate(0, 0, i),
			Interval:  "1d",
			Open:      1.0, High: 1.2, Low: 0.9, Close: 1.1,
			Volume: 10000,
		}
		require.NoError(t, repo.SavePriceBar(bar))
	}

	bars, err := repo.GetPriceBars(stock.ID, "1d", nil, nil, 3)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	// Most recent three, oldest first.
	assert.Equal(t, base.AddDate(0, 0, 2).Unix(), bars[0].Timestamp.Unix())
	assert.True(t, bars[0].Timestamp.Before(bars[2].Timestamp))
}

func TestRecommendationActiveFilter(t *testing.T) {
	repo := newTestRepo(t)

	stock := &Stock{Symbol: "ABCD", IsActive: true, IsPennyStock: true}
	require.NoError(t, repo.CreateStock(stock))

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)
	closedAt := time.Now().UTC().Add(-30 * time.Minute)

	open := &Recommendation{StockID: stock.ID, SignalType: SignalBuy, Confidence: 0.9, EntryPrice: 1.0, ExpiresAt: &future}
	expired := &Recommendation{StockID: stock.ID, SignalType: SignalBuy, Confidence: 0.8, EntryPrice: 1.0, ExpiresAt: &past}
	closed := &Recommendation{StockID: stock.ID, SignalType: SignalSell, Confidence: 0.7, EntryPrice: 1.0, ActualOutcome: "win", ActualReturnPct: 12.5, ClosedAt: &closedAt}

	require.NoError(t, repo.CreateRecommendation(open))
	require.NoError(t, repo.CreateRecommendation(expired))
	require.NoError(t, repo.CreateRecommendation(closed))

	active, total, err := repo.ListRecommendations(RecommendationFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)
	require.NotNil(t, active[0].Stock)
	assert.Equal(t, "ABCD", active[0].Stock.Symbol)

	bySymbol, _, err := repo.ListRecommendations(RecommendationFilter{ActiveOnly: true, Symbol: "ABCD"})
	require.NoError(t, err)
	assert.Len(t, bySymbol, 1)

	// ClosedOnly restricts both the rows and the total, so pagination
	// windows are never filled by open recommendations.
	history, total, err := repo.ListRecommendations(RecommendationFilter{ClosedOnly: true, Page: 1, PerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, history, 1)
	assert.Equal(t, closed.ID, history[0].ID)

	since, err := repo.ClosedRecommendationsSince(time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, "win", since[0].ActualOutcome)
}

func TestWatchlistEntries(t *testing.T) {
	repo := newTestRepo(t)

	user := &User{Email: "w@example.com", HashedPassword: "x", IsActive: true, Role: RoleUser}
	require.NoError(t, repo.CreateUser(user))

	stock := &Stock{Symbol: "ABCD", IsActive: true, IsPennyStock: true}
	require.NoError(t, repo.CreateStock(stock))

	wl := &Watchlist{UserID: user.ID, Name: "Momentum"}
	require.NoError(t, repo.CreateWatchlist(wl))

	entry := &WatchlistEntry{WatchlistID: wl.ID, StockID: stock.ID, Notes: "gap up"}
	require.NoError(t, repo.AddWatchlistEntry(entry))

	got, err := repo.GetWatchlist(wl.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	require.NotNil(t, got.Entries[0].Stock)
	assert.Equal(t, "ABCD", got.Entries[0].Stock.Symbol)

	// Another user cannot see it.
	_, err = repo.GetWatchlist(wl.ID, "other-user")
	assert.True(t, IsNotFound(err))

	require.NoError(t, repo.DeleteWatchlist(got))
	_, err = repo.GetWatchlist(wl.ID, user.ID)
	assert.True(t, IsNotFound(err))
}

func TestDefaultBrokerAccount(t *testing.T) {
	repo := newTestRepo(t)

	user := &User{Email: "b@example.com", HashedPassword: "x", IsActive: true, Role: RoleUser}
	require.NoError(t, repo.CreateUser(user))

	first := &BrokerAccount{UserID: user.ID, BrokerName: "alpaca", IsActive: true, IsDefault: true}
	require.NoError(t, repo.CreateBrokerAccount(first))

	require.NoError(t, repo.ClearDefaultBrokerAccounts(user.ID))
	second := &BrokerAccount{UserID: user.ID, BrokerName: "alpaca", IsActive: true, IsDefault: true}
	require.NoError(t, repo.CreateBrokerAccount(second))

	def, err := repo.GetDefaultBrokerAccount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)
}

func TestTradeListByStatus(t *testing.T) {
	repo := newTestRepo(t)

	user := &User{Email: "t@example.com", HashedPassword: "x", IsActive: true, Role: RoleUser}
	require.NoError(t, repo.CreateUser(user))
	stock := &Stock{Symbol: "ABCD", IsActive: true, IsPennyStock: true}
	require.NoError(t, repo.CreateStock(stock))
	account := &BrokerAccount{UserID: user.ID, BrokerName: "alpaca", IsActive: true}
	require.NoError(t, repo.CreateBrokerAccount(account))

	pending := &Trade{
		UserID: user.ID, StockID: stock.ID, BrokerAccountID: account.ID,
		Side: SideBuy, Quantity: 100, Status: TradePendingConfirmation,
		ConfirmationToken: "tok-1",
	}
	filled := &Trade{
		UserID: user.ID, StockID: stock.ID, BrokerAccountID: account.ID,
		Side: SideBuy, Quantity: 50, Status: TradeFilled,
		ConfirmationToken: "tok-2", FilledQuantity: 50, FilledPrice: 1.10,
	}
	require.NoError(t, repo.CreateTrade(pending))
	require.NoError(t, repo.CreateTrade(filled))

	all, err := repo.ListTrades(user.ID, "", 1, 50)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyPending, err := repo.ListTrades(user.ID, TradePendingConfirmation, 1, 50)
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, pending.ID, onlyPending[0].ID)

	forPortfolio, err := repo.FilledTrades(user.ID)
	require.NoError(t, err)
	require.Len(t, forPortfolio, 1)
	require.NotNil(t, forPortfolio[0].Stock)
}

func TestAlertConfigDuplicateLookup(t *testing.T) {
	repo := newTestRepo(t)

	user := &User{Email: "a@example.com", HashedPassword: "x", IsActive: true, Role: RoleUser}
	require.NoError(t, repo.CreateUser(user))

	cfg := &AlertConfig{UserID: user.ID, AlertType: "signal", Channel: "email", MinConfidence: 0.7, IsActive: true}
	require.NoError(t, repo.CreateAlertConfig(cfg))

	found, err := repo.FindAlertConfig(user.ID, "signal", "email")
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, found.ID)

	_, err = repo.FindAlertConfig(user.ID, "signal", "telegram")
	assert.True(t, IsNotFound(err))

	active, err := repo.ActiveSignalConfigs()
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
