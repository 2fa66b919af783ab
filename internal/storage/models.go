package storage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Signal types for recommendations and cached stock signals.
const (
	SignalStrongBuy  = "strong_buy"
	SignalBuy        = "buy"
	SignalHold       = "hold"
	SignalSell       = "sell"
	SignalStrongSell = "strong_sell"
)

// Trade sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Trade statuses.
const (
	TradePendingConfirmation = "pending_confirmation"
	TradeConfirmed           = "confirmed"
	TradeSubmitted           = "submitted"
	TradeFilled              = "filled"
	TradePartiallyFilled     = "partially_filled"
	TradeCancelled           = "cancelled"
	TradeRejected            = "rejected"
	TradeExpired             = "expired"
)

// User roles.
const (
	RoleUser    = "user"
	RolePremium = "premium"
	RoleAdmin   = "admin"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string `gorm:"not null" json:"-"`
	FullName       string `json:"full_name"`
	PhoneNumber    string `json:"phone_number"`

	IsActive   bool   `gorm:"default:true" json:"is_active"`
	IsVerified bool   `gorm:"default:false" json:"is_verified"`
	Role       string `gorm:"not null;default:'user'" json:"role"`

	// Preferences serialized as JSON.
	SettingsJSON string `gorm:"type:text" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Stock struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Symbol     string `gorm:"uniqueIndex;not null" json:"symbol"`
	Name       string `json:"name"`
	Exchange   string `json:"exchange"`
	MarketTier string `json:"market_tier"`
	Sector     string `json:"sector"`
	Industry   string `json:"industry"`
	CIK        string `json:"cik"`

	CurrentPrice  float64 `json:"current_price"`
	PreviousClose float64 `json:"previous_close"`
	DayHigh       float64 `json:"day_high"`
	DayLow        float64 `json:"day_low"`
	Volume        int64   `json:"volume"`
	AvgVolume20d  int64   `json:"avg_volume_20d"`
	MarketCap     int64   `json:"market_cap"`

	// Cached technical indicators.
	RSI14      float64 `gorm:"column:rsi_14" json:"rsi_14"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	SMA20      float64 `gorm:"column:sma_20" json:"sma_20"`
	SMA50      float64 `gorm:"column:sma_50" json:"sma_50"`

	LatestSignal     string  `gorm:"index" json:"latest_signal"`
	SignalConfidence float64 `json:"signal_confidence"`

	IsActive     bool `gorm:"default:true" json:"is_active"`
	IsPennyStock bool `gorm:"default:true" json:"is_penny_stock"`

	LastUpdated time.Time `json:"last_updated"`
}

func (s *Stock) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// PriceBar is one OHLCV candle for a stock at a given interval.
type PriceBar struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	StockID   string    `gorm:"index:ix_price_bars_stock_time;not null" json:"stock_id"`
	Timestamp time.Time `gorm:"index:ix_price_bars_stock_time;not null" json:"timestamp"`
	Interval  string    `gorm:"index:ix_price_bars_stock_time;not null;default:'1d'" json:"interval"`

	Open   float64 `gorm:"not null" json:"open"`
	High   float64 `gorm:"not null" json:"high"`
	Low    float64 `gorm:"not null" json:"low"`
	Close  float64 `gorm:"not null" json:"close"`
	Volume int64   `gorm:"not null" json:"volume"`
	VWAP   float64 `json:"vwap"`
}

func (p *PriceBar) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Recommendation struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	StockID string `gorm:"index;not null" json:"stock_id"`
	Stock   *Stock `gorm:"foreignKey:StockID" json:"-"`

	SignalType string  `gorm:"not null" json:"signal_type"`
	Confidence float64 `gorm:"not null" json:"confidence"` // 0.0 to 1.0

	EntryPrice  float64 `gorm:"not null" json:"entry_price"`
	TargetPrice float64 `json:"target_price"`
	StopLoss    float64 `json:"stop_loss"`

	TechnicalScore float64 `json:"technical_score"`
	SentimentScore float64 `json:"sentiment_score"`
	SocialScore    float64 `json:"social_score"`
	InsiderScore   float64 `json:"insider_score"`

	ReasoningJSON string `gorm:"type:text" json:"-"`
	WarningsJSON  string `gorm:"type:text" json:"-"`

	RiskScore               float64 `json:"risk_score"`
	ManipulationProbability float64 `json:"manipulation_probability"`

	ExpiresAt *time.Time `json:"expires_at"`

	// Outcome tracking for historical analysis.
	ActualOutcome   string     `json:"actual_outcome"` // win, loss, expired, cancelled
	ActualReturnPct float64    `json:"actual_return_pct"`
	ClosedAt        *time.Time `json:"closed_at"`
}

func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type Trade struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID           string `gorm:"index;not null" json:"user_id"`
	StockID          string `gorm:"index;not null" json:"stock_id"`
	Stock            *Stock `gorm:"foreignKey:StockID" json:"-"`
	RecommendationID string `json:"recommendation_id"`
	BrokerAccountID  string `gorm:"not null" json:"broker_account_id"`

	Side        string  `gorm:"not null" json:"side"`
	Quantity    int64   `gorm:"not null" json:"quantity"`
	OrderType   string  `gorm:"default:'limit'" json:"order_type"` // market, limit, stop, stop_limit
	Price       float64 `json:"price"`                             // limit price, zero for market orders
	StopPrice   float64 `json:"stop_price"`
	TimeInForce string  `gorm:"default:'day'" json:"time_in_force"` // day, gtc, ioc, fok

	Status        string `gorm:"index;not null;default:'pending_confirmation'" json:"status"`
	BrokerOrderID string `json:"broker_order_id"`

	ConfirmationToken   string     `gorm:"uniqueIndex" json:"-"`
	ConfirmationChannel string     `json:"confirmation_channel"`
	ConfirmedAt         *time.Time `json:"confirmed_at"`

	SubmittedAt    *time.Time `json:"submitted_at"`
	ExecutedAt     *time.Time `json:"executed_at"`
	FilledPrice    float64    `json:"filled_price"`
	FilledQuantity int64      `json:"filled_quantity"`
	Commission     float64    `json:"commission"`
}

func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type Watchlist struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      string `gorm:"index;not null" json:"user_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Entries []WatchlistEntry `gorm:"foreignKey:WatchlistID" json:"-"`
}

func (w *Watchlist) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

type WatchlistEntry struct {
	ID      string    `gorm:"primaryKey;size:36" json:"id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`

	WatchlistID string `gorm:"index:ix_watchlist_stock,unique;not null" json:"watchlist_id"`
	StockID     string `gorm:"index:ix_watchlist_stock,unique;not null" json:"stock_id"`
	Stock       *Stock `gorm:"foreignKey:StockID" json:"-"`

	Notes         string `gorm:"type:text" json:"notes"`
	AlertOnSignal string `json:"alert_on_signal"`
}

func (w *WatchlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// AlertConfig is a user's standing rule for when to be notified.
type AlertConfig struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string `gorm:"index;not null" json:"user_id"`

	AlertType string `gorm:"not null" json:"alert_type"` // signal, price_alert, volume_spike
	Channel   string `gorm:"not null" json:"channel"`    // email, telegram

	MinConfidence   float64 `gorm:"default:0.7" json:"min_confidence"`
	SignalTypesJSON string  `gorm:"type:text" json:"-"`
	SymbolsJSON     string  `gorm:"type:text" json:"-"` // empty means all symbols

	QuietHoursStart string `json:"quiet_hours_start"` // "22:00", empty for none
	QuietHoursEnd   string `json:"quiet_hours_end"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

func (a *AlertConfig) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AlertRecord is one sent (or failed) alert.
type AlertRecord struct {
	ID     string    `gorm:"primaryKey;size:36" json:"id"`
	SentAt time.Time `gorm:"autoCreateTime;index" json:"sent_at"`

	UserID           string `gorm:"index;not null" json:"user_id"`
	RecommendationID string `gorm:"not null" json:"recommendation_id"`

	Channel      string `gorm:"not null" json:"channel"`
	Status       string `gorm:"not null" json:"status"` // sent, failed
	ErrorMessage string `json:"error_message"`
}

func (a *AlertRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type BrokerAccount struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string `gorm:"index;not null" json:"user_id"`

	BrokerName string `gorm:"not null" json:"broker_name"` // alpaca, etc.
	AccountID  string `json:"account_id"`

	APIKeyEncrypted    string `gorm:"type:text" json:"-"`
	APISecretEncrypted string `gorm:"type:text" json:"-"`

	IsPaper   bool `gorm:"default:true" json:"is_paper"`
	IsActive  bool `gorm:"default:true" json:"is_active"`
	IsDefault bool `gorm:"default:false" json:"is_default"`

	LastSyncAt *time.Time `json:"last_sync_at"`
	SyncError  string     `json:"sync_error"`
}

func (b *BrokerAccount) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type NewsArticle struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	StockID string `gorm:"index;not null" json:"stock_id"`

	Title   string `gorm:"not null" json:"title"`
	Summary string `gorm:"type:text" json:"summary"`
	Source  string `json:"source"`
	Author  string `json:"author"`
	URL     string `gorm:"uniqueIndex" json:"url"`

	SentimentScore float64 `json:"sentiment_score"` // -1.0 to 1.0
	SentimentLabel string  `json:"sentiment_label"` // positive, negative, neutral

	PublishedAt time.Time `gorm:"index;not null" json:"published_at"`
}

func (n *NewsArticle) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// APIKeySettings stores encrypted keys for external services, one row per user.
type APIKeySettings struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	PolygonKey       string `gorm:"type:text" json:"-"`
	AlphaVantageKey  string `gorm:"type:text" json:"-"`
	SECKey           string `gorm:"type:text" json:"-"`
	BenzingaKey      string `gorm:"type:text" json:"-"`
	AlpacaKey        string `gorm:"type:text" json:"-"`
	AlpacaSecret     string `gorm:"type:text" json:"-"`
	AlpacaPaper      bool   `gorm:"default:true" json:"alpaca_paper"`
	SendgridKey      string `gorm:"type:text" json:"-"`
	TwilioSID        string `gorm:"type:text" json:"-"`
	TwilioAuthToken  string `gorm:"type:text" json:"-"`
	TwilioFromNumber string `json:"twilio_from_number"`
}

func (s *APIKeySettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
