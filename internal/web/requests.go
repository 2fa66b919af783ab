package web

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"max=120"`
	PhoneNumber string `json:"phone_number" validate:"max=32"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type updateMeRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=120"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
}

type createTradeRequest struct {
	Symbol              string  `json:"symbol" validate:"required,max=10"`
	Side                string  `json:"side" validate:"required,oneof=buy sell"`
	Quantity            int64   `json:"quantity" validate:"required,gt=0"`
	OrderType           string  `json:"order_type" validate:"omitempty,oneof=market limit stop stop_limit"`
	Price               float64 `json:"price" validate:"gte=0"`
	StopPrice           float64 `json:"stop_price" validate:"gte=0"`
	TimeInForce         string  `json:"time_in_force" validate:"omitempty,oneof=day gtc ioc fok"`
	RecommendationID    string  `json:"recommendation_id"`
	BrokerAccountID     string  `json:"broker_account_id"`
	ConfirmationChannel string  `json:"confirmation_channel" validate:"omitempty,oneof=email telegram"`
}

type confirmTradeRequest struct {
	ConfirmationToken string `json:"confirmation_token" validate:"required"`
}

type positionSizeRequest struct {
	Symbol      string  `json:"symbol" validate:"required,max=10"`
	EntryPrice  float64 `json:"entry_price" validate:"required,gt=0"`
	StopLoss    float64 `json:"stop_loss" validate:"required,gt=0"`
	RiskPercent float64 `json:"risk_percent" validate:"gte=0,lte=0.1"`
}

type watchlistRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
}

type watchlistEntryRequest struct {
	Symbol        string `json:"symbol" validate:"required,max=10"`
	Notes         string `json:"notes" validate:"max=500"`
	AlertOnSignal string `json:"alert_on_signal" validate:"omitempty,oneof=strong_buy buy hold sell strong_sell"`
}

type alertConfigRequest struct {
	AlertType       string   `json:"alert_type" validate:"required,oneof=signal price_alert volume_spike"`
	Channel         string   `json:"channel" validate:"required,oneof=email telegram"`
	MinConfidence   float64  `json:"min_confidence" validate:"gte=0,lte=1"`
	SignalTypes     []string `json:"signal_types" validate:"dive,oneof=strong_buy buy hold sell strong_sell"`
	Symbols         []string `json:"symbols" validate:"dive,max=10"`
	QuietHoursStart string   `json:"quiet_hours_start" validate:"omitempty,len=5"`
	QuietHoursEnd   string   `json:"quiet_hours_end" validate:"omitempty,len=5"`
	IsActive        *bool    `json:"is_active"`
}

type testAlertRequest struct {
	Channel string `json:"channel" validate:"required,oneof=email telegram"`
}

type brokerAccountRequest struct {
	BrokerName string `json:"broker_name" validate:"required,max=50"`
	AccountID  string `json:"account_id" validate:"max=100"`
	APIKey     string `json:"api_key" validate:"required"`
	APISecret  string `json:"api_secret" validate:"required"`
	IsPaper    *bool  `json:"is_paper"`
	IsDefault  bool   `json:"is_default"`
}

type apiKeysRequest struct {
	PolygonKey       *string `json:"polygon_key"`
	AlphaVantageKey  *string `json:"alpha_vantage_key"`
	SECKey           *string `json:"sec_key"`
	BenzingaKey      *string `json:"benzinga_key"`
	AlpacaKey        *string `json:"alpaca_key"`
	AlpacaSecret     *string `json:"alpaca_secret"`
	AlpacaPaper      *bool   `json:"alpaca_paper"`
	SendgridKey      *string `json:"sendgrid_key"`
	TwilioSID        *string `json:"twilio_sid"`
	TwilioAuthToken  *string `json:"twilio_auth_token"`
	TwilioFromNumber *string `json:"twilio_from_number"`
}

type signalWebhookRequest struct {
	Symbol     string  `json:"symbol" validate:"required,max=10"`
	SignalType string  `json:"signal_type" validate:"required,oneof=strong_buy buy hold sell strong_sell"`
	Confidence float64 `json:"confidence" validate:"required,gte=0,lte=1"`

	EntryPrice  float64 `json:"entry_price" validate:"required,gt=0"`
	TargetPrice float64 `json:"target_price" validate:"gte=0"`
	StopLoss    float64 `json:"stop_loss" validate:"gte=0"`

	TechnicalScore float64 `json:"technical_score" validate:"gte=0,lte=1"`
	SentimentScore float64 `json:"sentiment_score" validate:"gte=-1,lte=1"`
	SocialScore    float64 `json:"social_score" validate:"gte=0,lte=1"`
	InsiderScore   float64 `json:"insider_score" validate:"gte=0,lte=1"`

	Reasoning []string `json:"reasoning"`
	Warnings  []string `json:"warnings"`

	RiskScore               float64 `json:"risk_score" validate:"gte=0,lte=1"`
	ManipulationProbability float64 `json:"manipulation_probability" validate:"gte=0,lte=1"`

	ExpiresInHours int `json:"expires_in_hours" validate:"gte=0,lte=720"`
}
