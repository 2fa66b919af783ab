package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Polygon   PolygonConfig   `yaml:"polygon"`
	Alpaca    AlpacaConfig    `yaml:"alpaca"`
	Universe  UniverseConfig  `yaml:"universe"`
	Poller    PollerConfig    `yaml:"poller"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type AuthConfig struct {
	JWTSecret          string `yaml:"jwt_secret"`
	EncryptionSecret   string `yaml:"encryption_secret"`
	AccessTokenMinutes int    `yaml:"access_token_minutes"`
	RefreshTokenDays   int    `yaml:"refresh_token_days"`
}

type PolygonConfig struct {
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type AlpacaConfig struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Paper     bool   `yaml:"paper"`
}

// UniverseConfig defines what counts as a penny stock.
type UniverseConfig struct {
	MaxPrice  float64 `yaml:"max_price"`
	MinVolume int64   `yaml:"min_volume"`
}

type PollerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type SMTPConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FromEmail string `yaml:"from_email"`
}

type WebhookConfig struct {
	Secret string `yaml:"secret"`
}

// PortfolioConfig holds placeholder account values until broker sync
// populates them.
type PortfolioConfig struct {
	CashBalance    float64 `yaml:"cash_balance"`
	DefaultRiskPct float64 `yaml:"default_risk_pct"`
	MaxPositionUSD float64 `yaml:"max_position_usd"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (*Config, error) {
	// .env is optional; real secrets usually arrive via environment.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// applyEnv lets environment variables override secrets from the YAML file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("ENCRYPTION_SECRET"); v != "" {
		cfg.Auth.EncryptionSecret = v
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Polygon.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		cfg.Webhook.Secret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Auth.AccessTokenMinutes == 0 {
		cfg.Auth.AccessTokenMinutes = 15
	}
	if cfg.Auth.RefreshTokenDays == 0 {
		cfg.Auth.RefreshTokenDays = 7
	}
	if cfg.Polygon.TimeoutSeconds == 0 {
		cfg.Polygon.TimeoutSeconds = 30
	}
	if cfg.Universe.MaxPrice == 0 {
		cfg.Universe.MaxPrice = 5.00
	}
	if cfg.Universe.MinVolume == 0 {
		cfg.Universe.MinVolume = 10000
	}
	if cfg.Poller.Interval == "" {
		cfg.Poller.Interval = "1m"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Portfolio.CashBalance == 0 {
		cfg.Portfolio.CashBalance = 10000
	}
	if cfg.Portfolio.DefaultRiskPct == 0 {
		cfg.Portfolio.DefaultRiskPct = 0.01
	}
	if cfg.Portfolio.MaxPositionUSD == 0 {
		cfg.Portfolio.MaxPositionUSD = 2500
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.EncryptionSecret == "" {
		return fmt.Errorf("auth.encryption_secret is required")
	}
	if _, err := time.ParseDuration(c.Poller.Interval); err != nil {
		return fmt.Errorf("invalid poller.interval %q: %w", c.Poller.Interval, err)
	}
	if c.Poller.Enabled && c.Polygon.APIKey == "" {
		return fmt.Errorf("polygon.api_key is required when poller is enabled")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	if c.SMTP.Enabled && c.SMTP.Host == "" {
		return fmt.Errorf("smtp.host is required when smtp is enabled")
	}
	return nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenMinutes) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTokenDays) * 24 * time.Hour
}

func (c *Config) PollInterval() time.Duration {
	d, _ := time.ParseDuration(c.Poller.Interval)
	return d
}

func (c *Config) PolygonTimeout() time.Duration {
	return time.Duration(c.Polygon.TimeoutSeconds) * time.Second
}

// MarketLocation returns the exchange time zone for market-hours checks.
func (c *Config) MarketLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("EST", -5*60*60)
	}
	return loc
}
