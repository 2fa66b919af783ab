package notify

import (
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cohl/pennypicker/internal/config"
	"github.com/cohl/pennypicker/internal/logger"
	"github.com/cohl/pennypicker/internal/metrics"
	"github.com/cohl/pennypicker/internal/storage"
)

// Notifier delivers alerts over the configured channels and records every
// attempt in the alert history.
type Notifier struct {
	repo *storage.Repository

	bot      *tgbotapi.BotAPI
	tgChatID int64

	smtpCfg config.SMTPConfig

	logger *logger.Logger
}

func NewNotifier(repo *storage.Repository, cfg *config.Config, log *logger.Logger) *Notifier {
	n := &Notifier{
		repo:    repo,
		smtpCfg: cfg.SMTP,
		logger:  log,
	}

	if cfg.Telegram.Enabled {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			log.Error("failed to create telegram bot", "error", err)
		} else {
			log.Info("telegram bot connected", "username", bot.Self.UserName)
			n.bot = bot
			n.tgChatID = cfg.Telegram.ChatID
		}
	}

	return n
}

// DispatchSignalAlert fans a new recommendation out to every user whose
// alert config matches it.
func (n *Notifier) DispatchSignalAlert(rec *storage.Recommendation, stock *storage.Stock) {
	configs, err := n.repo.ActiveSignalConfigs()
	if err != nil {
		n.logger.Error("list alert configs", "error", err)
		return
	}

	for i := range configs {
		cfg := &configs[i]
		if !configMatches(cfg, rec, stock, time.Now()) {
			continue
		}

		text := formatSignalAlert(rec, stock)
		err := n.send(cfg.Channel, cfg.UserID, "New signal: "+stock.Symbol, text)

		record := &storage.AlertRecord{
			UserID:           cfg.UserID,
			RecommendationID: rec.ID,
			Channel:          cfg.Channel,
			Status:           "sent",
		}
		if err != nil {
			record.Status = "failed"
			record.ErrorMessage = err.Error()
			n.logger.Error("send alert", "channel", cfg.Channel, "user_id", cfg.UserID, "error", err)
		}
		metrics.AlertsSent.WithLabelValues(cfg.Channel, record.Status).Inc()

		if dbErr := n.repo.SaveAlertRecord(record); dbErr != nil {
			n.logger.Error("save alert record", "error", dbErr)
		}
	}
}

// NotifyTradeConfirmation sends the confirmation token for a pending trade
// over the user's preferred channel.
func (n *Notifier) NotifyTradeConfirmation(user *storage.User, trade *storage.Trade, stock *storage.Stock) {
	text := fmt.Sprintf("Confirm your %s order: %d x %s. Confirmation token: %s",
		strings.ToUpper(trade.Side), trade.Quantity, stock.Symbol, trade.ConfirmationToken)

	if err := n.send(trade.ConfirmationChannel, user.ID, "Trade confirmation required", text); err != nil {
		n.logger.Error("send trade confirmation", "trade_id", trade.ID, "error", err)
	}
}

// SendTest delivers a test message so users can verify channel setup.
func (n *Notifier) SendTest(userID, channel string) error {
	return n.send(channel, userID, "Test alert", "This is a test alert from Penny Picker.")
}

func (n *Notifier) send(channel, userID, subject, text string) error {
	switch channel {
	case "telegram":
		return n.sendTelegram(text)
	case "email":
		return n.sendEmail(userID, subject, text)
	default:
		return fmt.Errorf("unknown alert channel %q", channel)
	}
}

func (n *Notifier) sendTelegram(text string) error {
	if n.bot == nil {
		return fmt.Errorf("telegram is not configured")
	}
	msg := tgbotapi.NewMessage(n.tgChatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

func (n *Notifier) sendEmail(userID, subject, text string) error {
	if !n.smtpCfg.Enabled {
		return fmt.Errorf("smtp is not configured")
	}

	user, err := n.repo.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", n.smtpCfg.Host, n.smtpCfg.Port)
	var auth smtp.Auth
	if n.smtpCfg.Username != "" {
		auth = smtp.PlainAuth("", n.smtpCfg.Username, n.smtpCfg.Password, n.smtpCfg.Host)
	}

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.smtpCfg.FromEmail, user.Email, subject, text)

	if err := smtp.SendMail(addr, auth, n.smtpCfg.FromEmail, []string{user.Email}, []byte(body)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// configMatches applies the config's filters to an incoming signal.
func configMatches(cfg *storage.AlertConfig, rec *storage.Recommendation, stock *storage.Stock, now time.Time) bool {
	if rec.Confidence < cfg.MinConfidence {
		return false
	}

	if cfg.SignalTypesJSON != "" {
		var types []string
		if err := json.Unmarshal([]byte(cfg.SignalTypesJSON), &types); err == nil && len(types) > 0 {
			if !contains(types, rec.SignalType) {
				return false
			}
		}
	}

	if cfg.SymbolsJSON != "" {
		var symbols []string
		if err := json.Unmarshal([]byte(cfg.SymbolsJSON), &symbols); err == nil && len(symbols) > 0 {
			if !contains(symbols, stock.Symbol) {
				return false
			}
		}
	}

	if inQuietHours(cfg.QuietHoursStart, cfg.QuietHoursEnd, now) {
		return false
	}
	return true
}

// inQuietHours reports whether now falls inside the "HH:MM"–"HH:MM"
// window. Windows may wrap past midnight.
func inQuietHours(start, end string, now time.Time) bool {
	if start == "" || end == "" {
		return false
	}
	startMin, ok1 := parseClock(start)
	endMin, ok2 := parseClock(end)
	if !ok1 || !ok2 {
		return false
	}

	nowMin := now.Hour()*60 + now.Minute()
	if startMin <= endMin {
		return nowMin >= startMin && nowMin < endMin
	}
	return nowMin >= startMin || nowMin < endMin
}

func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func formatSignalAlert(rec *storage.Recommendation, stock *storage.Stock) string {
	return fmt.Sprintf("%s %s (confidence %.0f%%)\nEntry: $%.4f  Target: $%.4f  Stop: $%.4f",
		strings.ToUpper(strings.ReplaceAll(rec.SignalType, "_", " ")),
		stock.Symbol, rec.Confidence*100,
		rec.EntryPrice, rec.TargetPrice, rec.StopLoss)
}
