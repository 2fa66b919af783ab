package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cohl/pennypicker/internal/storage"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 28, hour, minute, 0, 0, time.UTC)
}

func TestInQuietHours(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		now   time.Time
		want  bool
	}{
		{"no window", "", "", at(3, 0), false},
		{"inside same-day window", "09:00", "17:00", at(12, 0), true},
		{"outside same-day window", "09:00", "17:00", at(18, 0), false},
		{"start boundary inclusive", "09:00", "17:00", at(9, 0), true},
		{"end boundary exclusive", "09:00", "17:00", at(17, 0), false},
		{"wraps midnight, before midnight", "22:00", "07:00", at(23, 30), true},
		{"wraps midnight, after midnight", "22:00", "07:00", at(6, 0), true},
		{"wraps midnight, daytime", "22:00", "07:00", at(12, 0), false},
		{"malformed start ignored", "nope", "07:00", at(3, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inQuietHours(tt.start, tt.end, tt.now))
		})
	}
}

func TestConfigMatches(t *testing.T) {
	stock := &storage.Stock{Symbol: "AAAA"}
	rec := &storage.Recommendation{SignalType: storage.SignalStrongBuy, Confidence: 0.85}
	noon := at(12, 0)

	base := storage.AlertConfig{MinConfidence: 0.7, IsActive: true}

	t.Run("matches on confidence alone", func(t *testing.T) {
		cfg := base
		assert.True(t, configMatches(&cfg, rec, stock, noon))
	})

	t.Run("below minimum confidence", func(t *testing.T) {
		cfg := base
		cfg.MinConfidence = 0.9
		assert.False(t, configMatches(&cfg, rec, stock, noon))
	})

	t.Run("signal type filter", func(t *testing.T) {
		cfg := base
		cfg.SignalTypesJSON = `["sell","strong_sell"]`
		assert.False(t, configMatches(&cfg, rec, stock, noon))

		cfg.SignalTypesJSON = `["strong_buy"]`
		assert.True(t, configMatches(&cfg, rec, stock, noon))
	})

	t.Run("symbol filter", func(t *testing.T) {
		cfg := base
		cfg.SymbolsJSON = `["BBBB"]`
		assert.False(t, configMatches(&cfg, rec, stock, noon))

		cfg.SymbolsJSON = `["aaaa"]`
		assert.True(t, configMatches(&cfg, rec, stock, noon))
	})

	t.Run("quiet hours suppress", func(t *testing.T) {
		cfg := base
		cfg.QuietHoursStart = "09:00"
		cfg.QuietHoursEnd = "17:00"
		assert.False(t, configMatches(&cfg, rec, stock, noon))
	})
}

func TestFormatSignalAlert(t *testing.T) {
	rec := &storage.Recommendation{
		SignalType:  storage.SignalStrongBuy,
		Confidence:  0.92,
		EntryPrice:  0.52,
		TargetPrice: 0.75,
		StopLoss:    0.45,
	}
	stock := &storage.Stock{Symbol: "AAAA"}

	text := formatSignalAlert(rec, stock)
	assert.Contains(t, text, "STRONG BUY")
	assert.Contains(t, text, "AAAA")
	assert.Contains(t, text, "92%")
}
