package trading

import (
	"github.com/shopspring/decimal"

	"github.com/cohl/pennypicker/internal/storage"
)

// Position is a current holding aggregated from filled trades.
type Position struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Quantity         int64   `json:"quantity"`
	AvgCost          float64 `json:"avg_cost"`
	CurrentPrice     float64 `json:"current_price"`
	MarketValue      float64 `json:"market_value"`
	UnrealizedPnL    float64 `json:"unrealized_pnl"`
	UnrealizedPnLPct float64 `json:"unrealized_pnl_pct"`
}

// AggregatePositions nets filled buys against sells per symbol. Symbols
// with no remaining shares are dropped.
func AggregatePositions(trades []storage.Trade) []Position {
	type bucket struct {
		name         string
		quantity     int64
		totalCost    decimal.Decimal
		currentPrice float64
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for i := range trades {
		t := &trades[i]
		if t.Stock == nil {
			continue
		}
		symbol := t.Stock.Symbol

		b, ok := buckets[symbol]
		if !ok {
			b = &bucket{name: t.Stock.Name, currentPrice: t.Stock.CurrentPrice}
			buckets[symbol] = b
			order = append(order, symbol)
		}

		qty := t.FilledQuantity
		if qty == 0 {
			qty = t.Quantity
		}
		price := t.FilledPrice
		if price == 0 {
			price = t.Price
		}
		cost := decimal.NewFromInt(qty).Mul(decimal.NewFromFloat(price))

		if t.Side == storage.SideBuy {
			b.quantity += qty
			b.totalCost = b.totalCost.Add(cost)
		} else {
			b.quantity -= qty
			b.totalCost = b.totalCost.Sub(cost)
		}
	}

	positions := make([]Position, 0, len(buckets))
	for _, symbol := range order {
		b := buckets[symbol]
		if b.quantity <= 0 {
			continue
		}

		totalCost, _ := b.totalCost.Float64()
		avgCost := totalCost / float64(b.quantity)
		marketValue := float64(b.quantity) * b.currentPrice
		unrealized := marketValue - totalCost

		var unrealizedPct float64
		if totalCost > 0 {
			unrealizedPct = unrealized / totalCost * 100
		}

		positions = append(positions, Position{
			Symbol:           symbol,
			Name:             b.name,
			Quantity:         b.quantity,
			AvgCost:          avgCost,
			CurrentPrice:     b.currentPrice,
			MarketValue:      marketValue,
			UnrealizedPnL:    unrealized,
			UnrealizedPnLPct: unrealizedPct,
		})
	}
	return positions
}

// Performance summarizes realized results over a period.
type Performance struct {
	RealizedPnL float64 `json:"realized_pnl"`
	TotalTrades int     `json:"total_trades"`
	TradesWon   int     `json:"trades_won"`
	TradesLost  int     `json:"trades_lost"`
	WinRate     float64 `json:"win_rate"`
}

// CalculatePerformance matches sells against earlier buys FIFO per symbol
// and sums the realized P&L.
func CalculatePerformance(trades []storage.Trade) Performance {
	type lot struct {
		quantity int64
		price    decimal.Decimal
	}

	lots := make(map[string][]*lot)
	realized := decimal.Zero
	won, lost := 0, 0

	for i := range trades {
		t := &trades[i]
		if t.Stock == nil {
			continue
		}
		symbol := t.Stock.Symbol

		qty := t.FilledQuantity
		if qty == 0 {
			qty = t.Quantity
		}
		price := t.FilledPrice
		if price == 0 {
			price = t.Price
		}
		priceDec := decimal.NewFromFloat(price)

		if t.Side == storage.SideBuy {
			lots[symbol] = append(lots[symbol], &lot{quantity: qty, price: priceDec})
			continue
		}

		// Sell: consume buy lots oldest first.
		remaining := qty
		for _, l := range lots[symbol] {
			if remaining <= 0 {
				break
			}
			if l.quantity <= 0 {
				continue
			}
			matched := l.quantity
			if matched > remaining {
				matched = remaining
			}

			pnl := decimal.NewFromInt(matched).Mul(priceDec.Sub(l.price))
			realized = realized.Add(pnl)
			if pnl.IsPositive() {
				won++
			} else if pnl.IsNegative() {
				lost++
			}

			l.quantity -= matched
			remaining -= matched
		}
	}

	total := won + lost
	var winRate float64
	if total > 0 {
		winRate = float64(won) / float64(total) * 100
	}

	realizedF, _ := realized.Float64()
	return Performance{
		RealizedPnL: realizedF,
		TotalTrades: len(trades),
		TradesWon:   won,
		TradesLost:  lost,
		WinRate:     winRate,
	}
}
