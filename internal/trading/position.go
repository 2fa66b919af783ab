package trading

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PositionSize is the recommended order size for a given risk budget.
type PositionSize struct {
	Shares             int64   `json:"shares"`
	TotalCost          float64 `json:"total_cost"`
	RiskAmount         float64 `json:"risk_amount"`
	PercentOfPortfolio float64 `json:"percent_of_portfolio"`
	Rationale          string  `json:"rationale"`
}

// CalculatePositionSize sizes a position so that the loss at the stop
// equals riskPct of the portfolio. Always returns at least one share.
func CalculatePositionSize(portfolioValue, entryPrice, stopLoss, riskPct float64) (*PositionSize, error) {
	if entryPrice <= 0 {
		return nil, fmt.Errorf("entry price must be positive")
	}
	entry := decimal.NewFromFloat(entryPrice)
	stop := decimal.NewFromFloat(stopLoss)

	riskPerShare := entry.Sub(stop).Abs()
	if riskPerShare.IsZero() {
		return nil, fmt.Errorf("stop loss cannot equal entry price")
	}

	portfolio := decimal.NewFromFloat(portfolioValue)
	riskBudget := portfolio.Mul(decimal.NewFromFloat(riskPct))

	shares := riskBudget.Div(riskPerShare).IntPart()
	if shares < 1 {
		shares = 1
	}

	sharesDec := decimal.NewFromInt(shares)
	totalCost := sharesDec.Mul(entry)
	actualRisk := sharesDec.Mul(riskPerShare)

	var pctOfPortfolio float64
	if portfolio.IsPositive() {
		pctOfPortfolio, _ = totalCost.Div(portfolio).Float64()
	}

	cost, _ := totalCost.Float64()
	risk, _ := actualRisk.Float64()

	return &PositionSize{
		Shares:             shares,
		TotalCost:          cost,
		RiskAmount:         risk,
		PercentOfPortfolio: pctOfPortfolio,
		Rationale: fmt.Sprintf("Based on %.1f%% risk per trade with $%.0f portfolio",
			riskPct*100, portfolioValue),
	}, nil
}
