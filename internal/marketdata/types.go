package marketdata

import "time"

// TickerInfo describes one listed security from the reference endpoint.
type TickerInfo struct {
	Symbol     string
	Name       string
	Exchange   string
	MarketTier string
	CIK        string
}

// Quote is a daily snapshot for one symbol.
type Quote struct {
	Symbol        string
	Open          float64
	High          float64
	Low           float64
	Close         float64
	Volume        int64
	VWAP          float64
	PreviousClose float64
	Timestamp     time.Time
}
