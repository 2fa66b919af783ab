package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type tickersResponse struct {
	Results []struct {
		Ticker          string `json:"ticker"`
		Name            string `json:"name"`
		PrimaryExchange string `json:"primary_exchange"`
		Market          string `json:"market"`
		CIK             string `json:"cik"`
	} `json:"results"`
	NextURL string `json:"next_url"`
}

// FetchTickers pages through the reference tickers endpoint. maxPages
// bounds the walk so the free-tier rate limit is not exhausted.
func (c *Client) FetchTickers(ctx context.Context, maxPages int) ([]TickerInfo, error) {
	var tickers []TickerInfo

	url := fmt.Sprintf("%s/v3/reference/tickers?market=stocks&active=true&limit=1000&apiKey=%s",
		c.baseURL, c.apiKey)

	for page := 0; url != "" && page < maxPages; page++ {
		body, err := c.get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch tickers page %d: %w", page+1, err)
		}

		var resp tickersResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parse tickers response: %w", err)
		}

		for _, t := range resp.Results {
			if t.Ticker == "" {
				continue
			}
			tickers = append(tickers, TickerInfo{
				Symbol:     strings.ToUpper(t.Ticker),
				Name:       t.Name,
				Exchange:   t.PrimaryExchange,
				MarketTier: t.Market,
				CIK:        t.CIK,
			})
		}

		url = resp.NextURL
		if url != "" {
			url += "&apiKey=" + c.apiKey
		}
	}

	c.logger.Info("tickers fetched", "count", len(tickers))
	return tickers, nil
}

type aggsResponse struct {
	Ticker  string `json:"ticker"`
	Results []struct {
		Open      float64 `json:"o"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		Close     float64 `json:"c"`
		Volume    float64 `json:"v"`
		VWAP      float64 `json:"vw"`
		Timestamp int64   `json:"t"`
	} `json:"results"`
}

// PreviousClose returns the prior trading day's bar for one symbol.
func (c *Client) PreviousClose(ctx context.Context, symbol string) (*Quote, error) {
	url := fmt.Sprintf("%s/v2/aggs/ticker/%s/prev?apiKey=%s", c.baseURL, symbol, c.apiKey)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch previous close %s: %w", symbol, err)
	}

	var resp aggsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse aggs response: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("no data for %s", symbol)
	}

	r := resp.Results[0]
	return &Quote{
		Symbol: strings.ToUpper(symbol),
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: int64(r.Volume),
		VWAP:   r.VWAP,
		// The prior day's bar is the previous close by definition.
		PreviousClose: r.Close,
		Timestamp:     time.UnixMilli(r.Timestamp).UTC(),
	}, nil
}

type groupedResponse struct {
	Results []struct {
		Ticker    string  `json:"T"`
		Open      float64 `json:"o"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		Close     float64 `json:"c"`
		Volume    float64 `json:"v"`
		VWAP      float64 `json:"vw"`
		Timestamp int64   `json:"t"`
	} `json:"results"`
}

// GroupedDaily returns bars for the whole US stocks market on one date.
// The poller uses this to refresh every tracked symbol in one call.
func (c *Client) GroupedDaily(ctx context.Context, date time.Time) (map[string]Quote, error) {
	url := fmt.Sprintf("%s/v2/aggs/grouped/locale/us/market/stocks/%s?apiKey=%s",
		c.baseURL, date.Format("2006-01-02"), c.apiKey)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch grouped daily: %w", err)
	}

	var resp groupedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse grouped response: %w", err)
	}

	quotes := make(map[string]Quote, len(resp.Results))
	for _, r := range resp.Results {
		if r.Ticker == "" {
			continue
		}
		symbol := strings.ToUpper(r.Ticker)
		quotes[symbol] = Quote{
			Symbol:    symbol,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    int64(r.Volume),
			VWAP:      r.VWAP,
			Timestamp: time.UnixMilli(r.Timestamp).UTC(),
		}
	}
	return quotes, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polygon returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
