package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohl/pennypicker/internal/logger"
)

func newStubClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", 5*time.Second, logger.Discard())
	client.SetBaseURL(server.URL)
	return client
}

func TestFetchTickersPagination(t *testing.T) {
	var baseURL string
	requests := 0

	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		if r.URL.Query().Get("cursor") == "page2" {
			fmt.Fprint(w, `{"results":[{"ticker":"cccc","name":"Ccc Corp","primary_exchange":"XNAS","market":"stocks"}]}`)
			return
		}
		fmt.Fprintf(w, `{"results":[
			{"ticker":"AAAA","name":"Aaa Corp","primary_exchange":"XNAS","market":"stocks","cik":"0000001"},
			{"ticker":"BBBB","name":"Bbb Corp","primary_exchange":"XNYS","market":"otc"}
		],"next_url":"%s/v3/reference/tickers?cursor=page2"}`, baseURL)
	})
	// The stub needs its own URL to build next_url links.
	baseURL = client.baseURL

	tickers, err := client.FetchTickers(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	require.Len(t, tickers, 3)

	assert.Equal(t, "AAAA", tickers[0].Symbol)
	assert.Equal(t, "XNAS", tickers[0].Exchange)
	assert.Equal(t, "0000001", tickers[0].CIK)
	// Symbols are normalized to upper case.
	assert.Equal(t, "CCCC", tickers[2].Symbol)
}

func TestFetchTickersHonorsMaxPages(t *testing.T) {
	var baseURL string
	requests := 0

	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprintf(w, `{"results":[{"ticker":"AAAA","name":"Aaa"}],"next_url":"%s/v3/reference/tickers?cursor=more"}`, baseURL)
	})
	baseURL = client.baseURL

	_, err := client.FetchTickers(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestPreviousClose(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v2/aggs/ticker/AAAA/prev")
		fmt.Fprint(w, `{"ticker":"AAAA","results":[{"o":0.5,"h":0.6,"l":0.45,"c":0.55,"v":120000,"vw":0.52,"t":1756400400000}]}`)
	})

	quote, err := client.PreviousClose(context.Background(), "AAAA")
	require.NoError(t, err)

	assert.Equal(t, "AAAA", quote.Symbol)
	assert.Equal(t, 0.55, quote.Close)
	assert.Equal(t, 0.55, quote.PreviousClose)
	assert.Equal(t, int64(120000), quote.Volume)
}

func TestPreviousCloseNoData(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ticker":"ZZZZ","results":[]}`)
	})

	_, err := client.PreviousClose(context.Background(), "ZZZZ")
	assert.Error(t, err)
}

func TestGroupedDaily(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v2/aggs/grouped/locale/us/market/stocks/2026-08-28")
		fmt.Fprint(w, `{"results":[
			{"T":"aaaa","o":0.5,"h":0.6,"l":0.45,"c":0.55,"v":120000},
			{"T":"BBBB","o":2.0,"h":2.2,"l":1.9,"c":2.1,"v":300000}
		]}`)
	})

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	quotes, err := client.GroupedDaily(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, 0.55, quotes["AAAA"].Close)
	assert.Equal(t, int64(300000), quotes["BBBB"].Volume)
}

func TestServerErrorSurfaces(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.PreviousClose(context.Background(), "AAAA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
