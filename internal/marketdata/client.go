package marketdata

import (
	"net/http"
	"time"

	"github.com/cohl/pennypicker/internal/logger"
)

const polygonBaseURL = "https://api.polygon.io"

// Client talks to the Polygon.io REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logger.Logger
}

func NewClient(apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    polygonBaseURL,
		apiKey:     apiKey,
		logger:     log,
	}
}

// SetBaseURL overrides the API host. Used in tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}
