// Package nasdaq talks to the public NASDAQ JSON API (api.nasdaq.com).
// The API serves browsers, so requests must carry a browser User-Agent,
// and the client self-limits with a token bucket to stay polite.
package nasdaq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/jaylee-quant/divscan/pkg/config"
	"github.com/jaylee-quant/divscan/pkg/httputil"
	"github.com/jaylee-quant/divscan/pkg/logger"
)

// Client handles communication with the NASDAQ API
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	apiBaseURL  string
	siteBaseURL string
	userAgent   string
	limiter     *rate.Limiter
}

// NewClient creates a new NASDAQ API client
func NewClient(cfg config.NasdaqConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}

	return &Client{
		httpClient:  httpClient,
		logger:      log.WithField("module", "nasdaq"),
		apiBaseURL:  cfg.APIBaseURL,
		siteBaseURL: cfg.SiteBaseURL,
		userAgent:   cfg.UserAgent,
		limiter:     rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
}

// getJSON fetches a URL and decodes the JSON body into dest
func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
