package nasdaq

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FetchSector scrapes the company profile page for the sector label.
// Fallback for screener rows that arrive without one; the profile page
// carries the classification in its summary table.
func (c *Client) FetchSector(ctx context.Context, symbol string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/market-activity/stocks/%s", c.siteBaseURL, strings.ToLower(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse profile page: %w", err)
	}

	sector := extractSector(doc)
	if sector == "" {
		return "", fmt.Errorf("no sector found for %s", symbol)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"sector": sector,
	}).Debug("Scraped sector from profile page")

	return sector, nil
}

// extractSector walks the summary table looking for the Sector row
func extractSector(doc *goquery.Document) string {
	var sector string

	doc.Find("tr, li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := strings.TrimSpace(s.Find("td, span").First().Text())
		if !strings.EqualFold(label, "Sector") {
			return true
		}

		value := strings.TrimSpace(s.Find("td, span").Eq(1).Text())
		if value != "" {
			sector = value
			return false
		}
		return true
	})

	return sector
}
