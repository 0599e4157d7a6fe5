package nasdaq

import (
	"context"
	"fmt"

	"github.com/jaylee-quant/divscan/internal/dividend"
)

type dividendsResponse struct {
	Data *struct {
		Dividends *struct {
			Rows []dividend.Record `json:"rows"`
		} `json:"dividends"`
	} `json:"data"`
}

// FetchDividends fetches the raw dividend history for one symbol. A
// symbol with no dividend data yields an empty slice, not an error; the
// API returns a null payload for those.
func (c *Client) FetchDividends(ctx context.Context, symbol string) ([]dividend.Record, error) {
	url := fmt.Sprintf("%s/api/quote/%s/dividends?assetclass=stocks", c.apiBaseURL, symbol)

	var resp dividendsResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch dividends for %s: %w", symbol, err)
	}

	if resp.Data == nil || resp.Data.Dividends == nil {
		return nil, nil
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(resp.Data.Dividends.Rows),
	}).Debug("Fetched dividend history")

	return resp.Data.Dividends.Rows, nil
}
