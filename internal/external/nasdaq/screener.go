package nasdaq

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Stock is one row of the stock screener
type Stock struct {
	Symbol    string
	Name      string
	Sector    string
	MarketCap decimal.Decimal
}

// MarketCapBillions renders the market cap in whole billions for display
func (s Stock) MarketCapBillions() string {
	return s.MarketCap.DivRound(decimal.New(1, 9), 0).String()
}

type screenerResponse struct {
	Data struct {
		Rows []screenerRow `json:"rows"`
	} `json:"data"`
}

type screenerRow struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	MarketCap string `json:"marketCap"`
	Sector    string `json:"sector"`
}

// FetchScreener fetches the full stock screener and returns symbols whose
// market cap is at least minMarketCap. Rows without a symbol or with an
// unparsable market cap are skipped.
func (c *Client) FetchScreener(ctx context.Context, minMarketCap float64) ([]Stock, error) {
	url := fmt.Sprintf("%s/api/screener/stocks?tableonly=true&limit=25&offset=0&download=true", c.apiBaseURL)

	var resp screenerResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch screener: %w", err)
	}

	floor := decimal.NewFromFloat(minMarketCap)

	stocks := make([]Stock, 0, len(resp.Data.Rows))
	for _, row := range resp.Data.Rows {
		if row.Symbol == "" {
			continue
		}

		marketCap := parseMarketCap(row.MarketCap)
		if marketCap.LessThan(floor) {
			continue
		}

		sector := row.Sector
		if sector == "" {
			sector = "Unknown"
		}

		stocks = append(stocks, Stock{
			Symbol:    row.Symbol,
			Name:      row.Name,
			Sector:    sector,
			MarketCap: marketCap,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"total":  len(resp.Data.Rows),
		"kept":   len(stocks),
		"floor":  floor.String(),
		"source": "screener",
	}).Info("Fetched stock screener")

	return stocks, nil
}

// parseMarketCap parses the screener's market cap string. Values arrive
// with commas and sometimes a dollar sign; anything unparsable counts
// as zero and falls below any sane floor.
func parseMarketCap(s string) decimal.Decimal {
	clean := strings.NewReplacer(",", "", "$", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}
