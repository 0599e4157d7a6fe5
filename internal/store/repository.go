package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jaylee-quant/divscan/internal/batch"
	"github.com/jaylee-quant/divscan/internal/dividend"
	"github.com/jaylee-quant/divscan/internal/external/nasdaq"
)

// Repository handles persistence for the screener universe, raw dividend
// records, and per-symbol consistency results.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Pool returns the underlying database pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.db
}

// schema is applied idempotently at startup
const schema = `
CREATE SCHEMA IF NOT EXISTS data;

CREATE TABLE IF NOT EXISTS data.stocks (
	symbol      TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	sector      TEXT NOT NULL DEFAULT 'Unknown',
	market_cap  NUMERIC NOT NULL DEFAULT 0,
	status      TEXT NOT NULL DEFAULT 'active',
	fetched_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS data.dividend_events (
	id               BIGSERIAL PRIMARY KEY,
	symbol           TEXT NOT NULL REFERENCES data.stocks(symbol) ON DELETE CASCADE,
	ex_date          TEXT NOT NULL,
	type             TEXT NOT NULL DEFAULT '',
	amount           TEXT NOT NULL DEFAULT '',
	declaration_date TEXT NOT NULL DEFAULT '',
	record_date      TEXT NOT NULL DEFAULT '',
	payment_date     TEXT NOT NULL DEFAULT '',
	currency         TEXT NOT NULL DEFAULT '',
	fetched_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_dividend_events_symbol ON data.dividend_events(symbol);

CREATE TABLE IF NOT EXISTS data.consistency_results (
	symbol      TEXT PRIMARY KEY REFERENCES data.stocks(symbol) ON DELETE CASCADE,
	score       INT,
	rendering   TEXT NOT NULL DEFAULT '',
	run_id      UUID NOT NULL,
	analyzed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate applies the schema
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// UpsertStocks saves the screener universe
func (r *Repository) UpsertStocks(ctx context.Context, stocks []nasdaq.Stock) error {
	if len(stocks) == 0 {
		return nil
	}

	query := `
		INSERT INTO data.stocks (symbol, name, sector, market_cap, status, fetched_at)
		VALUES ($1, $2, $3, $4, 'active', NOW())
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			market_cap = EXCLUDED.market_cap,
			status = 'active',
			fetched_at = NOW()
	`

	batchReq := &pgx.Batch{}
	for _, stock := range stocks {
		batchReq.Queue(query, stock.Symbol, stock.Name, stock.Sector, stock.MarketCap)
	}

	results := r.db.SendBatch(ctx, batchReq)
	defer results.Close()

	for range stocks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert stock: %w", err)
		}
	}

	return nil
}

// GetActiveSymbols returns all symbols in the active universe
func (r *Repository) GetActiveSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT symbol FROM data.stocks WHERE status = 'active' ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query active symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

// ReplaceDividendRecords replaces one symbol's raw dividend records.
// Replace-all keeps the stored rows an exact mirror of the last fetch;
// the normalizer re-derives everything from raw on each analysis run.
func (r *Repository) ReplaceDividendRecords(ctx context.Context, symbol string, records []dividend.Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM data.dividend_events WHERE symbol = $1`, symbol); err != nil {
		return fmt.Errorf("delete old dividend events: %w", err)
	}

	if len(records) > 0 {
		query := `
			INSERT INTO data.dividend_events
				(symbol, ex_date, type, amount, declaration_date, record_date, payment_date, currency)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

		batchReq := &pgx.Batch{}
		for _, rec := range records {
			batchReq.Queue(query,
				symbol, rec.ExDate, rec.Type, rec.Amount,
				rec.DeclarationDate, rec.RecordDate, rec.PaymentDate, rec.Currency,
			)
		}

		results := tx.SendBatch(ctx, batchReq)
		for range records {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("insert dividend event: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetDividendRecords loads one symbol's raw dividend records
func (r *Repository) GetDividendRecords(ctx context.Context, symbol string) ([]dividend.Record, error) {
	query := `
		SELECT ex_date, type, amount, declaration_date, record_date, payment_date, currency
		FROM data.dividend_events
		WHERE symbol = $1
	`

	rows, err := r.db.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query dividend events: %w", err)
	}
	defer rows.Close()

	var records []dividend.Record
	for rows.Next() {
		var rec dividend.Record
		if err := rows.Scan(
			&rec.ExDate, &rec.Type, &rec.Amount,
			&rec.DeclarationDate, &rec.RecordDate, &rec.PaymentDate, &rec.Currency,
		); err != nil {
			return nil, fmt.Errorf("scan dividend event: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// MarkNonDividendPayers moves symbols with no dividend history out of the
// active universe. Returns the number of symbols demoted.
func (r *Repository) MarkNonDividendPayers(ctx context.Context) (int, error) {
	query := `
		UPDATE data.stocks s
		SET status = 'no_dividends'
		WHERE s.status = 'active'
		  AND NOT EXISTS (SELECT 1 FROM data.dividend_events e WHERE e.symbol = s.symbol)
	`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("mark non dividend payers: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// SaveResults upserts the per-symbol consistency results of one run.
// Failed symbols are stored too: their score is NULL and their rendering
// is empty, which downstream renders as the indeterminate sentinel.
func (r *Repository) SaveResults(ctx context.Context, runID uuid.UUID, results []batch.SymbolResult) error {
	if len(results) == 0 {
		return nil
	}

	query := `
		INSERT INTO data.consistency_results (symbol, score, rendering, run_id, analyzed_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (symbol) DO UPDATE SET
			score = EXCLUDED.score,
			rendering = EXCLUDED.rendering,
			run_id = EXCLUDED.run_id,
			analyzed_at = NOW()
	`

	batchReq := &pgx.Batch{}
	for _, res := range results {
		var score *int
		if n, known := res.Result.Score.Count(); known {
			score = &n
		}
		batchReq.Queue(query, res.Symbol, score, res.Result.Rendering, runID)
	}

	batchResults := r.db.SendBatch(ctx, batchReq)
	defer batchResults.Close()

	for range results {
		if _, err := batchResults.Exec(); err != nil {
			return fmt.Errorf("upsert consistency result: %w", err)
		}
	}

	return nil
}

// StockSummary is one row of the screener listing
type StockSummary struct {
	Symbol     string
	Sector     string
	MarketCap  decimal.Decimal
	Score      dividend.Score
	AnalyzedAt *time.Time
}

// GetStockSummaries returns the dividend-paying universe sorted by market
// cap descending, each with its latest consistency score when present.
func (r *Repository) GetStockSummaries(ctx context.Context) ([]StockSummary, error) {
	query := `
		SELECT s.symbol, s.sector, s.market_cap, cr.score, cr.analyzed_at
		FROM data.stocks s
		LEFT JOIN data.consistency_results cr ON cr.symbol = s.symbol
		WHERE s.status = 'active'
		  AND EXISTS (SELECT 1 FROM data.dividend_events e WHERE e.symbol = s.symbol)
		ORDER BY s.market_cap DESC, s.symbol
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stock summaries: %w", err)
	}
	defer rows.Close()

	var summaries []StockSummary
	for rows.Next() {
		var sum StockSummary
		var score *int
		if err := rows.Scan(&sum.Symbol, &sum.Sector, &sum.MarketCap, &score, &sum.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("scan stock summary: %w", err)
		}
		if score != nil {
			sum.Score = dividend.Known(*score)
		}
		summaries = append(summaries, sum)
	}

	return summaries, rows.Err()
}

// GetResult loads one symbol's consistency result. Returns pgx.ErrNoRows
// wrapped when the symbol was never analyzed.
func (r *Repository) GetResult(ctx context.Context, symbol string) (dividend.Result, error) {
	query := `SELECT score, rendering FROM data.consistency_results WHERE symbol = $1`

	var score *int
	var rendering string
	if err := r.db.QueryRow(ctx, query, symbol).Scan(&score, &rendering); err != nil {
		return dividend.Result{}, fmt.Errorf("query result for %s: %w", symbol, err)
	}

	result := dividend.Result{Score: dividend.Indeterminate, Rendering: rendering}
	if score != nil {
		result.Score = dividend.Known(*score)
	}

	return result, nil
}
