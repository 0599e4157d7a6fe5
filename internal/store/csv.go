package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaylee-quant/divscan/internal/dividend"
)

// csvHeader matches the column layout of the upstream dividend endpoint
var csvHeader = []string{
	"Ex-Dividend Date", "Type", "Amount",
	"Declaration Date", "Record Date", "Payment Date", "Currency",
}

// WriteDividendCSV writes one symbol's raw records to <dir>/<symbol>.csv.
// A symbol without records still gets a header-only file so a later
// import can tell "fetched, empty" from "never fetched".
func WriteDividendCSV(dir, symbol string, records []dividend.Record) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, symbol+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.ExDate, rec.Type, rec.Amount,
			rec.DeclarationDate, rec.RecordDate, rec.PaymentDate, rec.Currency,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	return nil
}

// ReadDividendCSV reads one symbol's raw records back from a CSV file
func ReadDividendCSV(path string) ([]dividend.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(rows) <= 1 {
		// Header only, or empty file
		return nil, nil
	}

	records := make([]dividend.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(csvHeader) {
			continue
		}
		records = append(records, dividend.Record{
			ExDate:          row[0],
			Type:            row[1],
			Amount:          row[2],
			DeclarationDate: row[3],
			RecordDate:      row[4],
			PaymentDate:     row[5],
			Currency:        row[6],
		})
	}

	return records, nil
}

// PruneEmptyCSVs removes header-only CSV files from dir and returns the
// symbols that still have dividend data. Mirrors the cleanup pass that
// keeps the export directory to actual dividend payers.
func PruneEmptyCSVs(dir string) (kept []string, removed int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read export dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		records, err := ReadDividendCSV(path)
		if err != nil {
			// Unreadable files are skipped, not fatal
			continue
		}

		symbol := strings.TrimSuffix(entry.Name(), ".csv")
		if len(records) > 0 {
			kept = append(kept, symbol)
			continue
		}

		if err := os.Remove(path); err == nil {
			removed++
		}
	}

	return kept, removed, nil
}
