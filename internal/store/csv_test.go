package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaylee-quant/divscan/internal/dividend"
)

func sampleRecords() []dividend.Record {
	return []dividend.Record{
		{
			ExDate:          "02/10/2025",
			Type:            "Cash",
			Amount:          "$0.25",
			DeclarationDate: "01/30/2025",
			RecordDate:      "02/10/2025",
			PaymentDate:     "02/13/2025",
			Currency:        "USD",
		},
		{
			ExDate: "11/08/2024",
			Type:   "Cash",
			Amount: "$0.25",
		},
	}
}

func TestWriteReadDividendCSV(t *testing.T) {
	dir := t.TempDir()

	records := sampleRecords()
	require.NoError(t, WriteDividendCSV(dir, "AAPL", records))

	back, err := ReadDividendCSV(filepath.Join(dir, "AAPL.csv"))
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestReadDividendCSV_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDividendCSV(dir, "GOOG", nil))

	records, err := ReadDividendCSV(filepath.Join(dir, "GOOG.csv"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPruneEmptyCSVs(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteDividendCSV(dir, "AAPL", sampleRecords()))
	require.NoError(t, WriteDividendCSV(dir, "GOOG", nil))
	require.NoError(t, WriteDividendCSV(dir, "MSFT", sampleRecords()))

	// Non-CSV files are left alone
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	kept, removed, err := PruneEmptyCSVs(dir)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"AAPL", "MSFT"}, kept)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(dir, "GOOG.csv"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
}
