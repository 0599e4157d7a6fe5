package dividend

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// yearlyRecords builds n quarterly-ish records for a given year
func yearlyRecords(year, n int) []Record {
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		month := (i % 12) + 1
		records = append(records, Record{
			ExDate: fmt.Sprintf("%02d/15/%d", month, year),
			Amount: "0.25",
		})
	}
	return records
}

func historyOf(counts map[int]int) History {
	var records []Record
	for year, n := range counts {
		records = append(records, yearlyRecords(year, n)...)
	}
	h, _ := Normalize(records)
	return h
}

func TestAnalyze_UniformCadence(t *testing.T) {
	// 2020 and 2024 are trimmed as partial boundary years; 2021-2023 all
	// pay 4 times, so the cadence is 4.
	h := historyOf(map[int]int{2020: 4, 2021: 4, 2022: 4, 2023: 4, 2024: 4})

	result := Analyze(h, 2024)
	count, known := result.Score.Count()
	require.True(t, known)
	assert.Equal(t, 4, count)
}

func TestAnalyze_IrregularInteriorYear(t *testing.T) {
	// One extra payment in 2022 makes the interior {4, 5, 4}: not uniform,
	// so the symbol is indeterminate rather than averaged.
	h := historyOf(map[int]int{2020: 4, 2021: 4, 2022: 5, 2023: 4, 2024: 4})

	result := Analyze(h, 2024)
	assert.False(t, result.Score.IsKnown())
}

func TestAnalyze_PartialBoundaryYearsDoNotDisturb(t *testing.T) {
	// Irregular counts in the trimmed boundary years are irrelevant.
	h := historyOf(map[int]int{2020: 1, 2021: 4, 2022: 4, 2023: 4, 2024: 2})

	result := Analyze(h, 2024)
	count, known := result.Score.Count()
	require.True(t, known)
	assert.Equal(t, 4, count)
}

func TestAnalyze_InsufficientHistory(t *testing.T) {
	tests := []struct {
		name   string
		counts map[int]int
	}{
		{"no events", nil},
		{"one distinct year", map[int]int{2023: 4}},
		{"two distinct years", map[int]int{2022: 4, 2023: 4}},
		{"events entirely outside evaluation window", map[int]int{2010: 4, 2011: 4, 2012: 4, 2013: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(historyOf(tt.counts), 2024)
			assert.False(t, result.Score.IsKnown())
			assert.Equal(t, "-", result.Score.String())
		})
	}
}

func TestAnalyze_SameExDateCountsTwice(t *testing.T) {
	// Duplicate ex-dates count twice toward the yearly cadence, so the
	// interior years differ and the score degrades to indeterminate.
	records := append(yearlyRecords(2021, 4), yearlyRecords(2022, 4)...)
	records = append(records, yearlyRecords(2023, 4)...)
	records = append(records, Record{ExDate: "01/15/2022", Amount: "0.25"}) // dup of an existing date
	records = append(records, yearlyRecords(2020, 4)...)
	records = append(records, yearlyRecords(2024, 4)...)

	h, dropped := Normalize(records)
	require.Equal(t, 0, dropped)

	result := Analyze(h, 2024)
	assert.False(t, result.Score.IsKnown())
}

func TestAnalyze_EmptyHistoryRendering(t *testing.T) {
	result := Analyze(nil, 2024)
	assert.False(t, result.Score.IsKnown())
	assert.Equal(t, "", result.Rendering)
}

func TestAnalyze_RenderingWindow(t *testing.T) {
	h, _ := Normalize([]Record{
		{ExDate: "05/10/2014", Amount: "0.10"}, // exactly at the boundary year: included
		{ExDate: "05/10/2013", Amount: "0.09"}, // outside: excluded
		{ExDate: "05/10/2024", Amount: "0.30"},
		{ExDate: "05/10/2019", Amount: "0.20"},
	})

	result := Analyze(h, 2024)

	lines := strings.Split(strings.TrimRight(result.Rendering, "\n"), "\n")
	require.Len(t, lines, 3)

	// Most recent first
	assert.Equal(t, "- 05/10/2024  0.30", lines[0])
	assert.Equal(t, "- 05/10/2019  0.20", lines[1])
	assert.Equal(t, "- 05/10/2014  0.10", lines[2])
	assert.NotContains(t, result.Rendering, "2013")
}

func TestAnalyze_OrderIndependent(t *testing.T) {
	records := []Record{
		{ExDate: "05/10/2024", Amount: "0.30"},
		{ExDate: "05/10/2019", Amount: "0.20"},
		{ExDate: "05/10/2014", Amount: "0.10"},
	}

	reversed := []Record{records[2], records[1], records[0]}

	ha, _ := Normalize(records)
	hb, _ := Normalize(reversed)

	assert.Equal(t, Analyze(ha, 2024), Analyze(hb, 2024))
}

func TestAnalyze_Idempotent(t *testing.T) {
	h := historyOf(map[int]int{2020: 4, 2021: 4, 2022: 4, 2023: 4, 2024: 4})

	first := Analyze(h, 2024)
	second := Analyze(h, 2024)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Rendering, second.Rendering)
}

func TestAnalyze_MalformedDatesNeverSurface(t *testing.T) {
	records := append(yearlyRecords(2021, 4), Record{ExDate: "not-a-date", Amount: "9.99"})
	records = append(records, yearlyRecords(2020, 4)...)
	records = append(records, yearlyRecords(2022, 4)...)
	records = append(records, yearlyRecords(2023, 4)...)
	records = append(records, yearlyRecords(2024, 4)...)

	result, dropped := AnalyzeRecords(records, 2024)
	assert.Equal(t, 1, dropped)
	assert.NotContains(t, result.Rendering, "9.99")

	count, known := result.Score.Count()
	require.True(t, known)
	assert.Equal(t, 4, count)
}

func TestAnalyzeRecords_EmptyInput(t *testing.T) {
	result, dropped := AnalyzeRecords(nil, 2024)
	assert.Equal(t, 0, dropped)
	assert.False(t, result.Score.IsKnown())
	assert.Equal(t, "", result.Rendering)
}
