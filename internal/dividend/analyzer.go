package dividend

import (
	"fmt"
	"sort"
	"strings"
)

// Window sizes in trailing calendar years, inclusive of the current year.
// The evaluation window judges cadence; the wider rendering window only
// feeds the display history.
const (
	evalWindowYears   = 5
	renderWindowYears = 10
)

// Result is the per-symbol output of the analyzer
type Result struct {
	Score     Score
	Rendering string
}

// Analyze derives the consistency score and display history for one
// symbol. currentYear is an explicit input so the windowing is
// deterministic; the analyzer never reads the wall clock.
func Analyze(h History, currentYear int) Result {
	return Result{
		Score:     cadence(h, currentYear),
		Rendering: render(h, currentYear),
	}
}

// AnalyzeRecords runs the full normalize-then-analyze pipeline for one
// symbol. Any panic inside the per-symbol computation degrades to an
// indeterminate result with empty rendering; one corrupt symbol must not
// fail the batch.
func AnalyzeRecords(records []Record, currentYear int) (res Result, dropped int) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Score: Indeterminate, Rendering: ""}
			dropped = 0
		}
	}()

	h, dropped := Normalize(records)
	return Analyze(h, currentYear), dropped
}

// cadence computes the payments-per-year count over the evaluation window.
//
// Distinct years in the window must number at least three: with fewer
// there is no year strictly between the first and last, and both boundary
// years are presumed partial (current year-to-date, and the oldest year
// clipped by the window). The boundary years are trimmed and the interior
// years must all carry the same event count, otherwise the cadence is
// indeterminate. A special dividend in any interior year therefore marks
// the whole symbol indeterminate; this measures consistency, not an
// average.
func cadence(h History, currentYear int) Score {
	cutoff := currentYear - evalWindowYears

	counts := make(map[int]int)
	for _, ev := range h {
		if y := ev.Year(); y >= cutoff {
			counts[y]++
		}
	}

	if len(counts) < 3 {
		return Indeterminate
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	// Trim the presumed-partial boundary years
	interior := years[1 : len(years)-1]
	if len(interior) == 0 {
		return Indeterminate
	}

	want := counts[interior[0]]
	for _, y := range interior[1:] {
		if counts[y] != want {
			return Indeterminate
		}
	}

	return Known(want)
}

// render produces the bounded display history: one markdown list line per
// event inside the rendering window, most recent first. Empty history
// renders as the empty string, not a placeholder.
func render(h History, currentYear int) string {
	cutoff := currentYear - renderWindowYears

	recent := make([]Event, 0, len(h))
	for _, ev := range h {
		if ev.Year() >= cutoff {
			recent = append(recent, ev)
		}
	}

	if len(recent) == 0 {
		return ""
	}

	// The analyzer is order-independent; sort here rather than trusting
	// the input ordering.
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].ExDate.After(recent[j].ExDate)
	})

	var b strings.Builder
	for _, ev := range recent {
		fmt.Fprintf(&b, "- %s  %s\n", ev.ExDate.Format(ExDateLayout), ev.Amount)
	}

	return b.String()
}
