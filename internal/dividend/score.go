package dividend

import (
	"encoding/json"
	"strconv"
)

// Score is the yearly dividend cadence for a symbol: either a known
// payments-per-year count, or indeterminate when the history is too short
// or not uniform. The zero value is indeterminate, so a Score can never
// silently act as a count.
type Score struct {
	count int
	known bool
}

// Indeterminate is the sentinel score for "not enough data, or the data
// is not uniform".
var Indeterminate = Score{}

// Known returns a score with a determined payments-per-year count
func Known(n int) Score {
	return Score{count: n, known: true}
}

// Count returns the payments-per-year count and whether it is determined
func (s Score) Count() (int, bool) {
	return s.count, s.known
}

// IsKnown reports whether the score is a determined count
func (s Score) IsKnown() bool {
	return s.known
}

// String renders the count, or "-" when indeterminate
func (s Score) String() string {
	if !s.known {
		return "-"
	}
	return strconv.Itoa(s.count)
}

// MarshalJSON encodes the count as a number, or null when indeterminate
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.known {
		return []byte("null"), nil
	}
	return json.Marshal(s.count)
}

// UnmarshalJSON decodes a number or null produced by MarshalJSON
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Indeterminate
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = Known(n)
	return nil
}
