package dividend

import (
	"sort"
	"time"
)

// ExDateLayout is the ex-dividend date format used by the NASDAQ API (MM/DD/YYYY)
const ExDateLayout = "01/02/2006"

// Record is one raw dividend row as delivered by the fetch/storage layer.
// All fields are strings straight from upstream; nothing is validated yet.
type Record struct {
	ExDate          string `json:"exOrEffDate"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	DeclarationDate string `json:"declarationDate"`
	RecordDate      string `json:"recordDate"`
	PaymentDate     string `json:"paymentDate"`
	Currency        string `json:"currency"`
}

// Event is one declared dividend payment with a valid ex-date.
// Amount and the remaining fields are opaque display values; they are
// never parsed as numbers or currencies.
type Event struct {
	ExDate          time.Time
	Amount          string
	Type            string
	DeclarationDate string
	RecordDate      string
	PaymentDate     string
	Currency        string
}

// Year returns the calendar year of the ex-date
func (e Event) Year() int {
	return e.ExDate.Year()
}

// History is one symbol's dividend events, sorted by ex-date descending.
// It is built fresh per analysis run and never mutated afterwards.
type History []Event

// Normalize converts raw records into a History. Rows whose ex-date does
// not parse as MM/DD/YYYY are dropped silently; the drop count is returned
// so callers can log or assert on it. Duplicate ex-dates are kept as-is:
// a company can declare two dividends with the same ex-date.
func Normalize(records []Record) (History, int) {
	events := make(History, 0, len(records))
	dropped := 0

	for _, rec := range records {
		exDate, err := time.Parse(ExDateLayout, rec.ExDate)
		if err != nil {
			dropped++
			continue
		}

		events = append(events, Event{
			ExDate:          exDate,
			Amount:          rec.Amount,
			Type:            rec.Type,
			DeclarationDate: rec.DeclarationDate,
			RecordDate:      rec.RecordDate,
			PaymentDate:     rec.PaymentDate,
			Currency:        rec.Currency,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].ExDate.After(events[j].ExDate)
	})

	return events, dropped
}
