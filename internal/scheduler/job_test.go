package scheduler

import (
	"testing"
	"time"
)

func TestJobHistoryAddResult(t *testing.T) {
	history := &JobHistory{}

	for i := 0; i < 150; i++ {
		history.AddResult(JobResult{
			JobName:   "dividend_collection",
			StartTime: time.Now(),
			Success:   i%2 == 0,
		})
	}

	if len(history.Results) != 100 {
		t.Errorf("Expected history capped at 100, got %d", len(history.Results))
	}
}

func TestJobHistoryLatestResults(t *testing.T) {
	history := &JobHistory{}

	for i := 0; i < 5; i++ {
		history.AddResult(JobResult{JobName: "csv_export", Success: true})
	}

	latest := history.GetLatestResults(10)
	if len(latest) != 5 {
		t.Errorf("Expected 5 results, got %d", len(latest))
	}

	latest = history.GetLatestResults(3)
	if len(latest) != 3 {
		t.Errorf("Expected 3 results, got %d", len(latest))
	}

	empty := (&JobHistory{}).GetLatestResults(3)
	if len(empty) != 0 {
		t.Errorf("Expected no results, got %d", len(empty))
	}
}

func TestJobHistorySuccessRate(t *testing.T) {
	history := &JobHistory{}

	if rate := history.GetSuccessRate(); rate != 0.0 {
		t.Errorf("Expected 0.0 for empty history, got %f", rate)
	}

	history.AddResult(JobResult{Success: true})
	history.AddResult(JobResult{Success: true})
	history.AddResult(JobResult{Success: false})
	history.AddResult(JobResult{Success: false})

	if rate := history.GetSuccessRate(); rate != 0.5 {
		t.Errorf("Expected 0.5, got %f", rate)
	}

	failed := history.GetFailedResults()
	if len(failed) != 2 {
		t.Errorf("Expected 2 failed results, got %d", len(failed))
	}
}
