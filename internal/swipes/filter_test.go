package swipes

import (
	"testing"
	"time"

	"github.com/libster-app/libster/internal/analyzer"
)

func TestFilterByDate(t *testing.T) {
	records := []analyzer.RawSwipe{
		{Date: "31/12/2024", Time: "10:00", Direction: "in"},
		{Date: "01/01/2025", Time: "10:00", Direction: "in"},
		{Date: "15/01/2025", Time: "10:00", Direction: "in"},
		{Date: "31/01/2025", Time: "10:00", Direction: "out"},
		{Date: "01/02/2025", Time: "10:00", Direction: "in"},
		{Date: "garbage", Time: "10:00", Direction: "in"},
	}
	from := analyzer.Date(2025, time.January, 1)
	to := analyzer.Date(2025, time.January, 31)

	got := FilterByDate(records, from, to)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(got), got)
	}
	if got[0].Date != "01/01/2025" || got[2].Date != "31/01/2025" {
		t.Errorf("bounds should be inclusive, got %+v", got)
	}
}

func TestFilterByDate_OpenBounds(t *testing.T) {
	records := []analyzer.RawSwipe{
		{Date: "31/12/2024", Time: "10:00", Direction: "in"},
		{Date: "01/02/2025", Time: "10:00", Direction: "in"},
	}

	if got := FilterByDate(records, time.Time{}, time.Time{}); len(got) != 2 {
		t.Errorf("no bounds should keep everything, got %d", len(got))
	}
	got := FilterByDate(records, analyzer.Date(2025, time.January, 1), time.Time{})
	if len(got) != 1 || got[0].Date != "01/02/2025" {
		t.Errorf("open upper bound: got %+v", got)
	}
}
