package core

import (
	"context"
	"testing"
	"time"
)

func TestCalendarBucketsSeededBoard(t *testing.T) {
	svc := seededService(t)
	start, end := MonthRange(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	days, err := svc.GetCalendarEvents(context.Background(), start, end)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 event days in March, got %d: %v", len(days), days)
	}

	fourth := days["2025-03-04"]
	if len(fourth) != 1 || fourth[0].Source != EventSourceTask || fourth[0].ID != "task-cover-letter" {
		t.Fatalf("unexpected events on 2025-03-04: %+v", fourth)
	}

	fifth := days["2025-03-05"]
	if len(fifth) != 3 {
		t.Fatalf("expected 3 events on 2025-03-05, got %d", len(fifth))
	}
	if fifth[0].Source != EventSourceJob || fifth[1].Source != EventSourceJob || fifth[2].Source != EventSourceTask {
		t.Fatalf("job events must sort before task events: %+v", fifth)
	}
	if fifth[0].ID != "job-atlas" || fifth[1].ID != "job-northwind" {
		t.Fatalf("same-day job ordering must be deterministic: %+v", fifth)
	}
	if fifth[0].Title != "Atlas Robotics: Backend Engineer" {
		t.Fatalf("unexpected job event title %q", fifth[0].Title)
	}
}

func TestCalendarRangeIsHalfOpen(t *testing.T) {
	svc := seededService(t)
	// The 5th is excluded: [3rd, 5th) covers only the cover-letter task.
	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	days, err := svc.GetCalendarEvents(context.Background(), start, end)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 event day, got %d: %v", len(days), days)
	}
	if _, ok := days["2025-03-05"]; ok {
		t.Fatalf("end day must be excluded")
	}
}

func TestRangeHelpers(t *testing.T) {
	wednesday := time.Date(2025, time.March, 5, 15, 30, 0, 0, time.UTC)

	start, end := DayRange(wednesday)
	if DayKey(start) != "2025-03-05" || DayKey(end) != "2025-03-06" {
		t.Fatalf("day range mismatch: %s..%s", DayKey(start), DayKey(end))
	}

	start, end = WeekRange(wednesday)
	if DayKey(start) != "2025-03-03" {
		t.Fatalf("week must start on Monday, got %s", DayKey(start))
	}
	if DayKey(end) != "2025-03-10" {
		t.Fatalf("week range must span 7 days, got %s", DayKey(end))
	}
	sunday := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	start, _ = WeekRange(sunday)
	if DayKey(start) != "2025-03-03" {
		t.Fatalf("sunday belongs to the Monday-start week, got %s", DayKey(start))
	}

	start, end = MonthRange(wednesday)
	if DayKey(start) != "2025-03-01" || DayKey(end) != "2025-04-01" {
		t.Fatalf("month range mismatch: %s..%s", DayKey(start), DayKey(end))
	}
}
