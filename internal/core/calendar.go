package core

import (
	"context"
	"sort"
	"time"
)

// The calendar aggregator buckets jobs (by next task date) and tasks (by
// due date) into per-day event lists. Day, week, and month views are just
// different range queries over the same bucketing; there is exactly one
// bucketing function.

// EventSource tells which entity type produced a calendar event.
type EventSource string

// Event sources. Same-day ordering puts job events before task events.
const (
	EventSourceJob  EventSource = "job"
	EventSourceTask EventSource = "task"
)

// Event is one dated calendar entry.
type Event struct {
	Date      time.Time
	Source    EventSource
	ID        string
	Title     string
	SortIndex float64
}

// DayKey is the canonical map key for a calendar day.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// eventDay truncates a timestamp to its UTC day.
func eventDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildCalendarEvents buckets every dated record within [start, end)
// into day keys. Each day's list is totally ordered: job events first,
// then sort index, then id, so rendering is deterministic.
func BuildCalendarEvents(view TransactionView, start, end time.Time) map[string][]Event {
	start, end = eventDay(start), eventDay(end)
	inRange := func(t time.Time) bool {
		day := eventDay(t)
		return !day.Before(start) && day.Before(end)
	}

	buckets := make(map[string][]Event)
	for _, job := range view.ListJobs() {
		if job.NextTaskDate == nil || !inRange(*job.NextTaskDate) {
			continue
		}
		day := eventDay(*job.NextTaskDate)
		buckets[DayKey(day)] = append(buckets[DayKey(day)], Event{
			Date:      day,
			Source:    EventSourceJob,
			ID:        job.ID,
			Title:     job.Company + ": " + job.Position,
			SortIndex: job.SortIndex,
		})
	}
	for _, task := range view.ListTasks() {
		if task.DueDate == nil || !inRange(*task.DueDate) {
			continue
		}
		day := eventDay(*task.DueDate)
		buckets[DayKey(day)] = append(buckets[DayKey(day)], Event{
			Date:      day,
			Source:    EventSourceTask,
			ID:        task.ID,
			Title:     task.Title,
			SortIndex: task.SortIndex,
		})
	}
	for key := range buckets {
		events := buckets[key]
		sort.Slice(events, func(i, j int) bool {
			if events[i].Source != events[j].Source {
				return events[i].Source == EventSourceJob
			}
			if events[i].SortIndex != events[j].SortIndex {
				return events[i].SortIndex < events[j].SortIndex
			}
			return events[i].ID < events[j].ID
		})
		buckets[key] = events
	}
	return buckets
}

// DayRange returns the half-open range covering the day of t.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := eventDay(t)
	return start, start.AddDate(0, 0, 1)
}

// WeekRange returns the half-open range covering the Monday-start week of t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	day := eventDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// MonthRange returns the half-open range covering the month of t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// GetCalendarEvents returns the calendar projection for [start, end).
func (s *Service) GetCalendarEvents(ctx context.Context, start, end time.Time) (map[string][]Event, error) {
	var events map[string][]Event
	err := s.store.View(ctx, func(view TransactionView) error {
		events = BuildCalendarEvents(view, start, end)
		return nil
	})
	return events, err
}
