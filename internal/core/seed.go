package core

import (
	"context"
	"time"

	"jobdeck/pkg/domain"
)

// DemoDocument returns the fixed demo dataset used by demos and the
// end-to-end acceptance tests. IDs and timestamps are stable so tests can
// assert exact view output.
func DemoDocument() domain.Document {
	base := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	date := func(d int) *time.Time {
		t := base.AddDate(0, 0, d)
		return &t
	}
	stamp := func(b domain.Base) domain.Base {
		b.CreatedAt = base
		b.UpdatedAt = base
		return b
	}
	jobAtlas := "job-atlas"
	jobNorthwind := "job-northwind"

	return domain.Document{
		Version: domain.DocumentVersion,
		Jobs: []domain.Job{
			{
				Base:         stamp(domain.Base{ID: jobAtlas}),
				Company:      "Atlas Robotics",
				Position:     "Backend Engineer",
				Priority:     domain.PriorityHigh,
				Phase:        domain.PhaseApplied,
				CurrentStep:  "waiting for recruiter reply",
				NextTaskDate: date(2),
				ContactIDs:   []string{"contact-rivera"},
				SalaryRange:  "95k-115k",
				Location:     "Berlin",
				Notes: []domain.Note{
					{Text: "applied via referral", CreatedAt: base},
				},
				SortIndex: 0,
			},
			{
				Base:         stamp(domain.Base{ID: jobNorthwind}),
				Company:      "Northwind Data",
				Position:     "Platform Engineer",
				Priority:     domain.PriorityMedium,
				Phase:        domain.PhaseInterview,
				CurrentStep:  "prepare system design round",
				NextTaskDate: date(2),
				SalaryRange:  "100k-120k",
				Location:     "Remote",
				SortIndex:    0,
			},
			{
				Base:        stamp(domain.Base{ID: "job-ferris"}),
				Company:     "Ferris Works",
				Position:    "Site Reliability Engineer",
				Priority:    domain.PriorityMedium,
				Phase:       domain.PhaseOffer,
				CurrentStep: "review offer letter",
				SalaryRange: "110k-130k",
				Location:    "Amsterdam",
				SortIndex:   0,
			},
		},
		Tasks: []domain.Task{
			{
				Base:      stamp(domain.Base{ID: "task-cover-letter"}),
				JobID:     &jobAtlas,
				Title:     "Tailor cover letter",
				Status:    domain.StatusTodo,
				DueDate:   date(1),
				SortIndex: 0,
			},
			{
				Base:      stamp(domain.Base{ID: "task-mock-interview"}),
				JobID:     &jobNorthwind,
				Title:     "Schedule mock interview",
				Status:    domain.StatusInProgress,
				DueDate:   date(2),
				SortIndex: 0,
			},
			{
				Base:      stamp(domain.Base{ID: "task-update-cv"}),
				Title:     "Update CV with latest project",
				Status:    domain.StatusDone,
				SortIndex: 0,
			},
		},
		Contacts: []domain.Contact{
			{
				Base:   stamp(domain.Base{ID: "contact-rivera"}),
				Name:   "Sam Rivera",
				Email:  "sam.rivera@atlasrobotics.example",
				Phone:  "+49 30 1234567",
				JobIDs: []string{jobAtlas},
			},
		},
	}
}

// SeedDemoData replaces the store state with the demo dataset.
func (s *Service) SeedDemoData(ctx context.Context) error {
	return s.run(ctx, "seed_demo", func(context.Context) error {
		return s.store.ImportDocument(DemoDocument())
	})
}
