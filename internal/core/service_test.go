package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobdeck/pkg/domain"
)

func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	now := time.Date(2025, time.May, 5, 10, 0, 0, 0, time.UTC)
	svc := NewInMemoryService(nil, WithClock(ClockFunc(func() time.Time { return now })))
	return svc, &now
}

func TestAddJobDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	job, _, err := svc.AddJob(context.Background(), AddJobInput{Company: "Atlas", Position: "Engineer"})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	if job.Phase != PhaseApplied {
		t.Fatalf("expected default phase applied, got %s", job.Phase)
	}
	if job.Priority != PriorityMedium {
		t.Fatalf("expected default priority medium, got %s", job.Priority)
	}
	if job.ID == "" || job.CreatedAt.IsZero() {
		t.Fatalf("expected identity and timestamps")
	}
}

func TestAddJobValidation(t *testing.T) {
	svc, _ := newTestService(t)
	var invalid domain.ValidationError
	if _, _, err := svc.AddJob(context.Background(), AddJobInput{Position: "Engineer"}); !errors.As(err, &invalid) {
		t.Fatalf("expected validation error for missing company, got %v", err)
	}
	if _, _, err := svc.AddJob(context.Background(), AddJobInput{Company: "Atlas", Position: "E", Phase: "ghosted"}); !errors.As(err, &invalid) {
		t.Fatalf("expected validation error for unknown phase, got %v", err)
	}
	if len(svc.Store().ListJobs()) != 0 {
		t.Fatalf("rejected inputs must not create jobs")
	}
}

func TestAddJobAppendsToColumnTail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	first, _, err := svc.AddJob(ctx, AddJobInput{Company: "A", Position: "P"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, _, err := svc.AddJob(ctx, AddJobInput{Company: "B", Position: "P"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if second.SortIndex <= first.SortIndex {
		t.Fatalf("expected tail placement: %v <= %v", second.SortIndex, first.SortIndex)
	}
}

func TestEditJobPatchSemantics(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()
	next := now.Add(48 * time.Hour)
	job, _, err := svc.AddJob(ctx, AddJobInput{Company: "Atlas", Position: "Engineer", Location: "Berlin", NextTaskDate: &next})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	company := "Atlas Robotics"
	updated, _, err := svc.EditJob(ctx, job.ID, JobPatch{Company: &company})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.Company != "Atlas Robotics" {
		t.Fatalf("patched field lost")
	}
	if updated.Location != "Berlin" || updated.NextTaskDate == nil {
		t.Fatalf("unset patch fields must not change values")
	}

	updated, _, err = svc.EditJob(ctx, job.ID, JobPatch{ClearNextTaskDate: true})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if updated.NextTaskDate != nil {
		t.Fatalf("expected cleared next task date")
	}

	var notFound domain.NotFoundError
	if _, _, err := svc.EditJob(ctx, "missing", JobPatch{Company: &company}); !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteJobCascades(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	job, _, err := svc.AddJob(ctx, AddJobInput{Company: "Atlas", Position: "Engineer"})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	linked, _, err := svc.AddTask(ctx, AddTaskInput{JobID: &job.ID, Title: "prep"})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	standalone, _, err := svc.AddTask(ctx, AddTaskInput{Title: "update cv"})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	contact, _, err := svc.AddContact(ctx, AddContactInput{Name: "Sam"})
	if err != nil {
		t.Fatalf("add contact: %v", err)
	}
	if _, _, err := svc.LinkContactToJob(ctx, contact.ID, job.ID); err != nil {
		t.Fatalf("link: %v", err)
	}

	if _, err := svc.DeleteJob(ctx, job.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := svc.Store().GetJob(job.ID); ok {
		t.Fatalf("job survived delete")
	}
	if _, ok := svc.Store().GetTask(linked.ID); ok {
		t.Fatalf("linked task must be deleted with its job")
	}
	if _, ok := svc.Store().GetTask(standalone.ID); !ok {
		t.Fatalf("standalone task must survive")
	}
	survivor, ok := svc.Store().GetContact(contact.ID)
	if !ok {
		t.Fatalf("contact must survive job deletion")
	}
	if len(survivor.JobIDs) != 0 {
		t.Fatalf("contact still references deleted job: %v", survivor.JobIDs)
	}
}

func TestMoveJobRoundTripKeepsState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	job, _, err := svc.AddJob(ctx, AddJobInput{Company: "Atlas", Position: "Engineer", Location: "Berlin"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	moved, _, err := svc.MoveJob(ctx, job.ID, PhaseInterview, 0)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.Phase != PhaseInterview {
		t.Fatalf("expected interview phase, got %s", moved.Phase)
	}
	back, _, err := svc.MoveJob(ctx, job.ID, PhaseApplied, 0)
	if err != nil {
		t.Fatalf("move back: %v", err)
	}
	if back.Phase != PhaseApplied || back.Location != "Berlin" {
		t.Fatalf("round trip lost fields: %+v", back)
	}

	var invalid domain.InvalidTransitionError
	if _, _, err := svc.MoveJob(ctx, job.ID, "ghosted", 0); !errors.As(err, &invalid) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

func TestMoveJobInPlaceRefreshesUpdatedAt(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()
	job, _, err := svc.AddJob(ctx, AddJobInput{Company: "Atlas", Position: "Engineer"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	*now = now.Add(time.Hour)
	moved, _, err := svc.MoveJob(ctx, job.ID, job.Phase, 0)
	if err != nil {
		t.Fatalf("move in place: %v", err)
	}
	if moved.Phase != job.Phase {
		t.Fatalf("in-place move changed phase")
	}
	if !moved.UpdatedAt.After(job.UpdatedAt) {
		t.Fatalf("in-place move must refresh UpdatedAt")
	}
}

func TestAddTaskRequiresExistingJob(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	missing := "missing"
	var notFound domain.NotFoundError
	if _, _, err := svc.AddTask(ctx, AddTaskInput{JobID: &missing, Title: "x"}); !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	task, _, err := svc.AddTask(ctx, AddTaskInput{Title: "standalone"})
	if err != nil {
		t.Fatalf("standalone task: %v", err)
	}
	if task.Status != StatusTodo {
		t.Fatalf("expected default status todo, got %s", task.Status)
	}
	if task.JobID != nil {
		t.Fatalf("standalone task must have no parent")
	}
}

func TestEditTaskPatchSemantics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	job, _, err := svc.AddJob(ctx, AddJobInput{Company: "Acme", Position: "SRE"})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	task, _, err := svc.AddTask(ctx, AddTaskInput{Title: "prep", JobID: &job.ID, DueDate: &due})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}

	title := "prep call"
	updated, _, err := svc.EditTask(ctx, task.ID, TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("edit title: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title not applied, got %q", updated.Title)
	}
	if updated.JobID == nil || *updated.JobID != job.ID {
		t.Fatalf("patch must not touch unrelated fields")
	}

	missing := "missing"
	var notFound domain.NotFoundError
	if _, _, err := svc.EditTask(ctx, task.ID, TaskPatch{JobID: &missing}); !errors.As(err, &notFound) {
		t.Fatalf("expected not found for dangling parent, got %v", err)
	}

	updated, _, err = svc.EditTask(ctx, task.ID, TaskPatch{ClearJobID: true, ClearDueDate: true})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if updated.JobID != nil {
		t.Fatalf("job link not cleared")
	}
	if updated.DueDate != nil {
		t.Fatalf("due date not cleared")
	}

	if _, err := svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.DeleteTask(ctx, task.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestMoveTaskAcrossColumns(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	task, _, err := svc.AddTask(ctx, AddTaskInput{Title: "prep"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	done, _, err := svc.MoveTask(ctx, task.ID, StatusDone, 0)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if done.Status != StatusDone {
		t.Fatalf("expected done, got %s", done.Status)
	}
	if done.Status.Open() {
		t.Fatalf("done task still counts as open")
	}
}

func TestLinkContactToJobIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	job, _, err := svc.AddJob(ctx, AddJobInput{Company: "Atlas", Position: "Engineer"})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	contact, _, err := svc.AddContact(ctx, AddContactInput{Name: "Sam", Email: "sam@example.com"})
	if err != nil {
		t.Fatalf("add contact: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, _, err := svc.LinkContactToJob(ctx, contact.ID, job.ID); err != nil {
			t.Fatalf("link %d: %v", i, err)
		}
	}
	linked, _ := svc.Store().GetContact(contact.ID)
	if len(linked.JobIDs) != 1 {
		t.Fatalf("expected single link, got %v", linked.JobIDs)
	}
	owner, _ := svc.Store().GetJob(job.ID)
	if len(owner.ContactIDs) != 1 || owner.ContactIDs[0] != contact.ID {
		t.Fatalf("expected reverse link, got %v", owner.ContactIDs)
	}
}

func TestAddContactValidatesEmail(t *testing.T) {
	svc, _ := newTestService(t)
	var invalid domain.ValidationError
	if _, _, err := svc.AddContact(context.Background(), AddContactInput{Name: "Sam", Email: "not-an-email"}); !errors.As(err, &invalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAppendNote(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	job, _, err := svc.AddJob(ctx, AddJobInput{Company: "Atlas", Position: "Engineer"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	var invalid domain.ValidationError
	if _, _, err := svc.AppendNote(ctx, job.ID, "   "); !errors.As(err, &invalid) {
		t.Fatalf("expected validation error for blank note, got %v", err)
	}

	updated, _, err := svc.AppendNote(ctx, job.ID, "  spoke to recruiter  ")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(updated.Notes) != 1 || updated.Notes[0].Text != "spoke to recruiter" {
		t.Fatalf("expected trimmed note, got %+v", updated.Notes)
	}
	again, _, err := svc.AppendNote(ctx, job.ID, "second")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(again.Notes) != 2 || again.Notes[0].Text != "spoke to recruiter" {
		t.Fatalf("notes must be append-only, got %+v", again.Notes)
	}
}
