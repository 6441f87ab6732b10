package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"jobdeck/pkg/domain"
)

func frozenClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStoreRunInTransactionAndSnapshots(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.FindJob("missing"); ok {
			t.Fatalf("expected missing job lookup")
		}
		created, err := tx.CreateJob(domain.Job{Company: "Atlas", Position: "Engineer", Phase: domain.PhaseApplied, Priority: domain.PriorityLow})
		if err != nil {
			return err
		}
		if created.ID == "" {
			t.Fatalf("expected generated ID")
		}
		if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
			t.Fatalf("expected stamped timestamps")
		}
		view := tx.Snapshot()
		if len(view.ListJobs()) != 1 {
			t.Fatalf("snapshot mismatch")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run transaction: %v", err)
	}
	if len(store.ListJobs()) != 1 {
		t.Fatalf("expected committed job")
	}
	if store.RulesEngine() == nil {
		t.Fatalf("expected rules engine")
	}
	if store.NowFunc() == nil {
		t.Fatalf("expected now func")
	}
}

func TestStoreRollsBackOnError(t *testing.T) {
	store := NewStore(nil)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateJob(domain.Job{Company: "C", Position: "P", Phase: domain.PhaseApplied, Priority: domain.PriorityLow}); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(store.ListJobs()) != 0 {
		t.Fatalf("failed transaction must not commit")
	}
}

type blockingRule struct{}

func (blockingRule) Name() string { return "block" }

func (blockingRule) Evaluate(ctx context.Context, view domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	return domain.Result{Violations: []domain.Violation{{Rule: "block", Severity: domain.SeverityBlock}}}, nil
}

func TestStoreBlockingRuleAbortsCommit(t *testing.T) {
	store := NewStore(domain.NewRulesEngine())
	store.RulesEngine().Register(blockingRule{})
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, e := tx.CreateJob(domain.Job{Company: "C", Position: "P", Phase: domain.PhaseApplied, Priority: domain.PriorityLow})
		return e
	})
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected rule violation error, got %v", err)
	}
	if len(store.ListJobs()) != 0 {
		t.Fatalf("blocked transaction must not commit")
	}
}

func TestUpdatePreservesIdentityAndStampsUpdatedAt(t *testing.T) {
	store := NewStore(nil)
	t0 := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	store.SetNowFunc(frozenClock(t0))

	var created domain.Job
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		var e error
		created, e = tx.CreateJob(domain.Job{Company: "C", Position: "P", Phase: domain.PhaseApplied, Priority: domain.PriorityLow})
		return e
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	t1 := t0.Add(time.Hour)
	store.SetNowFunc(frozenClock(t1))
	var updated domain.Job
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		var e error
		updated, e = tx.UpdateJob(created.ID, func(j *domain.Job) error {
			j.Company = "Changed"
			j.ID = "hijack"
			j.CreatedAt = t1
			return nil
		})
		return e
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("mutator must not change identity")
	}
	if !updated.CreatedAt.Equal(t0) {
		t.Fatalf("mutator must not change creation time")
	}
	if !updated.UpdatedAt.Equal(t1) {
		t.Fatalf("expected UpdatedAt %v, got %v", t1, updated.UpdatedAt)
	}
	if updated.Company != "Changed" {
		t.Fatalf("mutation lost")
	}
}

func TestUpdateMissingAndMutatorErrors(t *testing.T) {
	store := NewStore(nil)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.UpdateTask("missing", func(*domain.Task) error { return nil }); err == nil {
			t.Fatalf("expected missing task error")
		}
		task, err := tx.CreateTask(domain.Task{Title: "x", Status: domain.StatusTodo})
		if err != nil {
			return err
		}
		if _, err := tx.UpdateTask(task.ID, func(*domain.Task) error { return fmt.Errorf("boom") }); err == nil {
			t.Fatalf("expected mutator error")
		}
		if err := tx.DeleteTask("missing"); err == nil {
			t.Fatalf("expected missing delete error")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run transaction: %v", err)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	store := NewStore(nil)
	jobID := ""
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		job, err := tx.CreateJob(domain.Job{Company: "C", Position: "P", Phase: domain.PhaseApplied, Priority: domain.PriorityLow})
		if err != nil {
			return err
		}
		jobID = job.ID
		if _, err := tx.CreateTask(domain.Task{JobID: &job.ID, Title: "t", Status: domain.StatusTodo}); err != nil {
			return err
		}
		_, err = tx.CreateContact(domain.Contact{Name: "N"})
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	doc := store.ExportDocument()
	if doc.Version != domain.DocumentVersion {
		t.Fatalf("expected exported version %d, got %d", domain.DocumentVersion, doc.Version)
	}
	if len(doc.Jobs) != 1 || len(doc.Tasks) != 1 || len(doc.Contacts) != 1 {
		t.Fatalf("export mismatch: %d/%d/%d", len(doc.Jobs), len(doc.Tasks), len(doc.Contacts))
	}

	other := NewStore(nil)
	if err := other.ImportDocument(doc); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, ok := other.GetJob(jobID); !ok {
		t.Fatalf("expected imported job")
	}
	if len(other.ListTasks()) != 1 || len(other.ListContacts()) != 1 {
		t.Fatalf("import dropped records")
	}
}

func TestReadsReturnClones(t *testing.T) {
	store := NewStore(nil)
	var id string
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		job, err := tx.CreateJob(domain.Job{
			Company:    "C",
			Position:   "P",
			Phase:      domain.PhaseApplied,
			Priority:   domain.PriorityLow,
			ContactIDs: []string{"c1"},
			Notes:      []domain.Note{{Text: "n"}},
		})
		id = job.ID
		return err
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	job, _ := store.GetJob(id)
	job.ContactIDs[0] = "mutated"
	job.Notes[0].Text = "mutated"

	again, _ := store.GetJob(id)
	if again.ContactIDs[0] != "c1" || again.Notes[0].Text != "n" {
		t.Fatalf("committed state leaked through returned slices")
	}
}

func TestListJobsOrderedByColumnThenIndex(t *testing.T) {
	store := NewStore(nil)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		for _, j := range []domain.Job{
			{Company: "C", Position: "P", Phase: domain.PhaseOffer, Priority: domain.PriorityLow, SortIndex: 0},
			{Company: "C", Position: "P", Phase: domain.PhaseApplied, Priority: domain.PriorityLow, SortIndex: 2048},
			{Company: "C", Position: "P", Phase: domain.PhaseApplied, Priority: domain.PriorityLow, SortIndex: 1024},
		} {
			if _, err := tx.CreateJob(j); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	jobs := store.ListJobs()
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs")
	}
	if jobs[0].Phase != domain.PhaseApplied || jobs[0].SortIndex != 1024 {
		t.Fatalf("expected applied column head first, got %s/%v", jobs[0].Phase, jobs[0].SortIndex)
	}
	if jobs[2].Phase != domain.PhaseOffer {
		t.Fatalf("expected offer column last")
	}
}
