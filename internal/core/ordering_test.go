package core

import (
	"context"
	"testing"
)

func TestClampTarget(t *testing.T) {
	if clampTarget(-5, 3) != 0 {
		t.Fatalf("negative target should clamp to 0")
	}
	if clampTarget(9, 3) != 3 {
		t.Fatalf("oversized target should clamp to size")
	}
	if clampTarget(2, 3) != 2 {
		t.Fatalf("in-range target should pass through")
	}
}

func TestMidpointPlacement(t *testing.T) {
	if v, ok := midpoint(nil, 0); !ok || v != 0 {
		t.Fatalf("empty column should place at 0, got %v/%v", v, ok)
	}
	records := []columnRecord{{id: "a", index: 0}, {id: "b", index: 1024}}
	if v, ok := midpoint(records, 0); !ok || v != -1024 {
		t.Fatalf("head placement should step below first, got %v", v)
	}
	if v, ok := midpoint(records, 2); !ok || v != 2048 {
		t.Fatalf("tail placement should step above last, got %v", v)
	}
	if v, ok := midpoint(records, 1); !ok || v != 512 {
		t.Fatalf("middle placement should bisect, got %v", v)
	}
	tight := []columnRecord{{id: "a", index: 0}, {id: "b", index: 1e-323}}
	if _, ok := midpoint(tight, 1); ok {
		t.Fatalf("exhausted gap must report no midpoint")
	}
}

func TestPlaceRecordRenormalizesExhaustedGap(t *testing.T) {
	records := []columnRecord{{id: "a", index: 0}, {id: "b", index: 1e-323}}
	updated := make(map[string]float64)
	value, err := placeRecord(records, 1, func(id string, index float64) error {
		updated[id] = index
		return nil
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if updated["a"] != 0 || updated["b"] != sortStep {
		t.Fatalf("expected even respacing, got %v", updated)
	}
	if value <= updated["a"] || value >= updated["b"] {
		t.Fatalf("placed value %v not strictly between respaced neighbors", value)
	}
}

func TestRepeatedHeadInsertionKeepsDistinctIndexes(t *testing.T) {
	svc := NewInMemoryService(nil)
	ctx := context.Background()

	first, _, err := svc.AddJob(ctx, AddJobInput{Company: "C", Position: "P"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	for i := 0; i < 200; i++ {
		if _, _, err := svc.MoveJob(ctx, first.ID, PhaseApplied, 0); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		if _, _, err := svc.AddJob(ctx, AddJobInput{Company: "C", Position: "P"}); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	seen := make(map[float64]string)
	for _, job := range svc.Store().ListJobs() {
		if other, dup := seen[job.SortIndex]; dup {
			t.Fatalf("jobs %s and %s share sort index %v", other, job.ID, job.SortIndex)
		}
		seen[job.SortIndex] = job.ID
	}
}

func TestRepeatedMidpointSplitsEventuallyRenormalize(t *testing.T) {
	svc := NewInMemoryService(nil)
	ctx := context.Background()

	var ids []string
	for _, position := range []string{"head", "tail", "a", "b"} {
		job, _, err := svc.AddJob(ctx, AddJobInput{Company: "C", Position: position})
		if err != nil {
			t.Fatalf("add %s: %v", position, err)
		}
		ids = append(ids, job.ID)
	}
	// Alternately dropping two cards into the same slot halves the gap
	// between the fixed neighbors each time. The column must stay totally
	// ordered all the way through the renormalization threshold.
	for i := 0; i < 1200; i++ {
		moving := ids[2+i%2]
		if _, _, err := svc.MoveJob(ctx, moving, PhaseApplied, 1); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
	}

	jobs := svc.Store().ListJobs()
	if len(jobs) != 4 {
		t.Fatalf("expected 4 jobs, got %d", len(jobs))
	}
	for i := 1; i < len(jobs); i++ {
		if jobs[i-1].SortIndex >= jobs[i].SortIndex {
			t.Fatalf("column order collapsed at %d: %v >= %v", i, jobs[i-1].SortIndex, jobs[i].SortIndex)
		}
	}
}
