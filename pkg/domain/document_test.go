package domain

import (
	"errors"
	"testing"
	"time"
)

func docBase(id string, created time.Time) Base {
	return Base{ID: id, CreatedAt: created, UpdatedAt: created}
}

func TestMigrateVersionOneAssignsColumnOrder(t *testing.T) {
	t0 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	doc := Document{
		Version: 1,
		Jobs: []Job{
			{Base: docBase("j-late", t0.Add(2 * time.Hour)), Company: "C", Position: "P", Priority: PriorityLow, Phase: PhaseApplied},
			{Base: docBase("j-early", t0), Company: "C", Position: "P", Priority: PriorityLow, Phase: PhaseApplied},
			{Base: docBase("j-other", t0.Add(time.Hour)), Company: "C", Position: "P", Priority: PriorityLow, Phase: PhaseOffer},
		},
		Tasks: []Task{
			{Base: docBase("t-b", t0.Add(time.Minute)), Title: "b", Status: StatusTodo},
			{Base: docBase("t-a", t0), Title: "a", Status: StatusTodo},
		},
	}
	if err := doc.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if doc.Version != DocumentVersion {
		t.Fatalf("expected version %d, got %d", DocumentVersion, doc.Version)
	}
	byID := make(map[string]float64)
	for _, job := range doc.Jobs {
		byID[job.ID] = job.SortIndex
	}
	if byID["j-early"] != 0 || byID["j-late"] != 1024 {
		t.Fatalf("applied column not ordered by creation: early=%v late=%v", byID["j-early"], byID["j-late"])
	}
	if byID["j-other"] != 0 {
		t.Fatalf("singleton column should start at 0, got %v", byID["j-other"])
	}
	for _, task := range doc.Tasks {
		byID[task.ID] = task.SortIndex
	}
	if byID["t-a"] != 0 || byID["t-b"] != 1024 {
		t.Fatalf("task column not ordered by creation")
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("migrated document should validate: %v", err)
	}
}

func TestMigrateRejectsUnknownVersions(t *testing.T) {
	future := Document{Version: DocumentVersion + 1}
	var corrupt CorruptStateError
	if err := future.Migrate(); !errors.As(err, &corrupt) {
		t.Fatalf("expected corrupt state error for future version, got %v", err)
	}
	missing := Document{}
	if err := missing.Migrate(); !errors.As(err, &corrupt) {
		t.Fatalf("expected corrupt state error for missing version, got %v", err)
	}
}

func TestValidateCatchesBrokenDocuments(t *testing.T) {
	t0 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	good := func() Document {
		other := "j1"
		return Document{
			Version: DocumentVersion,
			Jobs: []Job{
				{Base: docBase("j1", t0), Company: "C", Position: "P", Priority: PriorityLow, Phase: PhaseApplied},
				{Base: docBase("j2", t0), Company: "C", Position: "P", Priority: PriorityLow, Phase: PhaseApplied, SortIndex: 1024},
			},
			Tasks: []Task{
				{Base: docBase("t1", t0), JobID: &other, Title: "x", Status: StatusTodo},
			},
			Contacts: []Contact{
				{Base: docBase("c1", t0), Name: "N", JobIDs: []string{"j1"}},
			},
		}
	}
	if err := good().Validate(); err != nil {
		t.Fatalf("baseline document should validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Document)
	}{
		{"duplicate job id", func(d *Document) { d.Jobs[1].ID = "j1"; d.Jobs[1].SortIndex = 1 }},
		{"unknown phase", func(d *Document) { d.Jobs[0].Phase = "ghosted" }},
		{"unknown priority", func(d *Document) { d.Jobs[0].Priority = "urgent" }},
		{"unknown task status", func(d *Document) { d.Tasks[0].Status = "blocked" }},
		{"orphan task", func(d *Document) { missing := "gone"; d.Tasks[0].JobID = &missing }},
		{"orphan contact link", func(d *Document) { d.Contacts[0].JobIDs = []string{"gone"} }},
		{"orphan job contact", func(d *Document) { d.Jobs[0].ContactIDs = []string{"gone"} }},
		{"duplicate column index", func(d *Document) { d.Jobs[1].SortIndex = d.Jobs[0].SortIndex }},
		{"empty job id", func(d *Document) { d.Jobs[0].ID = "" }},
	}
	for _, tc := range cases {
		doc := good()
		tc.mutate(&doc)
		var corrupt CorruptStateError
		if err := doc.Validate(); !errors.As(err, &corrupt) {
			t.Fatalf("%s: expected corrupt state error, got %v", tc.name, err)
		}
	}
}

func TestSortJobsTotalOrder(t *testing.T) {
	t0 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	jobs := []Job{
		{Base: docBase("b", t0), Phase: PhaseOffer, SortIndex: 0},
		{Base: docBase("a", t0), Phase: PhaseApplied, SortIndex: 2048},
		{Base: docBase("c", t0), Phase: PhaseApplied, SortIndex: 1024},
	}
	SortJobs(jobs)
	got := []string{jobs[0].ID, jobs[1].ID, jobs[2].ID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sort order mismatch: got %v want %v", got, want)
		}
	}
}
