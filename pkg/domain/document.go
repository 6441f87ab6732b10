package domain

import (
	"fmt"
	"sort"
	"time"
)

// DocumentVersion is the current persisted schema version. Version 1
// documents predate per-column sort indexes; loading one runs the ordered
// migration steps below.
const DocumentVersion = 2

// Document is the single versioned unit written to durable storage. The
// whole application state round-trips through it.
type Document struct {
	Version     int       `json:"version"`
	Jobs        []Job     `json:"jobs"`
	Tasks       []Task    `json:"tasks"`
	Contacts    []Contact `json:"contacts"`
	LastSavedAt time.Time `json:"last_saved_at"`
}

// migration upgrades a document in place from its named version to the next.
type migration struct {
	from int
	fn   func(*Document)
}

var migrations = []migration{
	{from: 1, fn: migrateAssignSortIndexes},
}

// Migrate upgrades the document to DocumentVersion, applying registered
// steps in order. Unknown future versions are rejected rather than
// partially parsed.
func (d *Document) Migrate() error {
	if d.Version > DocumentVersion {
		return CorruptStateError{Reason: fmt.Sprintf("document version %d is newer than supported %d", d.Version, DocumentVersion)}
	}
	if d.Version <= 0 {
		return CorruptStateError{Reason: "document version missing"}
	}
	for d.Version < DocumentVersion {
		step, ok := migrationFrom(d.Version)
		if !ok {
			return CorruptStateError{Reason: fmt.Sprintf("no migration registered from version %d", d.Version)}
		}
		step.fn(d)
		d.Version++
	}
	return nil
}

func migrationFrom(version int) (migration, bool) {
	for _, m := range migrations {
		if m.from == version {
			return m, true
		}
	}
	return migration{}, false
}

// migrateAssignSortIndexes spaces every column's records evenly in creation
// order. Version 1 boards ordered columns implicitly by creation time.
func migrateAssignSortIndexes(d *Document) {
	const step = 1024
	byPhase := make(map[Phase][]*Job)
	for i := range d.Jobs {
		job := &d.Jobs[i]
		byPhase[job.Phase] = append(byPhase[job.Phase], job)
	}
	for _, column := range byPhase {
		sort.SliceStable(column, func(i, j int) bool {
			if !column[i].CreatedAt.Equal(column[j].CreatedAt) {
				return column[i].CreatedAt.Before(column[j].CreatedAt)
			}
			return column[i].ID < column[j].ID
		})
		for i, job := range column {
			job.SortIndex = float64(i * step)
		}
	}
	byStatus := make(map[TaskStatus][]*Task)
	for i := range d.Tasks {
		task := &d.Tasks[i]
		byStatus[task.Status] = append(byStatus[task.Status], task)
	}
	for _, column := range byStatus {
		sort.SliceStable(column, func(i, j int) bool {
			if !column[i].CreatedAt.Equal(column[j].CreatedAt) {
				return column[i].CreatedAt.Before(column[j].CreatedAt)
			}
			return column[i].ID < column[j].ID
		})
		for i, task := range column {
			task.SortIndex = float64(i * step)
		}
	}
}

// Validate checks the document invariants that make it loadable: unique ids
// per entity type, canonical enum membership, resolving task parents, and
// distinct sort indexes per column.
func (d Document) Validate() error {
	jobIDs := make(map[string]struct{}, len(d.Jobs))
	for _, job := range d.Jobs {
		if job.ID == "" {
			return CorruptStateError{Reason: "job with empty id"}
		}
		if _, dup := jobIDs[job.ID]; dup {
			return CorruptStateError{Reason: fmt.Sprintf("duplicate job id %s", job.ID)}
		}
		jobIDs[job.ID] = struct{}{}
		if !job.Phase.Valid() {
			return CorruptStateError{Reason: fmt.Sprintf("job %s has unknown phase %q", job.ID, job.Phase)}
		}
		if !job.Priority.Valid() {
			return CorruptStateError{Reason: fmt.Sprintf("job %s has unknown priority %q", job.ID, job.Priority)}
		}
	}
	taskIDs := make(map[string]struct{}, len(d.Tasks))
	for _, task := range d.Tasks {
		if task.ID == "" {
			return CorruptStateError{Reason: "task with empty id"}
		}
		if _, dup := taskIDs[task.ID]; dup {
			return CorruptStateError{Reason: fmt.Sprintf("duplicate task id %s", task.ID)}
		}
		taskIDs[task.ID] = struct{}{}
		if !task.Status.Valid() {
			return CorruptStateError{Reason: fmt.Sprintf("task %s has unknown status %q", task.ID, task.Status)}
		}
		if task.JobID != nil {
			if _, ok := jobIDs[*task.JobID]; !ok {
				return CorruptStateError{Reason: fmt.Sprintf("task %s references missing job %s", task.ID, *task.JobID)}
			}
		}
	}
	contactIDs := make(map[string]struct{}, len(d.Contacts))
	for _, contact := range d.Contacts {
		if contact.ID == "" {
			return CorruptStateError{Reason: "contact with empty id"}
		}
		if _, dup := contactIDs[contact.ID]; dup {
			return CorruptStateError{Reason: fmt.Sprintf("duplicate contact id %s", contact.ID)}
		}
		contactIDs[contact.ID] = struct{}{}
		for _, jobID := range contact.JobIDs {
			if _, ok := jobIDs[jobID]; !ok {
				return CorruptStateError{Reason: fmt.Sprintf("contact %s references missing job %s", contact.ID, jobID)}
			}
		}
	}
	for _, job := range d.Jobs {
		for _, contactID := range job.ContactIDs {
			if _, ok := contactIDs[contactID]; !ok {
				return CorruptStateError{Reason: fmt.Sprintf("job %s references missing contact %s", job.ID, contactID)}
			}
		}
	}
	if err := distinctColumnIndexes(d); err != nil {
		return err
	}
	return nil
}

func distinctColumnIndexes(d Document) error {
	type column struct {
		entity EntityType
		key    string
	}
	seen := make(map[column]map[float64]string)
	record := func(entity EntityType, key, id string, index float64) error {
		col := column{entity: entity, key: key}
		if seen[col] == nil {
			seen[col] = make(map[float64]string)
		}
		if other, dup := seen[col][index]; dup {
			return CorruptStateError{Reason: fmt.Sprintf("%s %s and %s share sort index %v in column %s", entity, other, id, index, key)}
		}
		seen[col][index] = id
		return nil
	}
	for _, job := range d.Jobs {
		if err := record(EntityJob, string(job.Phase), job.ID, job.SortIndex); err != nil {
			return err
		}
	}
	for _, task := range d.Tasks {
		if err := record(EntityTask, string(task.Status), task.ID, task.SortIndex); err != nil {
			return err
		}
	}
	return nil
}

// SortJobs orders jobs by pipeline column, then sort index, then id. Every
// surface that lists jobs goes through this so the visual order is total.
func SortJobs(jobs []Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].Phase != jobs[j].Phase {
			return jobs[i].Phase.Rank() < jobs[j].Phase.Rank()
		}
		if jobs[i].SortIndex != jobs[j].SortIndex {
			return jobs[i].SortIndex < jobs[j].SortIndex
		}
		return jobs[i].ID < jobs[j].ID
	})
}

// SortTasks orders tasks by status column, then sort index, then id.
func SortTasks(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Status != tasks[j].Status {
			return tasks[i].Status.Rank() < tasks[j].Status.Rank()
		}
		if tasks[i].SortIndex != tasks[j].SortIndex {
			return tasks[i].SortIndex < tasks[j].SortIndex
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// SortContacts orders contacts by name then id.
func SortContacts(contacts []Contact) {
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].Name != contacts[j].Name {
			return contacts[i].Name < contacts[j].Name
		}
		return contacts[i].ID < contacts[j].ID
	})
}
