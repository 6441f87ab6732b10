package core

import (
	"jobdeck/pkg/domain"
)

// The ordering engine is the only code that writes Phase, Status, or
// SortIndex. New records land at the midpoint between their neighbors;
// when repeated insertions exhaust the fractional gap, the whole column is
// renormalized to evenly spaced indexes before placing. That bounds the
// precision loss of naive midpoint splitting.

// sortStep is the spacing between renormalized column indexes.
const sortStep = 1024

type columnRecord struct {
	id    string
	index float64
}

// clampTarget keeps a requested drop position inside the column bounds.
func clampTarget(target, size int) int {
	if target < 0 {
		return 0
	}
	if target > size {
		return size
	}
	return target
}

// midpoint computes a sort index strictly between the records at
// target-1 and target. ok is false when the gap has no representable
// midpoint left and the column needs renormalizing first.
func midpoint(records []columnRecord, target int) (value float64, ok bool) {
	if len(records) == 0 {
		return 0, true
	}
	if target <= 0 {
		return records[0].index - sortStep, true
	}
	if target >= len(records) {
		return records[len(records)-1].index + sortStep, true
	}
	lo, hi := records[target-1].index, records[target].index
	mid := lo + (hi-lo)/2
	if mid <= lo || mid >= hi {
		return 0, false
	}
	return mid, true
}

// placeRecord computes the sort index for dropping a record at target among
// the given siblings (which must exclude the moving record and be ordered by
// index). When the gap is exhausted it renormalizes every sibling through
// update and places against the fresh spacing.
func placeRecord(records []columnRecord, target int, update func(id string, index float64) error) (float64, error) {
	target = clampTarget(target, len(records))
	if value, ok := midpoint(records, target); ok {
		return value, nil
	}
	for i, r := range records {
		if err := update(r.id, float64(i)*sortStep); err != nil {
			return 0, err
		}
		records[i].index = float64(i) * sortStep
	}
	value, _ := midpoint(records, target)
	return value, nil
}

// jobColumn lists the jobs of one phase column ordered by sort index,
// excluding the record being moved.
func jobColumn(view domain.TransactionView, phase domain.Phase, excludeID string) []columnRecord {
	var records []columnRecord
	for _, job := range view.ListJobs() {
		if job.Phase != phase || job.ID == excludeID {
			continue
		}
		records = append(records, columnRecord{id: job.ID, index: job.SortIndex})
	}
	return records
}

// taskColumn lists the tasks of one status column ordered by sort index,
// excluding the record being moved.
func taskColumn(view domain.TransactionView, status domain.TaskStatus, excludeID string) []columnRecord {
	var records []columnRecord
	for _, task := range view.ListTasks() {
		if task.Status != status || task.ID == excludeID {
			continue
		}
		records = append(records, columnRecord{id: task.ID, index: task.SortIndex})
	}
	return records
}

// moveJob validates the target phase, computes the destination sort index,
// and applies the transition. Moving onto one's own position is a no-op
// that still refreshes UpdatedAt.
func moveJob(tx domain.Transaction, id string, phase domain.Phase, target int) (domain.Job, error) {
	if !phase.Valid() {
		return domain.Job{}, domain.InvalidTransitionError{Entity: domain.EntityJob, Target: string(phase)}
	}
	if _, ok := tx.FindJob(id); !ok {
		return domain.Job{}, domain.NotFoundError{Entity: domain.EntityJob, ID: id}
	}
	records := jobColumn(tx.Snapshot(), phase, id)
	index, err := placeRecord(records, target, func(siblingID string, idx float64) error {
		_, uErr := tx.UpdateJob(siblingID, func(j *domain.Job) error {
			j.SortIndex = idx
			return nil
		})
		return uErr
	})
	if err != nil {
		return domain.Job{}, err
	}
	return tx.UpdateJob(id, func(j *domain.Job) error {
		j.Phase = phase
		j.SortIndex = index
		return nil
	})
}

// moveTask mirrors moveJob for the task board.
func moveTask(tx domain.Transaction, id string, status domain.TaskStatus, target int) (domain.Task, error) {
	if !status.Valid() {
		return domain.Task{}, domain.InvalidTransitionError{Entity: domain.EntityTask, Target: string(status)}
	}
	if _, ok := tx.FindTask(id); !ok {
		return domain.Task{}, domain.NotFoundError{Entity: domain.EntityTask, ID: id}
	}
	records := taskColumn(tx.Snapshot(), status, id)
	index, err := placeRecord(records, target, func(siblingID string, idx float64) error {
		_, uErr := tx.UpdateTask(siblingID, func(t *domain.Task) error {
			t.SortIndex = idx
			return nil
		})
		return uErr
	})
	if err != nil {
		return domain.Task{}, err
	}
	return tx.UpdateTask(id, func(t *domain.Task) error {
		t.Status = status
		t.SortIndex = index
		return nil
	})
}

// tailIndex returns the sort index for appending to the end of a column.
func tailIndex(records []columnRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	return records[len(records)-1].index + sortStep
}
