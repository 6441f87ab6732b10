package core

import (
	"context"
	"sort"
	"strings"

	"jobdeck/pkg/domain"
)

// Derived view builders are pure projections over a store snapshot. They
// are recomputed on demand and never cached, so every surface reflects the
// last committed transaction.

// TableSort names a column-configurable sort key for the table view.
type TableSort string

// Supported table sort keys.
const (
	SortByCompany      TableSort = "company"
	SortByPosition     TableSort = "position"
	SortByPhase        TableSort = "phase"
	SortByPriority     TableSort = "priority"
	SortByLocation     TableSort = "location"
	SortByNextTaskDate TableSort = "next_task_date"
	SortByCreatedAt    TableSort = "created_at"
	SortByUpdatedAt    TableSort = "updated_at"
)

// TableFilter narrows the table view. Zero value means no filtering.
type TableFilter struct {
	Phases     []Phase
	ActiveOnly bool
	Query      string
}

// TableRow is one job in the table view with its derived task counter.
type TableRow struct {
	Job
	OpenTasks int
}

// BuildTableRows projects jobs into table rows. The filter predicates are
// the shared domain classifications, so the table always agrees with the
// dashboard counters.
func BuildTableRows(view TransactionView, sortKey TableSort, filter TableFilter) []TableRow {
	openTasks := make(map[string]int)
	for _, task := range view.ListTasks() {
		if task.JobID != nil && task.Status.Open() {
			openTasks[*task.JobID]++
		}
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	rows := make([]TableRow, 0)
	for _, job := range view.ListJobs() {
		if filter.ActiveOnly && !job.Phase.Active() {
			continue
		}
		if len(filter.Phases) > 0 && !containsPhase(filter.Phases, job.Phase) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(job.Company), query) &&
			!strings.Contains(strings.ToLower(job.Position), query) {
			continue
		}
		rows = append(rows, TableRow{Job: job, OpenTasks: openTasks[job.ID]})
	}
	sortTableRows(rows, sortKey)
	return rows
}

func containsPhase(phases []Phase, target Phase) bool {
	for _, p := range phases {
		if p == target {
			return true
		}
	}
	return false
}

func priorityRank(p Priority) int {
	switch p {
	case domain.PriorityHigh:
		return 0
	case domain.PriorityMedium:
		return 1
	default:
		return 2
	}
}

func sortTableRows(rows []TableRow, key TableSort) {
	less := func(i, j int) bool { return false }
	switch key {
	case SortByCompany:
		less = func(i, j int) bool { return rows[i].Company < rows[j].Company }
	case SortByPosition:
		less = func(i, j int) bool { return rows[i].Position < rows[j].Position }
	case SortByPriority:
		less = func(i, j int) bool { return priorityRank(rows[i].Priority) < priorityRank(rows[j].Priority) }
	case SortByLocation:
		less = func(i, j int) bool { return rows[i].Location < rows[j].Location }
	case SortByNextTaskDate:
		less = func(i, j int) bool {
			a, b := rows[i].NextTaskDate, rows[j].NextTaskDate
			switch {
			case a == nil && b == nil:
				return false
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		}
	case SortByCreatedAt:
		less = func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) }
	case SortByUpdatedAt:
		less = func(i, j int) bool { return rows[j].UpdatedAt.Before(rows[i].UpdatedAt) }
	case SortByPhase, "":
		// board order: the ListJobs contract already sorted by column and
		// sort index, nothing to do.
		return
	}
	sort.SliceStable(rows, less)
}

// KanbanColumn is one pipeline column with its ordered cards.
type KanbanColumn struct {
	Phase Phase
	Cards []Job
}

// BuildKanbanColumns groups jobs by phase in pipeline order. Every phase
// appears even when empty so the board renders a stable set of columns.
func BuildKanbanColumns(view TransactionView) []KanbanColumn {
	byPhase := make(map[Phase][]Job)
	for _, job := range view.ListJobs() {
		byPhase[job.Phase] = append(byPhase[job.Phase], job)
	}
	columns := make([]KanbanColumn, 0, len(domain.Phases()))
	for _, phase := range domain.Phases() {
		columns = append(columns, KanbanColumn{Phase: phase, Cards: byPhase[phase]})
	}
	return columns
}

// TaskColumn is one task-board column with its ordered tasks.
type TaskColumn struct {
	Status TaskStatus
	Tasks  []Task
}

// BuildTaskColumns groups tasks by status in board order.
func BuildTaskColumns(view TransactionView) []TaskColumn {
	byStatus := make(map[TaskStatus][]Task)
	for _, task := range view.ListTasks() {
		byStatus[task.Status] = append(byStatus[task.Status], task)
	}
	columns := make([]TaskColumn, 0, len(domain.TaskStatuses()))
	for _, status := range domain.TaskStatuses() {
		columns = append(columns, TaskColumn{Status: status, Tasks: byStatus[status]})
	}
	return columns
}

// DashboardStats aggregates the board using the shared classification
// predicates.
type DashboardStats struct {
	Total        int
	Active       int
	Interviewing int
	Offers       int
	Rejections   int
	TasksOpen    int
	TasksDone    int
}

// BuildDashboardStats counts jobs and tasks per classification.
func BuildDashboardStats(view TransactionView) DashboardStats {
	stats := DashboardStats{}
	for _, job := range view.ListJobs() {
		stats.Total++
		if job.Phase.Active() {
			stats.Active++
		}
		if job.Phase.Interviewing() {
			stats.Interviewing++
		}
		if job.Phase.Offered() {
			stats.Offers++
		}
		if job.Phase.Rejected() {
			stats.Rejections++
		}
	}
	for _, task := range view.ListTasks() {
		if task.Status.Open() {
			stats.TasksOpen++
		} else {
			stats.TasksDone++
		}
	}
	return stats
}

// GetTableRows returns the table projection of the committed state.
func (s *Service) GetTableRows(ctx context.Context, sortKey TableSort, filter TableFilter) ([]TableRow, error) {
	var rows []TableRow
	err := s.store.View(ctx, func(view TransactionView) error {
		rows = BuildTableRows(view, sortKey, filter)
		return nil
	})
	return rows, err
}

// GetKanbanColumns returns the kanban projection of the committed state.
func (s *Service) GetKanbanColumns(ctx context.Context) ([]KanbanColumn, error) {
	var columns []KanbanColumn
	err := s.store.View(ctx, func(view TransactionView) error {
		columns = BuildKanbanColumns(view)
		return nil
	})
	return columns, err
}

// GetTaskColumns returns the task board projection of the committed state.
func (s *Service) GetTaskColumns(ctx context.Context) ([]TaskColumn, error) {
	var columns []TaskColumn
	err := s.store.View(ctx, func(view TransactionView) error {
		columns = BuildTaskColumns(view)
		return nil
	})
	return columns, err
}

// GetDashboardStats returns the aggregate counters of the committed state.
func (s *Service) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := s.store.View(ctx, func(view TransactionView) error {
		stats = BuildDashboardStats(view)
		return nil
	})
	return stats, err
}
