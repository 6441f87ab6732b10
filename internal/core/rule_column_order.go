package core

import (
	"context"
	"fmt"

	"jobdeck/pkg/domain"
)

// NewColumnOrderRule returns the rule blocking two records in the same
// column from sharing a sort index. Distinct indexes are what keep drag
// ordering total and deterministic.
func NewColumnOrderRule() domain.Rule {
	return columnOrderRule{}
}

type columnOrderRule struct{}

func (columnOrderRule) Name() string { return "column_order" }

func (columnOrderRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	jobSeen := make(map[domain.Phase]map[float64]string)
	for _, job := range view.ListJobs() {
		if jobSeen[job.Phase] == nil {
			jobSeen[job.Phase] = make(map[float64]string)
		}
		if other, dup := jobSeen[job.Phase][job.SortIndex]; dup {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "column_order",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("jobs %s and %s share sort index %v in column %s", other, job.ID, job.SortIndex, job.Phase),
				Entity:   domain.EntityJob,
				EntityID: job.ID,
			})
		}
		jobSeen[job.Phase][job.SortIndex] = job.ID
	}

	taskSeen := make(map[domain.TaskStatus]map[float64]string)
	for _, task := range view.ListTasks() {
		if taskSeen[task.Status] == nil {
			taskSeen[task.Status] = make(map[float64]string)
		}
		if other, dup := taskSeen[task.Status][task.SortIndex]; dup {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "column_order",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("tasks %s and %s share sort index %v in column %s", other, task.ID, task.SortIndex, task.Status),
				Entity:   domain.EntityTask,
				EntityID: task.ID,
			})
		}
		taskSeen[task.Status][task.SortIndex] = task.ID
	}

	return res, nil
}
