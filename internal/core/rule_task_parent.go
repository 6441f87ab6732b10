package core

import (
	"context"
	"fmt"

	"jobdeck/pkg/domain"
)

// NewTaskParentRule returns the rule blocking tasks whose parent job
// reference does not resolve. Deleting a job must cascade or unlink its
// tasks in the same transaction; a dangling reference blocks the commit.
func NewTaskParentRule() domain.Rule {
	return taskParentRule{}
}

type taskParentRule struct{}

func (taskParentRule) Name() string { return "task_parent" }

func (taskParentRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, task := range view.ListTasks() {
		if task.JobID == nil {
			continue
		}
		if _, ok := view.FindJob(*task.JobID); !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "task_parent",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("task %s references missing job %s", task.ID, *task.JobID),
				Entity:   domain.EntityTask,
				EntityID: task.ID,
			})
		}
	}
	for _, contact := range view.ListContacts() {
		for _, jobID := range contact.JobIDs {
			if _, ok := view.FindJob(jobID); !ok {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "task_parent",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("contact %s references missing job %s", contact.ID, jobID),
					Entity:   domain.EntityContact,
					EntityID: contact.ID,
				})
			}
		}
	}
	return res, nil
}
