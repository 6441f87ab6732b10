package core

import (
	"context"
	"fmt"

	"jobdeck/pkg/domain"
)

// NewEnumMembershipRule returns the rule blocking any record whose phase,
// status, or priority falls outside the canonical enums. A value outside
// the enum is data corruption, not a user error, so the commit is blocked.
func NewEnumMembershipRule() domain.Rule {
	return enumMembershipRule{}
}

type enumMembershipRule struct{}

func (enumMembershipRule) Name() string { return "enum_membership" }

func (enumMembershipRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, job := range view.ListJobs() {
		if !job.Phase.Valid() {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "enum_membership",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("job %s has phase %q outside the pipeline", job.ID, job.Phase),
				Entity:   domain.EntityJob,
				EntityID: job.ID,
			})
		}
		if !job.Priority.Valid() {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "enum_membership",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("job %s has unknown priority %q", job.ID, job.Priority),
				Entity:   domain.EntityJob,
				EntityID: job.ID,
			})
		}
	}
	for _, task := range view.ListTasks() {
		if !task.Status.Valid() {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "enum_membership",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("task %s has status %q outside the board", task.ID, task.Status),
				Entity:   domain.EntityTask,
				EntityID: task.ID,
			})
		}
	}
	return res, nil
}
