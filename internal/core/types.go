package core

import "jobdeck/pkg/domain"

type (
	EntityType         = domain.EntityType
	Phase              = domain.Phase
	TaskStatus         = domain.TaskStatus
	Priority           = domain.Priority
	Severity           = domain.Severity
	Base               = domain.Base
	Job                = domain.Job
	Task               = domain.Task
	Contact            = domain.Contact
	Note               = domain.Note
	Document           = domain.Document
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	Transaction        = domain.Transaction
	TransactionView    = domain.TransactionView
	PersistentStore    = domain.PersistentStore
)

const (
	EntityJob     = domain.EntityJob
	EntityTask    = domain.EntityTask
	EntityContact = domain.EntityContact
)

const (
	PhaseApplied     = domain.PhaseApplied
	PhasePhoneScreen = domain.PhasePhoneScreen
	PhaseInterview   = domain.PhaseInterview
	PhaseFinalRound  = domain.PhaseFinalRound
	PhaseOffer       = domain.PhaseOffer
	PhaseRejected    = domain.PhaseRejected
	PhaseWithdrawn   = domain.PhaseWithdrawn
)

const (
	StatusTodo       = domain.StatusTodo
	StatusInProgress = domain.StatusInProgress
	StatusDone       = domain.StatusDone
)

const (
	PriorityLow    = domain.PriorityLow
	PriorityMedium = domain.PriorityMedium
	PriorityHigh   = domain.PriorityHigh
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)

// Phases returns the pipeline columns in board order.
func Phases() []Phase { return domain.Phases() }

// TaskStatuses returns the task board columns in order.
func TaskStatuses() []TaskStatus { return domain.TaskStatuses() }
