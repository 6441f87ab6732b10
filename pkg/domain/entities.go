// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by jobdeck.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityJob identifies a tracked job application record.
	EntityJob EntityType = "job"
	// EntityTask identifies a task record, standalone or job-linked.
	EntityTask EntityType = "task"
	// EntityContact identifies a contact record.
	EntityContact EntityType = "contact"
)

// Phase represents the pipeline stage of a job application. Phases drive
// kanban column membership and the dashboard classification predicates.
type Phase string

// Canonical pipeline phases in board order. Terminal phases (rejected,
// withdrawn) close the application without removing it from the document.
const (
	PhaseApplied     Phase = "applied"
	PhasePhoneScreen Phase = "phone_screen"
	PhaseInterview   Phase = "interview"
	PhaseFinalRound  Phase = "final_round"
	PhaseOffer       Phase = "offer"
	PhaseRejected    Phase = "rejected"
	PhaseWithdrawn   Phase = "withdrawn"
)

// Phases returns the pipeline in board column order.
func Phases() []Phase {
	return []Phase{
		PhaseApplied,
		PhasePhoneScreen,
		PhaseInterview,
		PhaseFinalRound,
		PhaseOffer,
		PhaseRejected,
		PhaseWithdrawn,
	}
}

// Valid reports whether the phase is a member of the canonical pipeline.
func (p Phase) Valid() bool {
	switch p {
	case PhaseApplied, PhasePhoneScreen, PhaseInterview, PhaseFinalRound,
		PhaseOffer, PhaseRejected, PhaseWithdrawn:
		return true
	}
	return false
}

// Rank returns the phase position within the pipeline, used for stable
// column ordering. Unknown phases sort last.
func (p Phase) Rank() int {
	for i, candidate := range Phases() {
		if candidate == p {
			return i
		}
	}
	return len(Phases())
}

// TaskStatus enumerates task board lifecycle states.
type TaskStatus string

// Canonical task statuses in board column order.
const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses returns task statuses in board column order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether the status is a member of the canonical set.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Rank returns the status position within the task board.
func (s TaskStatus) Rank() int {
	for i, candidate := range TaskStatuses() {
		if candidate == s {
			return i
		}
	}
	return len(TaskStatuses())
}

// Priority captures how urgently a job application is being pursued.
type Priority string

// Canonical priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is a member of the canonical set.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is a timestamped free-text entry appended to a job.
type Note struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Job represents a single tracked application moving through the pipeline.
type Job struct {
	Base
	Company      string     `json:"company"`
	Position     string     `json:"position"`
	Priority     Priority   `json:"priority"`
	Phase        Phase      `json:"phase"`
	CurrentStep  string     `json:"current_step"`
	NextTaskDate *time.Time `json:"next_task_date"`
	ContactIDs   []string   `json:"contact_ids"`
	SalaryRange  string     `json:"salary_range"`
	Location     string     `json:"location"`
	Notes        []Note     `json:"notes"`
	SortIndex    float64    `json:"sort_index"`
}

// Task is a to-do item, optionally linked to a job.
type Task struct {
	Base
	JobID     *string    `json:"job_id"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	DueDate   *time.Time `json:"due_date"`
	SortIndex float64    `json:"sort_index"`
}

// Contact is a person attached to one or more job applications.
type Contact struct {
	Base
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Phone  string   `json:"phone"`
	JobIDs []string `json:"job_ids"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured for rule evaluation.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}
