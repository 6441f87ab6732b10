package core

import (
	"context"
	"fmt"
)

// Command is a typed description of one UI-initiated change. The rendering
// layer produces commands; Dispatch is the only path from a command to the
// entity store, which is what guarantees persistence-after-mutation and a
// consistent snapshot for every view.
type Command interface {
	commandName() string
}

// AddJobCommand creates a new job row.
type AddJobCommand struct{ AddJobInput }

// EditJobCommand patches an existing job.
type EditJobCommand struct {
	ID    string
	Patch JobPatch
}

// DeleteJobCommand removes a job and cascades to its references.
type DeleteJobCommand struct{ ID string }

// MoveJobCommand is a committed kanban drag.
type MoveJobCommand struct {
	ID          string
	Phase       Phase
	TargetIndex int
}

// AddTaskCommand creates a task, standalone or job-linked.
type AddTaskCommand struct{ AddTaskInput }

// EditTaskCommand patches an existing task.
type EditTaskCommand struct {
	ID    string
	Patch TaskPatch
}

// DeleteTaskCommand removes a task.
type DeleteTaskCommand struct{ ID string }

// MoveTaskCommand is a committed task-board drag.
type MoveTaskCommand struct {
	ID          string
	Status      TaskStatus
	TargetIndex int
}

// AddContactCommand creates a contact.
type AddContactCommand struct{ AddContactInput }

// LinkContactToJobCommand associates a contact with a job.
type LinkContactToJobCommand struct {
	ContactID string
	JobID     string
}

// AppendNoteCommand appends a timestamped note to a job.
type AppendNoteCommand struct {
	JobID string
	Text  string
}

func (AddJobCommand) commandName() string           { return "add_job" }
func (EditJobCommand) commandName() string          { return "edit_job" }
func (DeleteJobCommand) commandName() string        { return "delete_job" }
func (MoveJobCommand) commandName() string          { return "move_job" }
func (AddTaskCommand) commandName() string          { return "add_task" }
func (EditTaskCommand) commandName() string         { return "edit_task" }
func (DeleteTaskCommand) commandName() string       { return "delete_task" }
func (MoveTaskCommand) commandName() string         { return "move_task" }
func (AddContactCommand) commandName() string       { return "add_contact" }
func (LinkContactToJobCommand) commandName() string { return "link_contact" }
func (AppendNoteCommand) commandName() string       { return "append_note" }

// Outcome reports what a dispatched command produced. Exactly one entity
// pointer is set for commands that yield a record; Result carries any
// non-blocking rule violations.
type Outcome struct {
	Result  Result
	Job     *Job
	Task    *Task
	Contact *Contact
}

// Dispatch routes a typed command to its operation. Errors follow the
// domain taxonomy; a PersistError means the mutation stood in memory but
// may not survive a reload.
func (s *Service) Dispatch(ctx context.Context, cmd Command) (Outcome, error) {
	switch c := cmd.(type) {
	case AddJobCommand:
		job, res, err := s.AddJob(ctx, c.AddJobInput)
		return Outcome{Result: res, Job: &job}, err
	case EditJobCommand:
		job, res, err := s.EditJob(ctx, c.ID, c.Patch)
		return Outcome{Result: res, Job: &job}, err
	case DeleteJobCommand:
		res, err := s.DeleteJob(ctx, c.ID)
		return Outcome{Result: res}, err
	case MoveJobCommand:
		job, res, err := s.MoveJob(ctx, c.ID, c.Phase, c.TargetIndex)
		return Outcome{Result: res, Job: &job}, err
	case AddTaskCommand:
		task, res, err := s.AddTask(ctx, c.AddTaskInput)
		return Outcome{Result: res, Task: &task}, err
	case EditTaskCommand:
		task, res, err := s.EditTask(ctx, c.ID, c.Patch)
		return Outcome{Result: res, Task: &task}, err
	case DeleteTaskCommand:
		res, err := s.DeleteTask(ctx, c.ID)
		return Outcome{Result: res}, err
	case MoveTaskCommand:
		task, res, err := s.MoveTask(ctx, c.ID, c.Status, c.TargetIndex)
		return Outcome{Result: res, Task: &task}, err
	case AddContactCommand:
		contact, res, err := s.AddContact(ctx, c.AddContactInput)
		return Outcome{Result: res, Contact: &contact}, err
	case LinkContactToJobCommand:
		contact, res, err := s.LinkContactToJob(ctx, c.ContactID, c.JobID)
		return Outcome{Result: res, Contact: &contact}, err
	case AppendNoteCommand:
		job, res, err := s.AppendNote(ctx, c.JobID, c.Text)
		return Outcome{Result: res, Job: &job}, err
	default:
		return Outcome{}, fmt.Errorf("unknown command %T", cmd)
	}
}
