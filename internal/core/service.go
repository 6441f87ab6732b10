package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"jobdeck/internal/infra/persistence/memory"
	"jobdeck/pkg/domain"
)

// Service is the mutation dispatcher: the single funnel through which every
// change reaches the entity store. Each operation validates its input,
// applies atomically in one store transaction, persists, and reports
// persist failures without rolling the in-memory change back.
type Service struct {
	store    PersistentStore
	clock    Clock
	logger   Logger
	metrics  MetricsRecorder
	tracer   Tracer
	validate *validator.Validate
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithClock replaces the time source. When the store supports clock
// injection the same source drives record timestamps.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger installs a structured logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics installs a metrics recorder observed around every operation.
func WithMetrics(metrics MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithTracer installs a tracer producing one span per operation.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

type clockSettable interface {
	SetNowFunc(func() time.Time)
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		clock:    ClockFunc(func() time.Time { return time.Now().UTC() }),
		logger:   noopLogger{},
		metrics:  noopMetrics{},
		tracer:   noopTracer{},
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if settable, ok := store.(clockSettable); ok {
		settable.SetNowFunc(s.clock.Now)
	}
	return s
}

// NewInMemoryService creates a service and in-memory store with the given
// rules engine. Passing nil installs the default invariant guards.
func NewInMemoryService(engine *domain.RulesEngine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// LastSavedAt reports when the state last reached durable storage.
func (s *Service) LastSavedAt() time.Time {
	return s.store.LastSavedAt()
}

// run wraps one operation with tracing, metrics, and persist-failure
// logging. Persist failures are warned, not escalated: the in-memory state
// stayed authoritative and the session keeps working.
func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	started := s.clock.Now()
	err := fn(ctx)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, s.clock.Now().Sub(started))
	if err != nil {
		var persist domain.PersistError
		if errors.As(err, &persist) {
			s.logger.Warn("durable save failed, in-memory state remains authoritative", "operation", op, "error", err)
		} else {
			s.logger.Debug("operation rejected", "operation", op, "error", err)
		}
	}
	return err
}

// checkInput runs struct validation and converts the first failure into the
// domain taxonomy.
func (s *Service) checkInput(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.ValidationError{Field: fe.Field(), Reason: "fails " + fe.Tag() + " constraint"}
	}
	return err
}

// AddJobInput carries the caller-supplied fields for a new job. Phase and
// priority default to applied/medium when empty.
type AddJobInput struct {
	Company      string `validate:"required"`
	Position     string `validate:"required"`
	Priority     Priority
	Phase        Phase
	CurrentStep  string
	NextTaskDate *time.Time
	SalaryRange  string
	Location     string
}

// AddJob creates a job at the tail of its phase column.
func (s *Service) AddJob(ctx context.Context, in AddJobInput) (Job, Result, error) {
	var created Job
	var res Result
	err := s.run(ctx, "add_job", func(ctx context.Context) error {
		if err := s.checkInput(in); err != nil {
			return err
		}
		if in.Phase == "" {
			in.Phase = PhaseApplied
		}
		if in.Priority == "" {
			in.Priority = domain.PriorityMedium
		}
		if !in.Phase.Valid() {
			return domain.ValidationError{Field: "Phase", Reason: "unknown phase " + string(in.Phase)}
		}
		if !in.Priority.Valid() {
			return domain.ValidationError{Field: "Priority", Reason: "unknown priority " + string(in.Priority)}
		}
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			index := tailIndex(jobColumn(tx.Snapshot(), in.Phase, ""))
			var err error
			created, err = tx.CreateJob(Job{
				Company:      in.Company,
				Position:     in.Position,
				Priority:     in.Priority,
				Phase:        in.Phase,
				CurrentStep:  in.CurrentStep,
				NextTaskDate: in.NextTaskDate,
				SalaryRange:  in.SalaryRange,
				Location:     in.Location,
				SortIndex:    index,
			})
			return err
		})
		return txErr
	})
	return created, res, err
}

// JobPatch lists the editable job fields. Nil pointers leave the field
// untouched. Phase and sort index are deliberately absent: only the
// ordering engine (MoveJob) writes those.
type JobPatch struct {
	Company           *string
	Position          *string
	Priority          *Priority
	CurrentStep       *string
	NextTaskDate      *time.Time
	ClearNextTaskDate bool
	SalaryRange       *string
	Location          *string
}

// EditJob applies a patch to an existing job.
func (s *Service) EditJob(ctx context.Context, id string, patch JobPatch) (Job, Result, error) {
	var updated Job
	var res Result
	err := s.run(ctx, "edit_job", func(ctx context.Context) error {
		if patch.Priority != nil && !patch.Priority.Valid() {
			return domain.ValidationError{Field: "Priority", Reason: "unknown priority " + string(*patch.Priority)}
		}
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdateJob(id, func(j *Job) error {
				if patch.Company != nil {
					j.Company = *patch.Company
				}
				if patch.Position != nil {
					j.Position = *patch.Position
				}
				if patch.Priority != nil {
					j.Priority = *patch.Priority
				}
				if patch.CurrentStep != nil {
					j.CurrentStep = *patch.CurrentStep
				}
				if patch.ClearNextTaskDate {
					j.NextTaskDate = nil
				} else if patch.NextTaskDate != nil {
					d := *patch.NextTaskDate
					j.NextTaskDate = &d
				}
				if patch.SalaryRange != nil {
					j.SalaryRange = *patch.SalaryRange
				}
				if patch.Location != nil {
					j.Location = *patch.Location
				}
				return nil
			})
			return err
		})
		return txErr
	})
	return updated, res, err
}

// DeleteJob removes a job and repairs every reference to it in the same
// transaction: linked tasks are deleted outright and contacts are unlinked
// but kept. No dangling references survive the commit.
func (s *Service) DeleteJob(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.run(ctx, "delete_job", func(ctx context.Context) error {
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if _, ok := tx.FindJob(id); !ok {
				return domain.NotFoundError{Entity: EntityJob, ID: id}
			}
			view := tx.Snapshot()
			for _, task := range view.ListTasks() {
				if task.JobID != nil && *task.JobID == id {
					if err := tx.DeleteTask(task.ID); err != nil {
						return err
					}
				}
			}
			for _, contact := range view.ListContacts() {
				if !containsString(contact.JobIDs, id) {
					continue
				}
				if _, err := tx.UpdateContact(contact.ID, func(c *Contact) error {
					c.JobIDs = removeString(c.JobIDs, id)
					return nil
				}); err != nil {
					return err
				}
			}
			return tx.DeleteJob(id)
		})
		return txErr
	})
	return res, err
}

// MoveJob applies a drag-drop transition: any valid phase to any valid
// phase, landing at targetIndex within the destination column.
func (s *Service) MoveJob(ctx context.Context, id string, phase Phase, targetIndex int) (Job, Result, error) {
	var moved Job
	var res Result
	err := s.run(ctx, "move_job", func(ctx context.Context) error {
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			moved, err = moveJob(tx, id, phase, targetIndex)
			return err
		})
		return txErr
	})
	return moved, res, err
}

// AddTaskInput carries the caller-supplied fields for a new task. A nil
// JobID creates a standalone task.
type AddTaskInput struct {
	JobID   *string
	Title   string `validate:"required"`
	Status  TaskStatus
	DueDate *time.Time
}

// AddTask creates a task at the tail of its status column.
func (s *Service) AddTask(ctx context.Context, in AddTaskInput) (Task, Result, error) {
	var created Task
	var res Result
	err := s.run(ctx, "add_task", func(ctx context.Context) error {
		if err := s.checkInput(in); err != nil {
			return err
		}
		if in.Status == "" {
			in.Status = StatusTodo
		}
		if !in.Status.Valid() {
			return domain.ValidationError{Field: "Status", Reason: "unknown status " + string(in.Status)}
		}
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if in.JobID != nil {
				if _, ok := tx.FindJob(*in.JobID); !ok {
					return domain.NotFoundError{Entity: EntityJob, ID: *in.JobID}
				}
			}
			index := tailIndex(taskColumn(tx.Snapshot(), in.Status, ""))
			var err error
			created, err = tx.CreateTask(Task{
				JobID:     in.JobID,
				Title:     in.Title,
				Status:    in.Status,
				DueDate:   in.DueDate,
				SortIndex: index,
			})
			return err
		})
		return txErr
	})
	return created, res, err
}

// TaskPatch lists the editable task fields. Status and sort index move
// only through MoveTask.
type TaskPatch struct {
	Title        *string
	JobID        *string
	ClearJobID   bool
	DueDate      *time.Time
	ClearDueDate bool
}

// EditTask applies a patch to an existing task.
func (s *Service) EditTask(ctx context.Context, id string, patch TaskPatch) (Task, Result, error) {
	var updated Task
	var res Result
	err := s.run(ctx, "edit_task", func(ctx context.Context) error {
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if patch.JobID != nil {
				if _, ok := tx.FindJob(*patch.JobID); !ok {
					return domain.NotFoundError{Entity: EntityJob, ID: *patch.JobID}
				}
			}
			var err error
			updated, err = tx.UpdateTask(id, func(t *Task) error {
				if patch.Title != nil {
					t.Title = *patch.Title
				}
				if patch.ClearJobID {
					t.JobID = nil
				} else if patch.JobID != nil {
					jobID := *patch.JobID
					t.JobID = &jobID
				}
				if patch.ClearDueDate {
					t.DueDate = nil
				} else if patch.DueDate != nil {
					d := *patch.DueDate
					t.DueDate = &d
				}
				return nil
			})
			return err
		})
		return txErr
	})
	return updated, res, err
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.run(ctx, "delete_task", func(ctx context.Context) error {
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteTask(id)
		})
		return txErr
	})
	return res, err
}

// MoveTask applies a drag-drop transition on the task board.
func (s *Service) MoveTask(ctx context.Context, id string, status TaskStatus, targetIndex int) (Task, Result, error) {
	var moved Task
	var res Result
	err := s.run(ctx, "move_task", func(ctx context.Context) error {
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			moved, err = moveTask(tx, id, status, targetIndex)
			return err
		})
		return txErr
	})
	return moved, res, err
}

// AddContactInput carries the caller-supplied fields for a new contact.
type AddContactInput struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
	Phone string
}

// AddContact creates a contact, initially linked to no job.
func (s *Service) AddContact(ctx context.Context, in AddContactInput) (Contact, Result, error) {
	var created Contact
	var res Result
	err := s.run(ctx, "add_contact", func(ctx context.Context) error {
		if err := s.checkInput(in); err != nil {
			return err
		}
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateContact(Contact{
				Name:  in.Name,
				Email: in.Email,
				Phone: in.Phone,
			})
			return err
		})
		return txErr
	})
	return created, res, err
}

// LinkContactToJob records the many-to-many association on both sides.
// Linking twice is idempotent.
func (s *Service) LinkContactToJob(ctx context.Context, contactID, jobID string) (Contact, Result, error) {
	var linked Contact
	var res Result
	err := s.run(ctx, "link_contact", func(ctx context.Context) error {
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if _, ok := tx.FindJob(jobID); !ok {
				return domain.NotFoundError{Entity: EntityJob, ID: jobID}
			}
			if _, err := tx.UpdateJob(jobID, func(j *Job) error {
				if !containsString(j.ContactIDs, contactID) {
					j.ContactIDs = append(j.ContactIDs, contactID)
				}
				return nil
			}); err != nil {
				return err
			}
			var err error
			linked, err = tx.UpdateContact(contactID, func(c *Contact) error {
				if !containsString(c.JobIDs, jobID) {
					c.JobIDs = append(c.JobIDs, jobID)
				}
				return nil
			})
			return err
		})
		return txErr
	})
	return linked, res, err
}

// AppendNote appends a timestamped note to a job. Notes are append-only.
func (s *Service) AppendNote(ctx context.Context, jobID, text string) (Job, Result, error) {
	var updated Job
	var res Result
	err := s.run(ctx, "append_note", func(ctx context.Context) error {
		text = strings.TrimSpace(text)
		if text == "" {
			return domain.ValidationError{Field: "Text", Reason: "note text is empty"}
		}
		now := s.clock.Now()
		var txErr error
		res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdateJob(jobID, func(j *Job) error {
				j.Notes = append(j.Notes, Note{Text: text, CreatedAt: now})
				return nil
			})
			return err
		})
		return txErr
	})
	return updated, res, err
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func removeString(values []string, target string) []string {
	out := values[:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
