package core

import (
	"context"

	"jobdeck/pkg/domain"
)

// Drag-and-drop is a two-phase protocol. BeginDrag only checks that the
// record exists; the store is untouched until CommitDrag runs the
// transition engine. Cancel is always a store no-op, so an aborted drag
// leaves pre-drag state bit-for-bit intact.

// DragKind tells which board a drag session belongs to.
type DragKind string

// Drag kinds.
const (
	DragJob  DragKind = "job"
	DragTask DragKind = "task"
)

// DragSession tracks one in-flight drag gesture.
type DragSession struct {
	kind   DragKind
	id     string
	active bool
}

// Kind returns the board the session was started on.
func (d *DragSession) Kind() DragKind { return d.kind }

// ID returns the record being dragged.
func (d *DragSession) ID() string { return d.id }

// Active reports whether the session can still be committed.
func (d *DragSession) Active() bool { return d != nil && d.active }

// Cancel aborts the gesture. It never touches the store.
func (d *DragSession) Cancel() {
	if d != nil {
		d.active = false
	}
}

// BeginDrag opens a drag session for an existing record. No store mutation
// happens here.
func (s *Service) BeginDrag(ctx context.Context, kind DragKind, id string) (*DragSession, error) {
	var found bool
	err := s.store.View(ctx, func(view TransactionView) error {
		switch kind {
		case DragJob:
			_, found = view.FindJob(id)
		case DragTask:
			_, found = view.FindTask(id)
		default:
			return domain.ValidationError{Field: "Kind", Reason: "unknown drag kind " + string(kind)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		entity := EntityJob
		if kind == DragTask {
			entity = EntityTask
		}
		return nil, domain.NotFoundError{Entity: entity, ID: id}
	}
	return &DragSession{kind: kind, id: id, active: true}, nil
}

// CommitDrag completes the gesture: the only point where the transition
// engine runs. The session is consumed whether or not the move succeeds.
func (s *Service) CommitDrag(ctx context.Context, session *DragSession, targetColumn string, targetIndex int) (Outcome, error) {
	if !session.Active() {
		return Outcome{}, domain.ValidationError{Field: "Session", Reason: "drag session is not active"}
	}
	session.active = false
	switch session.kind {
	case DragJob:
		return s.Dispatch(ctx, MoveJobCommand{ID: session.id, Phase: Phase(targetColumn), TargetIndex: targetIndex})
	case DragTask:
		return s.Dispatch(ctx, MoveTaskCommand{ID: session.id, Status: TaskStatus(targetColumn), TargetIndex: targetIndex})
	default:
		return Outcome{}, domain.ValidationError{Field: "Kind", Reason: "unknown drag kind " + string(session.kind)}
	}
}
