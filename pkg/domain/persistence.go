package domain

import (
	"context"
	"time"
)

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateJob(Job) (Job, error)
	UpdateJob(id string, mutator func(*Job) error) (Job, error)
	DeleteJob(id string) error
	CreateTask(Task) (Task, error)
	UpdateTask(id string, mutator func(*Task) error) (Task, error)
	DeleteTask(id string) error
	CreateContact(Contact) (Contact, error)
	UpdateContact(id string, mutator func(*Contact) error) (Contact, error)
	DeleteContact(id string) error
	FindJob(id string) (Job, bool)
	FindTask(id string) (Task, bool)
	FindContact(id string) (Contact, bool)
}

// TransactionView provides read-only access to snapshot data for rules and
// for the derived view builders. List results are ordered by column
// membership then sort index, never by insertion order.
type TransactionView interface {
	ListJobs() []Job
	ListTasks() []Task
	ListContacts() []Contact
	FindJob(id string) (Job, bool)
	FindTask(id string) (Task, bool)
	FindContact(id string) (Contact, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetJob(id string) (Job, bool)
	ListJobs() []Job
	GetTask(id string) (Task, bool)
	ListTasks() []Task
	GetContact(id string) (Contact, bool)
	ListContacts() []Contact
	ExportDocument() Document
	ImportDocument(Document) error
	LastSavedAt() time.Time
}
