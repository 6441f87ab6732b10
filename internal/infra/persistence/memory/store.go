// Package memory provides the in-memory transactional entity store. It is
// the single source of truth for every derived view; durable backends wrap
// it and snapshot its state after each committed transaction.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobdeck/pkg/domain"
)

type memoryState struct {
	jobs     map[string]domain.Job
	tasks    map[string]domain.Task
	contacts map[string]domain.Contact
}

func newMemoryState() memoryState {
	return memoryState{
		jobs:     make(map[string]domain.Job),
		tasks:    make(map[string]domain.Task),
		contacts: make(map[string]domain.Contact),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.jobs {
		cloned.jobs[k] = cloneJob(v)
	}
	for k, v := range s.tasks {
		cloned.tasks[k] = cloneTask(v)
	}
	for k, v := range s.contacts {
		cloned.contacts[k] = cloneContact(v)
	}
	return cloned
}

func cloneJob(j domain.Job) domain.Job {
	cp := j
	cp.ContactIDs = append([]string(nil), j.ContactIDs...)
	cp.Notes = append([]domain.Note(nil), j.Notes...)
	if j.NextTaskDate != nil {
		d := *j.NextTaskDate
		cp.NextTaskDate = &d
	}
	return cp
}

func cloneTask(t domain.Task) domain.Task {
	cp := t
	if t.JobID != nil {
		id := *t.JobID
		cp.JobID = &id
	}
	if t.DueDate != nil {
		d := *t.DueDate
		cp.DueDate = &d
	}
	return cp
}

func cloneContact(c domain.Contact) domain.Contact {
	cp := c
	cp.JobIDs = append([]string(nil), c.JobIDs...)
	return cp
}

func documentFromState(state memoryState) domain.Document {
	doc := domain.Document{
		Version:  domain.DocumentVersion,
		Jobs:     make([]domain.Job, 0, len(state.jobs)),
		Tasks:    make([]domain.Task, 0, len(state.tasks)),
		Contacts: make([]domain.Contact, 0, len(state.contacts)),
	}
	for _, j := range state.jobs {
		doc.Jobs = append(doc.Jobs, cloneJob(j))
	}
	for _, t := range state.tasks {
		doc.Tasks = append(doc.Tasks, cloneTask(t))
	}
	for _, c := range state.contacts {
		doc.Contacts = append(doc.Contacts, cloneContact(c))
	}
	domain.SortJobs(doc.Jobs)
	domain.SortTasks(doc.Tasks)
	domain.SortContacts(doc.Contacts)
	return doc
}

func stateFromDocument(doc domain.Document) memoryState {
	state := newMemoryState()
	for _, j := range doc.Jobs {
		state.jobs[j.ID] = cloneJob(j)
	}
	for _, t := range doc.Tasks {
		state.tasks[t.ID] = cloneTask(t)
	}
	for _, c := range doc.Contacts {
		state.contacts[c.ID] = cloneContact(c)
	}
	return state
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu        sync.RWMutex
	state     memoryState
	engine    *domain.RulesEngine
	nowFn     func() time.Time
	lastSaved time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *domain.RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	return uuid.NewString()
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *domain.RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc replaces the time provider. Tests use this to freeze the clock.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

// ExportDocument clones the committed state into the persisted wire shape.
func (s *Store) ExportDocument() domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := documentFromState(s.state)
	doc.LastSavedAt = s.lastSaved
	return doc
}

// ImportDocument replaces the store state with the provided document.
func (s *Store) ImportDocument(doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateFromDocument(doc)
	s.lastSaved = doc.LastSavedAt
	return nil
}

// LastSavedAt reports when the state last reached durable storage. The
// in-memory store itself is not durable, so this only moves when a wrapping
// backend calls MarkSaved.
func (s *Store) LastSavedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaved
}

// MarkSaved records a successful durable write.
func (s *Store) MarkSaved(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSaved = at
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []domain.Change
	now     time.Time
}

type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) domain.TransactionView {
	return transactionView{state: state}
}

// ListJobs returns all jobs ordered by column then sort index.
func (v transactionView) ListJobs() []domain.Job {
	out := make([]domain.Job, 0, len(v.state.jobs))
	for _, j := range v.state.jobs {
		out = append(out, cloneJob(j))
	}
	domain.SortJobs(out)
	return out
}

// ListTasks returns all tasks ordered by column then sort index.
func (v transactionView) ListTasks() []domain.Task {
	out := make([]domain.Task, 0, len(v.state.tasks))
	for _, t := range v.state.tasks {
		out = append(out, cloneTask(t))
	}
	domain.SortTasks(out)
	return out
}

// ListContacts returns all contacts ordered by name.
func (v transactionView) ListContacts() []domain.Contact {
	out := make([]domain.Contact, 0, len(v.state.contacts))
	for _, c := range v.state.contacts {
		out = append(out, cloneContact(c))
	}
	domain.SortContacts(out)
	return out
}

// FindJob retrieves a job by ID from the snapshot.
func (v transactionView) FindJob(id string) (domain.Job, bool) {
	j, ok := v.state.jobs[id]
	if !ok {
		return domain.Job{}, false
	}
	return cloneJob(j), true
}

// FindTask retrieves a task by ID from the snapshot.
func (v transactionView) FindTask(id string) (domain.Task, bool) {
	t, ok := v.state.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return cloneTask(t), true
}

// FindContact retrieves a contact by ID from the snapshot.
func (v transactionView) FindContact(id string) (domain.Contact, bool) {
	c, ok := v.state.contacts[id]
	if !ok {
		return domain.Contact{}, false
	}
	return cloneContact(c), true
}

// RunInTransaction executes fn within a transactional copy of the store
// state. The copy commits only when fn succeeds and no registered rule
// raises a blocking violation, so view builders never observe partial
// application of a command.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	var result domain.Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return domain.Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the committed state.
func (s *Store) View(_ context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(newTransactionView(&snapshot))
}

func (tx *transaction) recordChange(change domain.Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot exposes the transactional state to rules and the ordering engine.
func (tx *transaction) Snapshot() domain.TransactionView {
	return newTransactionView(&tx.state)
}

// FindJob retrieves a job by ID from the transactional state.
func (tx *transaction) FindJob(id string) (domain.Job, bool) {
	j, ok := tx.state.jobs[id]
	if !ok {
		return domain.Job{}, false
	}
	return cloneJob(j), true
}

// FindTask retrieves a task by ID from the transactional state.
func (tx *transaction) FindTask(id string) (domain.Task, bool) {
	t, ok := tx.state.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return cloneTask(t), true
}

// FindContact retrieves a contact by ID from the transactional state.
func (tx *transaction) FindContact(id string) (domain.Contact, bool) {
	c, ok := tx.state.contacts[id]
	if !ok {
		return domain.Contact{}, false
	}
	return cloneContact(c), true
}

// CreateJob stores a new job within the transaction.
func (tx *transaction) CreateJob(j domain.Job) (domain.Job, error) {
	if j.ID == "" {
		j.ID = tx.store.newID()
	}
	if _, exists := tx.state.jobs[j.ID]; exists {
		return domain.Job{}, domain.ValidationError{Field: "id", Reason: "job " + j.ID + " already exists"}
	}
	j.CreatedAt = tx.now
	j.UpdatedAt = tx.now
	tx.state.jobs[j.ID] = cloneJob(j)
	tx.recordChange(domain.Change{Entity: domain.EntityJob, Action: domain.ActionCreate, After: cloneJob(j)})
	return cloneJob(j), nil
}

// UpdateJob mutates a job using the provided mutator function. UpdatedAt is
// stamped on every call, including mutations that end up changing nothing.
func (tx *transaction) UpdateJob(id string, mutator func(*domain.Job) error) (domain.Job, error) {
	current, ok := tx.state.jobs[id]
	if !ok {
		return domain.Job{}, domain.NotFoundError{Entity: domain.EntityJob, ID: id}
	}
	before := cloneJob(current)
	if err := mutator(&current); err != nil {
		return domain.Job{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.jobs[id] = cloneJob(current)
	tx.recordChange(domain.Change{Entity: domain.EntityJob, Action: domain.ActionUpdate, Before: before, After: cloneJob(current)})
	return cloneJob(current), nil
}

// DeleteJob removes a job from the transaction state.
func (tx *transaction) DeleteJob(id string) error {
	current, ok := tx.state.jobs[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityJob, ID: id}
	}
	delete(tx.state.jobs, id)
	tx.recordChange(domain.Change{Entity: domain.EntityJob, Action: domain.ActionDelete, Before: cloneJob(current)})
	return nil
}

// CreateTask stores a new task within the transaction.
func (tx *transaction) CreateTask(t domain.Task) (domain.Task, error) {
	if t.ID == "" {
		t.ID = tx.store.newID()
	}
	if _, exists := tx.state.tasks[t.ID]; exists {
		return domain.Task{}, domain.ValidationError{Field: "id", Reason: "task " + t.ID + " already exists"}
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	tx.state.tasks[t.ID] = cloneTask(t)
	tx.recordChange(domain.Change{Entity: domain.EntityTask, Action: domain.ActionCreate, After: cloneTask(t)})
	return cloneTask(t), nil
}

// UpdateTask mutates a task using the provided mutator function.
func (tx *transaction) UpdateTask(id string, mutator func(*domain.Task) error) (domain.Task, error) {
	current, ok := tx.state.tasks[id]
	if !ok {
		return domain.Task{}, domain.NotFoundError{Entity: domain.EntityTask, ID: id}
	}
	before := cloneTask(current)
	if err := mutator(&current); err != nil {
		return domain.Task{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.tasks[id] = cloneTask(current)
	tx.recordChange(domain.Change{Entity: domain.EntityTask, Action: domain.ActionUpdate, Before: before, After: cloneTask(current)})
	return cloneTask(current), nil
}

// DeleteTask removes a task from the transaction state.
func (tx *transaction) DeleteTask(id string) error {
	current, ok := tx.state.tasks[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityTask, ID: id}
	}
	delete(tx.state.tasks, id)
	tx.recordChange(domain.Change{Entity: domain.EntityTask, Action: domain.ActionDelete, Before: cloneTask(current)})
	return nil
}

// CreateContact stores a new contact within the transaction.
func (tx *transaction) CreateContact(c domain.Contact) (domain.Contact, error) {
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.contacts[c.ID]; exists {
		return domain.Contact{}, domain.ValidationError{Field: "id", Reason: "contact " + c.ID + " already exists"}
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.contacts[c.ID] = cloneContact(c)
	tx.recordChange(domain.Change{Entity: domain.EntityContact, Action: domain.ActionCreate, After: cloneContact(c)})
	return cloneContact(c), nil
}

// UpdateContact mutates a contact using the provided mutator function.
func (tx *transaction) UpdateContact(id string, mutator func(*domain.Contact) error) (domain.Contact, error) {
	current, ok := tx.state.contacts[id]
	if !ok {
		return domain.Contact{}, domain.NotFoundError{Entity: domain.EntityContact, ID: id}
	}
	before := cloneContact(current)
	if err := mutator(&current); err != nil {
		return domain.Contact{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.contacts[id] = cloneContact(current)
	tx.recordChange(domain.Change{Entity: domain.EntityContact, Action: domain.ActionUpdate, Before: before, After: cloneContact(current)})
	return cloneContact(current), nil
}

// DeleteContact removes a contact from the transaction state.
func (tx *transaction) DeleteContact(id string) error {
	current, ok := tx.state.contacts[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityContact, ID: id}
	}
	delete(tx.state.contacts, id)
	tx.recordChange(domain.Change{Entity: domain.EntityContact, Action: domain.ActionDelete, Before: cloneContact(current)})
	return nil
}

// Read helpers ---------------------------------------------------------------

// GetJob retrieves a job by ID from committed state.
func (s *Store) GetJob(id string) (domain.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.state.jobs[id]
	if !ok {
		return domain.Job{}, false
	}
	return cloneJob(j), true
}

// ListJobs returns all jobs from committed state ordered by column then sort index.
func (s *Store) ListJobs() []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Job, 0, len(s.state.jobs))
	for _, j := range s.state.jobs {
		out = append(out, cloneJob(j))
	}
	domain.SortJobs(out)
	return out
}

// GetTask retrieves a task by ID from committed state.
func (s *Store) GetTask(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return cloneTask(t), true
}

// ListTasks returns all tasks from committed state ordered by column then sort index.
func (s *Store) ListTasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, 0, len(s.state.tasks))
	for _, t := range s.state.tasks {
		out = append(out, cloneTask(t))
	}
	domain.SortTasks(out)
	return out
}

// GetContact retrieves a contact by ID from committed state.
func (s *Store) GetContact(id string) (domain.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.contacts[id]
	if !ok {
		return domain.Contact{}, false
	}
	return cloneContact(c), true
}

// ListContacts returns all contacts from committed state ordered by name.
func (s *Store) ListContacts() []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Contact, 0, len(s.state.contacts))
	for _, c := range s.state.contacts {
		out = append(out, cloneContact(c))
	}
	domain.SortContacts(out)
	return out
}
