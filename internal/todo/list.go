package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/ticklist/internal/logging"
	"github.com/nibzard/ticklist/internal/storage"
)

// Storage keys for the two lists.
const (
	KeyPending   = "todos"
	KeyCompleted = "completed"
)

// MinRefLen is the shortest id prefix Find accepts.
const MinRefLen = 4

var (
	// ErrNotFound is returned by Find when no task matches.
	ErrNotFound = errors.New("task not found")
	// ErrAmbiguous is returned by Find when a prefix matches several tasks.
	ErrAmbiguous = errors.New("task reference is ambiguous")
)

// Section names the list a task currently belongs to.
type Section string

const (
	SectionPending   Section = "pending"
	SectionCompleted Section = "completed"
)

// List holds the pending and completed tasks and keeps them in sync with
// a storage.Store. It is not safe for concurrent use.
type List struct {
	store     storage.Store
	logger    *log.Logger
	newID     func() string
	pending   []Task
	completed []Task
}

// Option configures a List.
type Option func(*List)

// WithLogger sets the logger used for load notices and warnings.
func WithLogger(logger *log.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithIDGenerator replaces the id generator.
func WithIDGenerator(fn func() string) Option {
	return func(l *List) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// NewList creates an empty List backed by store. Call Load to read saved state.
func NewList(store storage.Store, opts ...Option) *List {
	l := &List{
		store:  store,
		logger: logging.Discard(),
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Pending returns a copy of the pending tasks in insertion order.
func (l *List) Pending() []Task {
	return cloneTasks(l.pending)
}

// Completed returns a copy of the completed tasks in insertion order.
func (l *List) Completed() []Task {
	return cloneTasks(l.completed)
}

// Add appends a new task to pending and saves. Text is not validated.
func (l *List) Add(text string, due *time.Time) (Task, error) {
	task := Task{
		ID:      l.newID(),
		Text:    text,
		DueDate: dueOrNil(due),
	}
	l.pending = append(l.pending, task)
	l.logger.Debug("task added", "id", task.ID, "due", task.HasDue())
	if err := l.Save(); err != nil {
		return task, err
	}
	return task, nil
}

// Complete moves the task from pending to completed and saves.
// It returns false without touching storage if id is not pending.
func (l *List) Complete(id string) (bool, error) {
	return l.move(id, SectionPending, SectionCompleted)
}

// Reopen moves the task from completed back to pending and saves.
// It returns false without touching storage if id is not completed.
func (l *List) Reopen(id string) (bool, error) {
	return l.move(id, SectionCompleted, SectionPending)
}

// Toggle completes a pending task or reopens a completed one.
func (l *List) Toggle(id string) (Section, error) {
	if indexOf(l.pending, id) >= 0 {
		_, err := l.Complete(id)
		return SectionCompleted, err
	}
	if indexOf(l.completed, id) >= 0 {
		_, err := l.Reopen(id)
		return SectionPending, err
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, id)
}

// move writes the destination key before the source key. If the second
// write fails the task is stored in both lists, and Load keeps the copy
// in "todos".
func (l *List) move(id string, from, to Section) (bool, error) {
	src, dst := l.slot(from), l.slot(to)
	i := indexOf(*src, id)
	if i < 0 {
		return false, nil
	}
	task := (*src)[i]
	*src = append((*src)[:i:i], (*src)[i+1:]...)
	*dst = append(*dst, task)
	l.logger.Debug("task moved", "id", id, "pending", len(l.pending), "completed", len(l.completed))

	if err := l.saveKey(to.key(), *dst); err != nil {
		return true, err
	}
	if err := l.saveKey(from.key(), *src); err != nil {
		return true, err
	}
	return true, nil
}

func (l *List) slot(s Section) *[]Task {
	if s == SectionCompleted {
		return &l.completed
	}
	return &l.pending
}

func (s Section) key() string {
	if s == SectionCompleted {
		return KeyCompleted
	}
	return KeyPending
}

// Find resolves a full id or a unique id prefix of at least MinRefLen
// characters across both lists.
func (l *List) Find(ref string) (Task, Section, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, "", fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	for _, s := range l.sections() {
		if i := indexOf(s.tasks, ref); i >= 0 {
			return s.tasks[i], s.name, nil
		}
	}
	if len(ref) < MinRefLen {
		return Task{}, "", fmt.Errorf("%w: %s (use at least %d characters)", ErrNotFound, ref, MinRefLen)
	}

	var (
		found   Task
		section Section
		matches int
	)
	for _, s := range l.sections() {
		for _, t := range s.tasks {
			if strings.HasPrefix(t.ID, ref) {
				found, section = t, s.name
				matches++
			}
		}
	}
	switch matches {
	case 0:
		return Task{}, "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return found, section, nil
	default:
		return Task{}, "", fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguous, ref, matches)
	}
}

// Load replaces the in-memory lists with the stored ones.
//
// Missing or malformed values load as empty lists and are logged, never
// returned. Only storage read errors are returned.
func (l *List) Load() error {
	pending, err := l.loadKey(KeyPending)
	if err != nil {
		return err
	}
	completed, err := l.loadKey(KeyCompleted)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(pending)+len(completed))
	l.pending = l.dedupe(pending, seen, KeyPending)
	l.completed = l.dedupe(completed, seen, KeyCompleted)

	l.logger.Info("loaded tasks", "pending", len(l.pending), "completed", len(l.completed))
	return nil
}

func (l *List) loadKey(key string) ([]Task, error) {
	value, ok, err := l.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	tasks, err := Decode([]byte(value))
	if err != nil {
		l.logger.Warn("ignoring malformed stored tasks", "key", key, "err", err)
		return nil, nil
	}
	return tasks, nil
}

func (l *List) dedupe(tasks []Task, seen map[string]bool, key string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			l.logger.Warn("dropping duplicate task id", "key", key, "id", t.ID)
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// Save writes both lists, "todos" first. An empty list deletes its key.
//
// The keys are written one at a time. If a write fails, the in-memory
// lists keep the change and storage holds whatever was written before
// the failure; the next successful Save brings them back in line.
func (l *List) Save() error {
	if err := l.saveKey(KeyPending, l.pending); err != nil {
		return err
	}
	return l.saveKey(KeyCompleted, l.completed)
}

func (l *List) saveKey(key string, tasks []Task) error {
	if len(tasks) == 0 {
		if err := l.store.Delete(key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
		return nil
	}
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := l.store.Set(key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

type sectionTasks struct {
	name  Section
	tasks []Task
}

func (l *List) sections() []sectionTasks {
	return []sectionTasks{
		{name: SectionPending, tasks: l.pending},
		{name: SectionCompleted, tasks: l.completed},
	}
}

func indexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.DueDate = dueOrNil(t.DueDate)
		out[i] = t
	}
	return out
}
