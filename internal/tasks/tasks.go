// Package tasks keeps the to-do list shown next to the timer.
package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"focustimer/internal/logging"
	"focustimer/internal/storage"
)

var logger = logging.For("tasks")

var (
	// ErrEmptyText is returned when a task text is blank after trimming.
	ErrEmptyText = errors.New("task text is required")
	// ErrNotFound is returned for an unknown task ID.
	ErrNotFound = errors.New("task not found")
)

// Task is one to-do entry. IDs are creation timestamps in milliseconds.
type Task struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"dueDate"`
	Notes     string     `json:"notes,omitempty"`
}

// KV is the subset of storage.Adapter the list needs.
type KV interface {
	GetString(key string) (string, bool)
	SetString(key, value string)
	Remove(key string)
}

// List is the persisted task list, newest first.
type List struct {
	kv  KV
	now func() time.Time

	mu     sync.Mutex
	tasks  []Task
	lastID int64
}

// Option configures a List.
type Option func(*List)

// WithClock overrides the clock used for task IDs.
func WithClock(now func() time.Time) Option {
	return func(list *List) {
		if now != nil {
			list.now = now
		}
	}
}

// Open loads the list from kv. A payload that is not a JSON array of tasks
// is logged, cleared and replaced with an empty list.
func Open(kv KV, options ...Option) *List {
	list := &List{kv: kv, now: time.Now}
	for _, option := range options {
		option(list)
	}
	list.tasks = list.load()
	for _, task := range list.tasks {
		if task.ID > list.lastID {
			list.lastID = task.ID
		}
	}
	return list
}

// Tasks returns a copy of the list.
func (list *List) Tasks() []Task {
	list.mu.Lock()
	defer list.mu.Unlock()
	out := make([]Task, len(list.tasks))
	for i, task := range list.tasks {
		out[i] = task.clone()
	}
	return out
}

// Get returns one task.
func (list *List) Get(id int64) (Task, error) {
	list.mu.Lock()
	defer list.mu.Unlock()
	index := list.indexLocked(id)
	if index < 0 {
		return Task{}, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	return list.tasks[index].clone(), nil
}

// Add prepends a new open task.
func (list *List) Add(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}

	list.mu.Lock()
	defer list.mu.Unlock()

	id := list.now().UnixMilli()
	if id <= list.lastID {
		id = list.lastID + 1
	}
	list.lastID = id

	task := Task{ID: id, Text: text}
	list.tasks = append([]Task{task}, list.tasks...)
	list.saveLocked()
	return task, nil
}

// Toggle flips the completed flag.
func (list *List) Toggle(id int64) (Task, error) {
	return list.update(id, "toggle", func(task *Task) { task.Completed = !task.Completed })
}

// SetDueDate sets or, with nil, clears the due date.
func (list *List) SetDueDate(id int64, due *time.Time) (Task, error) {
	return list.update(id, "set due date", func(task *Task) {
		if due == nil {
			task.DueDate = nil
			return
		}
		value := due.UTC()
		task.DueDate = &value
	})
}

// SetNotes replaces the notes.
func (list *List) SetNotes(id int64, notes string) (Task, error) {
	return list.update(id, "set notes", func(task *Task) { task.Notes = notes })
}

// SetText renames a task.
func (list *List) SetText(id int64, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	return list.update(id, "set text", func(task *Task) { task.Text = text })
}

// Delete removes a task.
func (list *List) Delete(id int64) error {
	list.mu.Lock()
	defer list.mu.Unlock()
	index := list.indexLocked(id)
	if index < 0 {
		return fmt.Errorf("delete task %d: %w", id, ErrNotFound)
	}
	list.tasks = append(list.tasks[:index], list.tasks[index+1:]...)
	list.saveLocked()
	return nil
}

func (list *List) update(id int64, action string, mutate func(*Task)) (Task, error) {
	list.mu.Lock()
	defer list.mu.Unlock()
	index := list.indexLocked(id)
	if index < 0 {
		return Task{}, fmt.Errorf("%s task %d: %w", action, id, ErrNotFound)
	}
	mutate(&list.tasks[index])
	list.saveLocked()
	return list.tasks[index].clone(), nil
}

func (list *List) indexLocked(id int64) int {
	for i, task := range list.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func (list *List) load() []Task {
	if list.kv == nil {
		return nil
	}
	raw, ok := list.kv.GetString(storage.KeyTasks)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var loaded []Task
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		logger.Errorf("discarding unreadable task list: %v", err)
		list.kv.Remove(storage.KeyTasks)
		return nil
	}
	return loaded
}

func (list *List) saveLocked() {
	if list.kv == nil {
		return
	}
	payload, err := json.Marshal(list.tasks)
	if err != nil {
		logger.Errorf("encode task list: %v", err)
		return
	}
	list.kv.SetString(storage.KeyTasks, string(payload))
}

func (task Task) clone() Task {
	if task.DueDate != nil {
		due := *task.DueDate
		task.DueDate = &due
	}
	return task
}
