package store

import (
	"strings"

	"github.com/sandeepkv93/taskmark/internal/model"
)

// Tasks returns a copy of every task, most recent first.
func (s *Store) Tasks() []model.Task {
	return s.collect(func(model.Task) bool { return true })
}

func (s *Store) Task(id string) (model.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

func (s *Store) Composition() Composition {
	return s.comp
}

func (s *Store) HasTasks() bool {
	return len(s.tasks) > 0
}

func (s *Store) CompletedTasks() []model.Task {
	return s.collect(func(t model.Task) bool { return t.Completed })
}

func (s *Store) PendingTasks() []model.Task {
	return s.collect(func(t model.Task) bool { return !t.Completed })
}

// EditingTask resolves the editing target. A target id with no matching
// task is stale and resolves to nothing.
func (s *Store) EditingTask() (model.Task, bool) {
	return s.Task(s.comp.EditingTaskID)
}

// HasText reports whether the editing target carries any text.
func (s *Store) HasText() bool {
	task, ok := s.EditingTask()
	return ok && task.Text != ""
}

// HasUnsavedEdits reports whether the draft differs from the text that was
// loaded for editing.
func (s *Store) HasUnsavedEdits() bool {
	if _, ok := s.EditingTask(); !ok {
		return false
	}
	return s.comp.RawText != s.comp.EditableText
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterPending, FilterCompleted:
		return true
	default:
		return false
	}
}

// Next cycles all -> pending -> completed -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterPending
	case FilterPending:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Filtered narrows the task list by completion state and, when category is
// non-empty, by a category such as "#work".
func (s *Store) Filtered(f Filter, category string) []model.Task {
	category = strings.TrimSpace(category)
	if category != "" && !strings.HasPrefix(category, "#") {
		category = "#" + category
	}
	return s.collect(func(t model.Task) bool {
		switch f {
		case FilterPending:
			if t.Completed {
				return false
			}
		case FilterCompleted:
			if !t.Completed {
				return false
			}
		}
		return category == "" || t.Metadata.HasCategory(category)
	})
}

func (s *Store) collect(keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}
