// Package store owns the task list and the composition state for a single
// task list. Commands run synchronously and enforce the cross-field
// invariants themselves:
//
//   - an editing target and input focus are mutually exclusive
//   - DisplayHTML is always the display render of RawText
//
// A Store is not safe for concurrent use; callers serialize commands.
package store

import (
	"crypto/rand"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sandeepkv93/taskmark/internal/model"
	"github.com/sandeepkv93/taskmark/internal/parser"
)

type Composition struct {
	RawText        string
	DisplayHTML    string
	IsInputFocused bool
	// EditingTaskID is empty when no task is being edited.
	EditingTaskID string
	// EditableText is the committed text of the task loaded for editing.
	EditableText string
}

// TaskUpdate carries the fields to merge into an existing task. Nil fields
// are left untouched.
type TaskUpdate struct {
	Text      *string
	Completed *bool
	Metadata  *model.TaskMetadata
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		if next != nil {
			s.newID = next
		}
	}
}

type Store struct {
	tasks   []model.Task
	comp    Composition
	now     func() time.Time
	newID   func() string
	entropy io.Reader
	lastMS  uint64
}

func New(opts ...Option) *Store {
	s := &Store{
		tasks:   make([]model.Task, 0),
		now:     func() time.Time { return time.Now().UTC() },
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	s.newID = s.nextULID
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nextULID never hands out a timestamp below the last one used. When the
// monotonic entropy for a millisecond runs out it moves on to the next
// millisecond, and panics like ulid.MustNew if that fails too.
func (s *Store) nextULID() string {
	ms := ulid.Timestamp(s.now())
	if ms < s.lastMS {
		ms = s.lastMS
	}
	id, err := ulid.New(ms, s.entropy)
	if err != nil {
		ms++
		id = ulid.MustNew(ms, s.entropy)
	}
	s.lastMS = ms
	return id.String()
}

// UpdateText replaces the draft and re-derives its display markup.
func (s *Store) UpdateText(text string) {
	s.comp.RawText = text
	s.comp.DisplayHTML = parser.Render(text, parser.ModeDisplay)
}

// SetInputFocus moves focus to or away from the composer. Focusing drops
// any editing target. Blurring outside of an edit discards the draft.
func (s *Store) SetInputFocus(focused bool) {
	s.comp.IsInputFocused = focused
	if focused {
		s.comp.EditingTaskID = ""
		s.comp.EditableText = ""
		return
	}
	if s.comp.EditingTaskID == "" {
		s.resetDraft()
	}
}

// SetEditingTask makes id the editing target. The draft is emptied; call
// LoadEditingTask to bring the task's text into it.
func (s *Store) SetEditingTask(id string) {
	s.comp.EditingTaskID = id
	s.comp.IsInputFocused = false
	s.comp.EditableText = ""
	s.resetDraft()
}

// LoadEditingTask copies the editing target's text into the draft. A stale
// target is cleared. It reports whether a task was loaded.
func (s *Store) LoadEditingTask() bool {
	task, ok := s.EditingTask()
	if !ok {
		s.ClearEditing()
		return false
	}
	s.UpdateText(task.Text)
	s.comp.EditableText = task.Text
	return true
}

// ClearEditing returns to idle.
func (s *Store) ClearEditing() {
	s.comp = Composition{}
}

// CancelEditing abandons an edit in progress, leaving the task untouched.
func (s *Store) CancelEditing() {
	s.ClearEditing()
}

// AddTask prepends a new task. A nil metadata is extracted from text.
// Whitespace-only text is ignored and reported with ok=false.
func (s *Store) AddTask(text string, metadata *model.TaskMetadata) (model.Task, bool) {
	if strings.TrimSpace(text) == "" {
		return model.Task{}, false
	}
	md := parser.Extract(text)
	if metadata != nil {
		md = metadata.Clone()
	}
	task := model.Task{
		ID:        s.newID(),
		Text:      text,
		Completed: false,
		CreatedAt: s.now(),
		Metadata:  md,
	}
	s.tasks = append([]model.Task{task}, s.tasks...)
	s.ClearEditing()
	return task.Clone(), true
}

// UpdateTask merges u into the task with id. Editing is cleared whether or
// not the task exists.
func (s *Store) UpdateTask(id string, u TaskUpdate) (model.Task, bool) {
	defer s.ClearEditing()
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	task := &s.tasks[i]
	if u.Text != nil {
		task.Text = *u.Text
	}
	if u.Completed != nil {
		task.Completed = *u.Completed
	}
	switch {
	case u.Metadata != nil:
		task.Metadata = u.Metadata.Clone()
	case u.Text != nil:
		task.Metadata = parser.Extract(task.Text)
	}
	return task.Clone(), true
}

func (s *Store) ToggleComplete(id string) (model.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.tasks[i].Clone(), true
}

func (s *Store) DeleteTask(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	if s.comp.EditingTaskID == id {
		s.ClearEditing()
	}
	return true
}

// Merge folds a task list loaded from persistence into the store. Tasks the
// store already holds win over loaded rows with the same id. Tasks absent
// from the loaded list were made after the load was issued and stay in
// front. Loaded order is kept as given, most recent first.
func (s *Store) Merge(loaded []model.Task) {
	seen := make(map[string]bool, len(loaded))
	for _, t := range loaded {
		seen[t.ID] = true
	}
	merged := make([]model.Task, 0, len(s.tasks)+len(loaded))
	for _, t := range s.tasks {
		if !seen[t.ID] {
			merged = append(merged, t)
		}
	}
	for _, t := range loaded {
		if i := s.indexOf(t.ID); i >= 0 {
			merged = append(merged, s.tasks[i])
			continue
		}
		merged = append(merged, t.Clone())
	}
	s.tasks = merged
	if s.comp.EditingTaskID != "" && s.indexOf(s.comp.EditingTaskID) < 0 {
		s.ClearEditing()
	}
}

// ParseText renders text in edit mode.
func (s *Store) ParseText(text string) string {
	return parser.Render(text, parser.ModeEdit)
}

func (s *Store) resetDraft() {
	s.comp.RawText = ""
	s.comp.DisplayHTML = ""
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
