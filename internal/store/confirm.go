package store

import (
	"strings"

	"github.com/sandeepkv93/taskmark/internal/model"
	"github.com/sandeepkv93/taskmark/internal/parser"
)

type CommitKind string

const (
	CommitCreated CommitKind = "created"
	CommitUpdated CommitKind = "updated"
	CommitIgnored CommitKind = "ignored"
)

type CommitResult struct {
	Kind CommitKind
	Task model.Task
}

// Confirm commits the draft: it updates the editing target when there is
// one, otherwise it creates a task. A blank draft commits nothing and
// leaves the composition as it was.
func (s *Store) Confirm() CommitResult {
	text := s.comp.RawText
	if strings.TrimSpace(text) == "" {
		return CommitResult{Kind: CommitIgnored}
	}
	md := parser.Extract(text)
	if target, ok := s.EditingTask(); ok {
		task, _ := s.UpdateTask(target.ID, TaskUpdate{Text: &text, Metadata: &md})
		return CommitResult{Kind: CommitUpdated, Task: task}
	}
	task, _ := s.AddTask(text, &md)
	return CommitResult{Kind: CommitCreated, Task: task}
}
