package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("storage: not found")
	ErrInvalidTask = errors.New("storage: invalid task")
)

// Repository mirrors the in-memory task list. It is never consulted for
// synchronous reads by the UI.
type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)
	ListCategories(ctx context.Context) ([]CategoryCount, error)
	Close() error
}
