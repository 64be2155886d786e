package update

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskmark/internal/model"
	"github.com/sandeepkv93/taskmark/internal/storage"
)

const persistTimeout = 5 * time.Second

// The store is the source of truth. These commands mirror each change into
// the repository and report failures as AppErrorMsg; they never roll the
// store back.

// writeQueue runs repository writes one at a time in the order they were
// enqueued. bubbletea runs every returned Cmd on its own goroutine, so the
// order is fixed at enqueue time, inside Update, not when the Cmd runs.
type writeQueue struct {
	mu   sync.Mutex
	tail chan struct{}
}

func (q *writeQueue) enqueue(fn func()) {
	q.mu.Lock()
	prev := q.tail
	done := make(chan struct{})
	q.tail = done
	q.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		fn()
	}()
}

// wait blocks until every write enqueued so far has finished.
func (q *writeQueue) wait() {
	q.mu.Lock()
	tail := q.tail
	q.mu.Unlock()
	if tail != nil {
		<-tail
	}
}

// FlushWrites blocks until pending repository writes are done. Call it after
// the program exits so the last changes reach the database.
func (m Model) FlushWrites() {
	if m.writes != nil {
		m.writes.wait()
	}
}

func (m Model) loadTasksCmd() tea.Cmd {
	repo, limit := m.repo, m.loadLimit
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		rows, err := repo.ListTasks(ctx, storage.TaskListFilter{Limit: limit})
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("load tasks: %w", err)}
		}
		tasks := make([]model.Task, 0, len(rows))
		for _, row := range rows {
			tasks = append(tasks, row.Model())
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

func (m Model) persistCreateCmd(task model.Task) tea.Cmd {
	return m.mirror("save task", func(ctx context.Context, repo storage.Repository) error {
		return repo.CreateTask(ctx, storage.TaskFromModel(task))
	})
}

func (m Model) persistUpdateCmd(task model.Task) tea.Cmd {
	return m.mirror("update task", func(ctx context.Context, repo storage.Repository) error {
		return repo.UpdateTask(ctx, storage.TaskFromModel(task))
	})
}

func (m Model) persistDeleteCmd(id string) tea.Cmd {
	return m.mirror("delete task", func(ctx context.Context, repo storage.Repository) error {
		return repo.DeleteTask(ctx, id)
	})
}

// mirror enqueues the write right away and returns a Cmd that reports its
// outcome.
func (m Model) mirror(op string, fn func(context.Context, storage.Repository) error) tea.Cmd {
	repo, logger := m.repo, m.logger
	if repo == nil || m.writes == nil {
		return nil
	}
	result := make(chan error, 1)
	m.writes.enqueue(func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		result <- fn(ctx, repo)
	})
	return func() tea.Msg {
		if err := <-result; err != nil {
			logger.Error("storage mirror failed", "op", op, "error", err)
			return AppErrorMsg{Err: fmt.Errorf("%s: %w", op, err)}
		}
		return nil
	}
}
