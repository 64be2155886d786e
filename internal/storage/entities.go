package storage

import (
	"time"

	"github.com/sandeepkv93/taskmark/internal/model"
)

type Task struct {
	ID         string
	Text       string
	Completed  bool
	CreatedAt  time.Time
	Categories []string
	Users      []string
	Emails     []string
	URLs       []string
}

const (
	StatePending   = "pending"
	StateCompleted = "completed"
)

type TaskListFilter struct {
	State    string
	Category string
	Limit    int
	Offset   int
}

type CategoryCount struct {
	Name  string
	Tasks int
}

func TaskFromModel(t model.Task) Task {
	md := t.Metadata.Clone()
	return Task{
		ID:         t.ID,
		Text:       t.Text,
		Completed:  t.Completed,
		CreatedAt:  t.CreatedAt,
		Categories: md.Categories,
		Users:      md.Users,
		Emails:     md.Emails,
		URLs:       md.URLs,
	}
}

func (t Task) Model() model.Task {
	return model.Task{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		Metadata: model.TaskMetadata{
			RawText:    t.Text,
			Categories: nonNil(t.Categories),
			Users:      nonNil(t.Users),
			Emails:     nonNil(t.Emails),
			URLs:       nonNil(t.URLs),
		},
	}
}

func (t *Task) setMetadata(md model.TaskMetadata) {
	t.Categories = md.Categories
	t.Users = md.Users
	t.Emails = md.Emails
	t.URLs = md.URLs
}

func (t Task) metadataRows() []metadataRow {
	rows := make([]metadataRow, 0, len(t.Categories)+len(t.Users)+len(t.Emails)+len(t.URLs))
	add := func(kind model.MetadataKind, values []string) {
		for i, v := range values {
			rows = append(rows, metadataRow{Kind: kind, Value: v, Position: i})
		}
	}
	add(model.MetadataCategory, t.Categories)
	add(model.MetadataUser, t.Users)
	add(model.MetadataEmail, t.Emails)
	add(model.MetadataURL, t.URLs)
	return rows
}

type metadataRow struct {
	Kind     model.MetadataKind
	Value    string
	Position int
}

func nonNil(in []string) []string {
	if in == nil {
		return make([]string, 0)
	}
	return in
}
