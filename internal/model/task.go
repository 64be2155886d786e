package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidMetadataKind = errors.New("model: invalid metadata kind")

// MetadataKind names one of the four lists carried by TaskMetadata.
type MetadataKind string

const (
	MetadataCategory MetadataKind = "category"
	MetadataUser     MetadataKind = "user"
	MetadataEmail    MetadataKind = "email"
	MetadataURL      MetadataKind = "url"
)

func (k MetadataKind) IsValid() bool {
	switch k {
	case MetadataCategory, MetadataUser, MetadataEmail, MetadataURL:
		return true
	default:
		return false
	}
}

func ParseMetadataKind(raw string) (MetadataKind, error) {
	k := MetadataKind(strings.ToLower(strings.TrimSpace(raw)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMetadataKind, raw)
	}
	return k, nil
}

// TaskMetadata is derived from a task's full text. Every list holds the
// literal matches, deduplicated, in first-occurrence order.
type TaskMetadata struct {
	RawText    string   `json:"rawText"`
	Categories []string `json:"categories"`
	Users      []string `json:"users"`
	Emails     []string `json:"emails"`
	URLs       []string `json:"urls"`
}

func (m TaskMetadata) Values(kind MetadataKind) []string {
	switch kind {
	case MetadataCategory:
		return m.Categories
	case MetadataUser:
		return m.Users
	case MetadataEmail:
		return m.Emails
	case MetadataURL:
		return m.URLs
	default:
		return nil
	}
}

func (m *TaskMetadata) Append(kind MetadataKind, value string) {
	switch kind {
	case MetadataCategory:
		m.Categories = append(m.Categories, value)
	case MetadataUser:
		m.Users = append(m.Users, value)
	case MetadataEmail:
		m.Emails = append(m.Emails, value)
	case MetadataURL:
		m.URLs = append(m.URLs, value)
	}
}

func (m TaskMetadata) IsEmpty() bool {
	return len(m.Categories) == 0 && len(m.Users) == 0 && len(m.Emails) == 0 && len(m.URLs) == 0
}

func (m TaskMetadata) HasCategory(category string) bool {
	for _, c := range m.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

func (m TaskMetadata) Clone() TaskMetadata {
	return TaskMetadata{
		RawText:    m.RawText,
		Categories: cloneStrings(m.Categories),
		Users:      cloneStrings(m.Users),
		Emails:     cloneStrings(m.Emails),
		URLs:       cloneStrings(m.URLs),
	}
}

type Task struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
	Metadata  TaskMetadata
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("model: task text is required")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Metadata.RawText != t.Text {
		return errors.New("model: metadata raw text must match task text")
	}
	return nil
}

func (t Task) Clone() Task {
	out := t
	out.Metadata = t.Metadata.Clone()
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
