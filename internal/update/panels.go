package update

import (
	"strings"
	"time"

	"github.com/sandeepkv93/taskmark/internal/model"
	"github.com/sandeepkv93/taskmark/internal/views"
)

const maxNotifications = 40

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderTaskList() string {
	c := m.Store.Composition()
	visible := m.visibleTasks()
	rows := make([]views.TaskRowData, 0, len(visible))
	for i, t := range visible {
		rows = append(rows, views.TaskRowData{
			Position:  i + 1,
			Text:      t.Text,
			Completed: t.Completed,
			Selected:  t.ID == m.SelectedTaskID && !m.composerActive(),
			Editing:   t.ID == c.EditingTaskID,
		})
	}
	return views.RenderTaskList(views.TaskListData{
		Filter:    string(m.Filter),
		Category:  m.Category,
		Rows:      rows,
		Pending:   len(m.Store.PendingTasks()),
		Completed: len(m.Store.CompletedTasks()),
	})
}

func (m Model) renderComposer() string {
	c := m.Store.Composition()
	return views.RenderComposer(views.ComposerData{
		InputView: m.composer.View(),
		Text:      c.RawText,
		Active:    m.composerActive(),
		Editing:   c.EditingTaskID != "",
		Unsaved:   m.Store.HasUnsavedEdits(),
	})
}

func (m Model) renderDetailPane() string {
	if m.detailSource == "" {
		return views.RenderDetailPane("")
	}
	return views.RenderDetailPane(m.detailViewport.View())
}

func (m Model) renderSessionBadge() string {
	data := views.SessionData{Loading: m.LoggingIn, SpinnerView: m.loginSpinner.View()}
	if m.Session != nil {
		if u := m.Session.User(); u != nil {
			data.Name, data.UserID = u.Name, u.ID
		}
	}
	return views.RenderSessionBadge(data)
}

func detailMarkdown(t model.Task) string {
	return views.TaskDetailMarkdown(views.TaskDetailData{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		Metadata:  t.Metadata,
	})
}

func renderMarkdown(md string, width int) string {
	return views.RenderMarkdown(md, width)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}
