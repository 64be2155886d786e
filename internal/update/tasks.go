package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Compose, "enter":
		cmd := m.focusComposer()
		m.Status = StatusBar{Text: "writing new task"}
		return m, cmd
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.visibleTasks())-1 {
			m.Cursor++
		}
	case m.Keys.Toggle, "space":
		return m, m.toggleSelected()
	case m.Keys.Edit:
		task, ok := m.selectedTask()
		if !ok {
			m.Status = StatusBar{Text: "no task selected", IsError: true}
			return m, nil
		}
		cmd, _ := m.beginEdit(task.ID)
		return m, cmd
	case m.Keys.Delete:
		return m, m.deleteSelected()
	case m.Keys.Filter:
		m.setView(m.Filter.Next(), m.Category)
		if !m.Status.IsError {
			m.Status = StatusBar{Text: fmt.Sprintf("showing %s tasks", m.Filter)}
		}
	case "c":
		if m.Category != "" {
			m.setView(m.Filter, "")
			if !m.Status.IsError {
				m.Status = StatusBar{Text: "category filter cleared"}
			}
		}
	case "pgdown":
		m.detailViewport.HalfViewDown()
	case "pgup":
		m.detailViewport.HalfViewUp()
	}
	return m, nil
}

func (m *Model) toggleSelected() tea.Cmd {
	task, ok := m.Store.ToggleComplete(m.SelectedTaskID)
	if !ok {
		return nil
	}
	state := "pending"
	if task.Completed {
		state = "completed"
	}
	m.logger.Info("task toggled", "task_id", task.ID, "completed", task.Completed)
	m.Status = StatusBar{Text: "task marked " + state}
	return m.persistUpdateCmd(task)
}

func (m *Model) deleteSelected() tea.Cmd {
	id := m.SelectedTaskID
	if !m.Store.DeleteTask(id) {
		return nil
	}
	m.logger.Info("task deleted", "task_id", id)
	m.Status = StatusBar{Text: "task deleted"}
	return m.persistDeleteCmd(id)
}
