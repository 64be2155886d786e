package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskmark/internal/store"
)

func (m Model) handleComposerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.Store.Composition().EditingTaskID != "" {
			m.Store.CancelEditing()
			m.Status = StatusBar{Text: "edit cancelled"}
		} else {
			m.Store.SetInputFocus(false)
		}
		m.blurComposer()
		return m, nil
	case "enter":
		return m.commitDraft()
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	m.Store.UpdateText(m.composer.Value())
	return m, cmd
}

func (m Model) commitDraft() (Model, tea.Cmd) {
	res := m.Store.Confirm()
	switch res.Kind {
	case store.CommitCreated:
		m.logger.Info("task created", "task_id", res.Task.ID)
		m.notify("Task", "added: "+res.Task.Text, "info")
		m.Status = StatusBar{Text: "task added"}
		// Stay in the composer so the next task can be typed right away.
		m.Store.SetInputFocus(true)
		m.composer.SetValue("")
		m.revealTask(res.Task.ID)
		return m, m.persistCreateCmd(res.Task)
	case store.CommitUpdated:
		m.logger.Info("task updated", "task_id", res.Task.ID)
		m.Status = StatusBar{Text: "task updated"}
		m.blurComposer()
		return m, m.persistUpdateCmd(res.Task)
	default:
		m.Status = StatusBar{Text: "nothing to save"}
		return m, nil
	}
}

func (m *Model) focusComposer() tea.Cmd {
	m.Store.SetInputFocus(true)
	m.composer.SetValue(m.Store.Composition().RawText)
	m.composer.CursorEnd()
	return m.composer.Focus()
}

// beginEdit loads the task with id into the composer.
func (m *Model) beginEdit(id string) (tea.Cmd, bool) {
	m.Store.SetEditingTask(id)
	if !m.Store.LoadEditingTask() {
		m.blurComposer()
		return nil, false
	}
	m.composer.SetValue(m.Store.Composition().RawText)
	m.composer.CursorEnd()
	m.Status = StatusBar{Text: "editing task"}
	return m.composer.Focus(), true
}

func (m *Model) blurComposer() {
	m.composer.SetValue(m.Store.Composition().RawText)
	m.composer.Blur()
}

// revealTask moves the cursor onto id when it is visible under the current
// filter.
func (m *Model) revealTask(id string) {
	for i, t := range m.visibleTasks() {
		if t.ID == id {
			m.Cursor = i
			return
		}
	}
}
