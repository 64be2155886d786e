package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskmark/internal/commands"
	"github.com/sandeepkv93/taskmark/internal/model"
	"github.com/sandeepkv93/taskmark/internal/store"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, ok := m.Store.AddTask(a.Text, nil)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "add requires task text"}
			}
			m.blurComposer()
			m.revealTask(task.ID)
			follow = m.persistCreateCmd(task)
			return commands.Result{Message: fmt.Sprintf("added task: %s", task.Text)}, nil
		},
		Done: func(t commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTarget(t)
			if err != nil {
				return commands.Result{}, err
			}
			if task.Completed {
				return commands.Result{Message: fmt.Sprintf("task %d already completed", t.Position)}, nil
			}
			updated, _ := m.Store.ToggleComplete(task.ID)
			follow = m.persistUpdateCmd(updated)
			return commands.Result{Message: fmt.Sprintf("completed task %d", t.Position)}, nil
		},
		Delete: func(t commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTarget(t)
			if err != nil {
				return commands.Result{}, err
			}
			m.Store.DeleteTask(task.ID)
			m.blurComposer()
			follow = m.persistDeleteCmd(task.ID)
			return commands.Result{Message: fmt.Sprintf("deleted task %d", t.Position)}, nil
		},
		Edit: func(t commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTarget(t)
			if err != nil {
				return commands.Result{}, err
			}
			m.revealTask(task.ID)
			follow, _ = m.beginEdit(task.ID)
			return commands.Result{Message: fmt.Sprintf("editing task %d", t.Position)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			m.setView(store.Filter(s.Subject), s.Tag)
			msg := fmt.Sprintf("showing %s tasks", m.Filter)
			if m.Category != "" {
				msg += " tagged " + m.Category
			}
			return commands.Result{Message: msg}, nil
		},
		Login: func() (commands.Result, error) {
			if m.Session == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: errNoSession.Error()}
			}
			follow = m.startLogin()
			return commands.Result{Message: m.Status.Text}, nil
		},
		Logout: func() (commands.Result, error) {
			if m.Session == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: errNoSession.Error()}
			}
			follow = m.startLogout()
			return commands.Result{Message: "signing out"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	m.notify("Command", res.Message, "info")
	return m, follow
}

func (m Model) resolveTarget(t commands.TargetArgs) (model.Task, error) {
	task, ok := m.taskAt(t.Position)
	if !ok {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task at position %d", t.Position)}
	}
	return task, nil
}
