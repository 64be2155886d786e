package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskmark/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadTasksCmd(), m.initSessionCmd()}
	if m.LoggingIn {
		cmds = append(cmds, m.loginSpinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The store may have been changed outside the loop.
	m.syncBubbleData()
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.resize(typed.Width, typed.Height)
		return m, nil
	case spinner.TickMsg:
		if m.LoggingIn {
			var cmd tea.Cmd
			m.loginSpinner, cmd = m.loginSpinner.Update(typed)
			return m, cmd
		}
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case TasksLoadedMsg:
		sel := m.SelectedTaskID
		m.Store.Merge(typed.Tasks)
		m.Cursor = 0
		m.revealTask(sel)
		m.Status = StatusBar{Text: fmt.Sprintf("loaded %d task(s)", len(typed.Tasks))}
		m.logger.Info("tasks loaded", "count", len(typed.Tasks))
		return m, nil
	case SessionReadyMsg:
		m.LoggingIn = false
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case LoginResultMsg:
		m.LoggingIn = false
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Login", typed.Err.Error(), "error")
			return m, nil
		}
		name := "user"
		if typed.User != nil {
			name = typed.User.Name
		}
		m.Status = StatusBar{Text: "signed in as " + name}
		m.notify("Login", m.Status.Text, "info")
		return m, nil
	case LogoutResultMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: "signed out"}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.composerActive() {
		return m.handleComposerKey(msg)
	}

	switch keyStr {
	case "/":
		return m.openPalette(), nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Login:
		cmd := m.toggleSession()
		return m, cmd
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	return m.handleListKey(msg)
}

func (m *Model) resize(width, _ int) {
	pane := width/2 - 4
	if pane < 30 {
		pane = 30
	}
	m.paneWidth = pane
	m.composer.Width = pane - 4
	m.commandInput.Width = pane - 4
	m.detailViewport.Width = pane
	m.helpModel.Width = pane
	// Force the detail pane to re-wrap at the new width.
	m.detailSource = ""
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := m.renderComposer() + "\n\n" + m.renderTaskList()
	rightPane := m.renderDetailPane() + m.renderCommandPalette() + m.renderHelpIfVisible()

	selected := m.SelectedTaskID
	if selected == "" {
		selected = "-"
	}
	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("taskmark | %s | view: %s | selected: %s", m.renderSessionBadge(), m.viewLabel(), selected),
		LeftPane:      leftPane,
		RightPane:     rightPane,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  strings.TrimSpace(m.renderNotificationsView()),
		Footer: fmt.Sprintf("keys: %s write | %s edit | space toggle | %s delete | %s filter | / cmd | %s login | %s help | %s quit",
			m.Keys.Compose, m.Keys.Edit, m.Keys.Delete, m.Keys.Filter, m.Keys.Login, m.Keys.Help, m.Keys.Quit),
		PaneWidth: m.paneWidth,
	})
}

func (m Model) viewLabel() string {
	if m.Category == "" {
		return string(m.Filter)
	}
	return string(m.Filter) + " " + m.Category
}
