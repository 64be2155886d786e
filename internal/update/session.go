package update

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

var errNoSession = errors.New("login is not configured")

func (m Model) initSessionCmd() tea.Cmd {
	s := m.Session
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		return SessionReadyMsg{Err: s.Initialize(context.Background())}
	}
}

// startLogin marks the UI as signing in and returns the login command
// batched with the spinner.
func (m *Model) startLogin() tea.Cmd {
	if m.Session == nil {
		m.Status = StatusBar{Text: errNoSession.Error(), IsError: true}
		return nil
	}
	if m.LoggingIn || m.Session.IsLoading() {
		m.Status = StatusBar{Text: "login already in progress"}
		return nil
	}
	m.LoggingIn = true
	m.Status = StatusBar{Text: "signing in"}
	s := m.Session
	login := func() tea.Msg {
		err := s.Login(context.Background())
		return LoginResultMsg{User: s.User(), Err: err}
	}
	return tea.Batch(m.loginSpinner.Tick, login)
}

func (m *Model) startLogout() tea.Cmd {
	if m.Session == nil {
		m.Status = StatusBar{Text: errNoSession.Error(), IsError: true}
		return nil
	}
	s := m.Session
	return func() tea.Msg {
		return LogoutResultMsg{Err: s.Logout()}
	}
}

func (m *Model) toggleSession() tea.Cmd {
	if m.Session != nil && m.Session.IsAuthenticated() {
		return m.startLogout()
	}
	return m.startLogin()
}
