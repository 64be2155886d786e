// Package auth holds the signed-in user for the task list. The list itself
// never depends on it; the UI shows the user and offers login and logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

var (
	ErrLoginInProgress = errors.New("auth: login already in progress")
	ErrNoAuthenticator = errors.New("auth: no authenticator configured")
)

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Authenticator resolves a user. Implementations must honour ctx.
type Authenticator interface {
	Authenticate(ctx context.Context) (User, error)
}

type Options struct {
	// SessionFile stores the signed-in user as JSON. Empty disables persistence.
	SessionFile string
	// AutoLogin signs in on Initialize when no saved user exists.
	AutoLogin bool
	Logger    *slog.Logger
}

// Session is safe for concurrent use: Login typically runs inside a
// background command while the UI reads User and IsLoading.
type Session struct {
	mu      sync.RWMutex
	user    *User
	loading bool

	auth Authenticator
	opts Options
	log  *slog.Logger
}

func NewSession(a Authenticator, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{auth: a, opts: opts, log: logger}
}

// User returns a copy of the signed-in user, nil when signed out.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) Login(ctx context.Context) error {
	if s.auth == nil {
		return ErrNoAuthenticator
	}
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrLoginInProgress
	}
	s.loading = true
	s.mu.Unlock()

	user, err := s.auth.Authenticate(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		s.log.Warn("login failed", "error", err)
		return fmt.Errorf("login: %w", err)
	}
	s.user = &user
	s.mu.Unlock()

	s.log.Info("logged in", "user_id", user.ID)
	if err := saveUser(s.opts.SessionFile, user); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Session) Logout() error {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()

	if prev != nil {
		s.log.Info("logged out", "user_id", prev.ID)
	}
	if err := removeUser(s.opts.SessionFile); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Initialize restores a saved user. Without one it logs in when AutoLogin
// is set; otherwise the session stays signed out.
func (s *Session) Initialize(ctx context.Context) error {
	saved, err := loadUser(s.opts.SessionFile)
	if err != nil {
		s.log.Warn("ignoring unreadable session file", "path", s.opts.SessionFile, "error", err)
	}
	if saved != nil {
		s.mu.Lock()
		s.user = saved
		s.mu.Unlock()
		s.log.Info("session restored", "user_id", saved.ID)
		return nil
	}
	if !s.opts.AutoLogin {
		return nil
	}
	return s.Login(ctx)
}
