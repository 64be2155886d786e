package auth

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type sessionState struct {
	User *User `json:"user"`
}

func saveUser(path string, user User) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(sessionState{User: &user}, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadUser(path string) (*User, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil, nil
	}
	var state sessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	if state.User == nil || strings.TrimSpace(state.User.ID) == "" {
		return nil, nil
	}
	return state.User, nil
}

func removeUser(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
