package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/taskmark/internal/store"
)

// viewState is the part of the UI that survives restarts.
type viewState struct {
	Filter   store.Filter `json:"filter"`
	Category string       `json:"category,omitempty"`
}

func (m *Model) persistViewState() error {
	if strings.TrimSpace(m.stateFilePath) == "" {
		return nil
	}
	dir := filepath.Dir(m.stateFilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(viewState{Filter: m.Filter, Category: m.Category}, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.stateFilePath + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.stateFilePath)
}

func loadViewState(path string) (*viewState, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil, nil
	}
	var state viewState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	state.Category = strings.TrimSpace(state.Category)
	return &state, nil
}

// setView changes the list filter and saves it. A failed save only shows up
// in the status bar.
func (m *Model) setView(f store.Filter, category string) {
	m.Filter = f
	m.Category = strings.TrimSpace(category)
	m.Cursor = 0
	if err := m.persistViewState(); err != nil {
		m.logger.Warn("save view state failed", "error", err)
		m.Status = StatusBar{Text: "view state not saved: " + err.Error(), IsError: true}
	}
}
