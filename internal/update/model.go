package update

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/taskmark/internal/auth"
	"github.com/sandeepkv93/taskmark/internal/logging"
	"github.com/sandeepkv93/taskmark/internal/model"
	"github.com/sandeepkv93/taskmark/internal/storage"
	"github.com/sandeepkv93/taskmark/internal/store"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Compose string
	Edit    string
	Toggle  string
	Delete  string
	Filter  string
	Login   string
	Help    string
	Quit    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// Deps are the collaborators the UI drives. Only Store is required.
type Deps struct {
	Store   *store.Store
	Session *auth.Session
	Repo    storage.Repository
	Logger  *slog.Logger
}

type Model struct {
	Store   *store.Store
	Session *auth.Session

	Filter         store.Filter
	Category       string
	Cursor         int
	SelectedTaskID string
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	LoggingIn      bool

	repo   storage.Repository
	writes *writeQueue
	logger *slog.Logger

	composer       textinput.Model
	commandInput   textinput.Model
	loginSpinner   spinner.Model
	helpModel      help.Model
	detailViewport viewport.Model
	detailSource   string

	stateFilePath string
	loadLimit     int
	paneWidth     int
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// TasksLoadedMsg carries the task list read back from storage.
type TasksLoadedMsg struct {
	Tasks []model.Task
}

type SessionReadyMsg struct {
	Err error
}

type LoginResultMsg struct {
	User *auth.User
	Err  error
}

type LogoutResultMsg struct {
	Err error
}

func NewModel() Model {
	return NewModelWithConfig(Deps{}, DefaultRuntimeConfig())
}

func NewModelWithConfig(deps Deps, cfg RuntimeConfig) Model {
	st := deps.Store
	if st == nil {
		st = store.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	m := Model{
		Store:   st,
		Session: deps.Session,
		Filter:  store.FilterAll,
		Keys: GlobalKeyMap{
			Compose: "i",
			Edit:    "e",
			Toggle:  " ",
			Delete:  "d",
			Filter:  "f",
			Login:   "L",
			Help:    "?",
			Quit:    "q",
		},
		repo:          deps.Repo,
		writes:        &writeQueue{},
		logger:        logger,
		stateFilePath: strings.TrimSpace(cfg.StateFile),
		loadLimit:     cfg.LoadLimit,
		paneWidth:     defaultPaneWidth,
	}
	if deps.Session != nil && cfg.AutoLogin {
		// Initialize may log in; show the spinner until SessionReadyMsg.
		m.LoggingIn = true
	}
	if cfg.DefaultFilter.IsValid() {
		m.Filter = cfg.DefaultFilter
	}
	if m.stateFilePath != "" {
		if saved, err := loadViewState(m.stateFilePath); err != nil {
			m.logger.Warn("ignoring unreadable view state", "path", m.stateFilePath, "error", err)
		} else if saved != nil {
			if saved.Filter.IsValid() {
				m.Filter = saved.Filter
			}
			m.Category = saved.Category
		}
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

const defaultPaneWidth = 58

func (m *Model) initBubbleComponents() {
	m.composer = textinput.New()
	m.composer.Prompt = "> "
	m.composer.Placeholder = "Write a task, use #tags @people emails and links"
	m.composer.CharLimit = 512
	m.composer.Width = m.paneWidth - 4

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = m.paneWidth - 4

	m.loginSpinner = spinner.New()
	m.loginSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detailViewport = viewport.New(m.paneWidth, 14)
}

// syncBubbleData keeps cursor, selection and the detail pane consistent
// with the store after every update.
func (m *Model) syncBubbleData() {
	visible := m.visibleTasks()
	if m.Cursor >= len(visible) {
		m.Cursor = len(visible) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedTaskID = ""
	if len(visible) > 0 {
		m.SelectedTaskID = visible[m.Cursor].ID
	}

	md := ""
	if task, ok := m.Store.Task(m.SelectedTaskID); ok {
		md = detailMarkdown(task)
	}
	if md != m.detailSource {
		m.detailSource = md
		m.detailViewport.SetContent(renderMarkdown(md, m.paneWidth-2))
		m.detailViewport.GotoTop()
	}
}

func (m Model) visibleTasks() []model.Task {
	return m.Store.Filtered(m.Filter, m.Category)
}

func (m Model) selectedTask() (model.Task, bool) {
	return m.Store.Task(m.SelectedTaskID)
}

// taskAt resolves a 1-based position in the visible list.
func (m Model) taskAt(position int) (model.Task, bool) {
	visible := m.visibleTasks()
	if position < 1 || position > len(visible) {
		return model.Task{}, false
	}
	return visible[position-1], true
}

// composerActive reports whether keystrokes belong to the composer: either
// it has focus or a task is loaded for editing.
func (m Model) composerActive() bool {
	c := m.Store.Composition()
	return c.IsInputFocused || c.EditingTaskID != ""
}
