package update

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskmark/internal/auth"
	"github.com/sandeepkv93/taskmark/internal/storage"
	"github.com/sandeepkv93/taskmark/internal/store"
)

type fakeRepo struct {
	mu          sync.Mutex
	calls       []string
	tasks       []storage.Task
	failErr     error
	createDelay time.Duration
}

func (r *fakeRepo) record(op, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op+":"+id)
	return r.failErr
}

func (r *fakeRepo) CreateTask(_ context.Context, in storage.Task) error {
	time.Sleep(r.createDelay)
	return r.record("create", in.ID)
}
func (r *fakeRepo) GetTask(_ context.Context, id string) (storage.Task, error) {
	return storage.Task{}, storage.ErrNotFound
}
func (r *fakeRepo) UpdateTask(_ context.Context, in storage.Task) error {
	return r.record("update", in.ID)
}
func (r *fakeRepo) DeleteTask(_ context.Context, id string) error {
	return r.record("delete", id)
}
func (r *fakeRepo) ListTasks(_ context.Context, _ storage.TaskListFilter) ([]storage.Task, error) {
	return r.tasks, r.failErr
}
func (r *fakeRepo) ListCategories(_ context.Context) ([]storage.CategoryCount, error) {
	return nil, nil
}
func (r *fakeRepo) Close() error { return nil }

func newTestStore() *store.Store {
	n := 0
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	return store.New(
		store.WithClock(func() time.Time { return base.Add(time.Duration(n) * time.Second) }),
		store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("task-%d", n)
		}),
	)
}

func newTestModel(t *testing.T, repo storage.Repository) Model {
	t.Helper()
	cfg := DefaultRuntimeConfig()
	cfg.StateFile = filepath.Join(t.TempDir(), "state.json")
	deps := Deps{Store: newTestStore()}
	if repo != nil {
		deps.Repo = repo
	}
	return NewModelWithConfig(deps, cfg)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace}
)

// collect runs cmd and every command nested in a batch, returning the
// non-nil messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	if m.Filter != store.FilterAll {
		t.Fatalf("expected default filter all, got %q", m.Filter)
	}
	if m.Keys.Quit != "q" || m.Keys.Compose != "i" {
		t.Fatalf("unexpected keys: %+v", m.Keys)
	}
	if m.Store == nil || m.Store.HasTasks() {
		t.Fatal("expected an empty store")
	}
	if msgs := collect(m.Init()); len(msgs) != 0 {
		t.Fatalf("expected no startup messages without repo or session, got %v", msgs)
	}
}

func TestComposeAndCommitNewTask(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, runes("i"))
	if !m.Store.Composition().IsInputFocused {
		t.Fatal("expected composer focus")
	}

	m, _ = press(t, m, runes("Buy milk #home @ana"))
	c := m.Store.Composition()
	if c.RawText != "Buy milk #home @ana" || !strings.Contains(c.DisplayHTML, `title="#home"`) {
		t.Fatalf("unexpected composition: %+v", c)
	}

	m, _ = press(t, m, enterKey)
	tasks := m.Store.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "Buy milk #home @ana" {
		t.Fatalf("expected one task, got %+v", tasks)
	}
	if strings.Join(tasks[0].Metadata.Categories, ",") != "#home" || strings.Join(tasks[0].Metadata.Users, ",") != "@ana" {
		t.Fatalf("unexpected metadata: %+v", tasks[0].Metadata)
	}
	if !m.Store.Composition().IsInputFocused || m.Store.HasText() {
		t.Fatalf("expected empty focused composer after commit: %+v", m.Store.Composition())
	}
	if m.SelectedTaskID != "task-1" {
		t.Fatalf("expected new task selected, got %q", m.SelectedTaskID)
	}
}

func TestBlankCommitIsIgnored(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, runes("i"), runes("   "), enterKey)
	if m.Store.HasTasks() {
		t.Fatal("blank draft must not create a task")
	}
	if m.Status.Text != "nothing to save" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestEscBlursAndDropsDraft(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, runes("i"), runes("half typed"), escKey)
	c := m.Store.Composition()
	if c.IsInputFocused || c.RawText != "" {
		t.Fatalf("expected idle composition, got %+v", c)
	}
	// Back in list mode, q quits instead of typing.
	m, cmd := press(t, m, runes("q"))
	if !m.Quitting || cmd == nil {
		t.Fatal("expected quit from list mode")
	}
}

func TestEditSelectedTask(t *testing.T) {
	m := newTestModel(t, nil)
	m.Store.AddTask("draft notes #docs", nil)
	m, _ = press(t, m, runes("e"))

	c := m.Store.Composition()
	if c.EditingTaskID != "task-1" || c.RawText != "draft notes #docs" || c.EditableText != "draft notes #docs" {
		t.Fatalf("expected task loaded for editing, got %+v", c)
	}
	if m.Store.HasUnsavedEdits() {
		t.Fatal("no edits yet")
	}

	m, _ = press(t, m, runes(" @bo"))
	if !m.Store.HasUnsavedEdits() {
		t.Fatal("expected unsaved edits")
	}
	m, _ = press(t, m, enterKey)

	task, _ := m.Store.Task("task-1")
	if task.Text != "draft notes #docs @bo" || strings.Join(task.Metadata.Users, ",") != "@bo" {
		t.Fatalf("unexpected updated task: %+v", task)
	}
	if m.composerActive() {
		t.Fatalf("expected editing cleared, got %+v", m.Store.Composition())
	}
}

func TestEscCancelsEditWithoutChanges(t *testing.T) {
	m := newTestModel(t, nil)
	m.Store.AddTask("keep me", nil)
	m, _ = press(t, m, runes("e"), runes(" changed"), escKey)
	task, _ := m.Store.Task("task-1")
	if task.Text != "keep me" {
		t.Fatalf("cancel must leave task untouched, got %q", task.Text)
	}
	if m.composerActive() || m.Status.Text != "edit cancelled" {
		t.Fatalf("unexpected state after cancel: %+v %+v", m.Store.Composition(), m.Status)
	}
}

func TestListNavigationToggleAndDelete(t *testing.T) {
	m := newTestModel(t, nil)
	m.Store.AddTask("first", nil)
	m.Store.AddTask("second", nil)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.SelectedTaskID != "task-1" {
		t.Fatalf("expected cursor on older task, got %q", m.SelectedTaskID)
	}

	m, _ = press(t, m, spaceKey)
	if task, _ := m.Store.Task("task-1"); !task.Completed {
		t.Fatal("expected task toggled completed")
	}

	m, _ = press(t, m, runes("d"))
	if _, ok := m.Store.Task("task-1"); ok {
		t.Fatal("expected task deleted")
	}
	if m.SelectedTaskID != "task-2" || m.Cursor != 0 {
		t.Fatalf("expected cursor clamped, got %q at %d", m.SelectedTaskID, m.Cursor)
	}
}

func TestFilterCyclesAndPersists(t *testing.T) {
	m := newTestModel(t, nil)
	m.Store.AddTask("open", nil)
	done, _ := m.Store.AddTask("closed", nil)
	m.Store.ToggleComplete(done.ID)

	m, _ = press(t, m, runes("f"))
	if m.Filter != store.FilterPending || len(m.visibleTasks()) != 1 {
		t.Fatalf("expected pending filter, got %q with %d", m.Filter, len(m.visibleTasks()))
	}

	saved, err := loadViewState(m.stateFilePath)
	if err != nil || saved == nil || saved.Filter != store.FilterPending {
		t.Fatalf("expected persisted filter, got %+v, %v", saved, err)
	}

	cfg := DefaultRuntimeConfig()
	cfg.StateFile = m.stateFilePath
	restored := NewModelWithConfig(Deps{}, cfg)
	if restored.Filter != store.FilterPending {
		t.Fatalf("expected filter restored, got %q", restored.Filter)
	}
}

func TestPaletteCommands(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, runes("/"), runes("add call @ana #work"), enterKey)
	if m.Palette.Active || len(m.Store.Tasks()) != 1 {
		t.Fatalf("expected task added via palette, palette=%+v tasks=%d", m.Palette, len(m.Store.Tasks()))
	}

	m, _ = press(t, m, runes("/"), runes("done 1"), enterKey)
	if !m.Store.Tasks()[0].Completed {
		t.Fatal("expected task completed via palette")
	}

	m, _ = press(t, m, runes("/"), runes("show pending tag:#work"), enterKey)
	if m.Filter != store.FilterPending || m.Category != "#work" || len(m.visibleTasks()) != 0 {
		t.Fatalf("unexpected view after show: %q %q", m.Filter, m.Category)
	}

	m, _ = press(t, m, runes("/"), runes("done 3"), enterKey)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "invalid_argument") {
		t.Fatalf("expected invalid argument status, got %+v", m.Status)
	}

	m, _ = press(t, m, runes("/"), runes("login"), enterKey)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "handler_missing") {
		t.Fatalf("expected login without session to fail, got %+v", m.Status)
	}
}

func TestPaletteEditAndDelete(t *testing.T) {
	m := newTestModel(t, nil)
	m.Store.AddTask("one", nil)
	m.Store.AddTask("two", nil)

	m, _ = press(t, m, runes("/"), runes("edit 2"), enterKey)
	if c := m.Store.Composition(); c.EditingTaskID != "task-1" || c.RawText != "one" {
		t.Fatalf("expected task-1 loaded for edit, got %+v", c)
	}
	m, _ = press(t, m, escKey)

	m, _ = press(t, m, runes("/"), runes("delete 1"), enterKey)
	if _, ok := m.Store.Task("task-2"); ok {
		t.Fatal("expected task-2 deleted")
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, runes("/"), runes("add x"), escKey)
	if m.Palette.Active || m.Store.HasTasks() {
		t.Fatal("esc must close palette without running the command")
	}
}

func TestPersistenceMirror(t *testing.T) {
	repo := &fakeRepo{}
	m := newTestModel(t, repo)

	m, cmd := press(t, m, runes("i"), runes("persist me"), enterKey)
	if msgs := collect(cmd); len(msgs) != 0 {
		t.Fatalf("expected silent success, got %v", msgs)
	}
	m, _ = press(t, m, escKey)
	m, cmd = press(t, m, spaceKey)
	collect(cmd)
	m, cmd = press(t, m, runes("d"))
	collect(cmd)

	want := "create:task-1,update:task-1,delete:task-1"
	if got := strings.Join(repo.calls, ","); got != want {
		t.Fatalf("mirror calls = %q, want %q", got, want)
	}
}

func TestMirrorWritesKeepOrderWhenCmdsRunConcurrently(t *testing.T) {
	repo := &fakeRepo{createDelay: 20 * time.Millisecond}
	m := newTestModel(t, repo)

	m, createCmd := press(t, m, runes("i"), runes("short lived"), enterKey)
	m, _ = press(t, m, escKey)
	m, toggleCmd := press(t, m, spaceKey)
	m, deleteCmd := press(t, m, runes("d"))

	// bubbletea starts each Cmd on its own goroutine; start the last one first.
	msgs := make(chan tea.Msg, 3)
	var wg sync.WaitGroup
	for _, cmd := range []tea.Cmd{deleteCmd, toggleCmd, createCmd} {
		wg.Add(1)
		go func(c tea.Cmd) {
			defer wg.Done()
			for _, msg := range collect(c) {
				msgs <- msg
			}
		}(cmd)
	}
	wg.Wait()
	close(msgs)
	for msg := range msgs {
		t.Fatalf("unexpected mirror result: %#v", msg)
	}

	m.FlushWrites()
	repo.mu.Lock()
	got := strings.Join(repo.calls, ",")
	repo.mu.Unlock()
	if want := "create:task-1,update:task-1,delete:task-1"; got != want {
		t.Fatalf("mirror calls = %q, want %q", got, want)
	}
}

func TestPersistenceFailureBecomesStatus(t *testing.T) {
	repo := &fakeRepo{failErr: errors.New("disk full")}
	m := newTestModel(t, repo)
	m, cmd := press(t, m, runes("i"), runes("will fail"), enterKey)

	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one error message, got %v", msgs)
	}
	next, _ := m.Update(msgs[0])
	m = next.(Model)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "disk full") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if !m.Store.HasTasks() {
		t.Fatal("store must keep the task when the mirror fails")
	}
}

func TestInitLoadsTasksFromRepo(t *testing.T) {
	created := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{tasks: []storage.Task{
		{ID: "a", Text: "from disk #db", CreatedAt: created, Categories: []string{"#db"}},
	}}
	m := newTestModel(t, repo)

	msgs := collect(m.Init())
	if len(msgs) != 1 {
		t.Fatalf("expected one load message, got %v", msgs)
	}
	next, _ := m.Update(msgs[0])
	m = next.(Model)
	tasks := m.Store.Tasks()
	if len(tasks) != 1 || tasks[0].Metadata.RawText != "from disk #db" {
		t.Fatalf("unexpected loaded tasks: %+v", tasks)
	}
	if m.SelectedTaskID != "a" || m.detailSource == "" {
		t.Fatal("expected loaded task selected with detail")
	}
}

func TestLateLoadKeepsTasksCreatedMeanwhile(t *testing.T) {
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{tasks: []storage.Task{
		{ID: "old", Text: "old task", CreatedAt: created},
	}}
	m := newTestModel(t, repo)
	load := m.Init()

	m, cmd := press(t, m, runes("i"), runes("fresh"), enterKey)
	collect(cmd)

	msgs := collect(load)
	if len(msgs) != 1 {
		t.Fatalf("expected one load message, got %v", msgs)
	}
	next, _ := m.Update(msgs[0])
	m = next.(Model)

	var ids []string
	for _, task := range m.Store.Tasks() {
		ids = append(ids, task.ID+"="+task.Text)
	}
	if got, want := strings.Join(ids, ","), "task-1=fresh,old=old task"; got != want {
		t.Fatalf("tasks after late load = %q, want %q", got, want)
	}
	if m.SelectedTaskID != "task-1" {
		t.Fatalf("selection must stay on the new task, got %q", m.SelectedTaskID)
	}
}

func TestLoginAndLogoutFlow(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.StateFile = ""
	session := auth.NewSession(auth.DemoAuthenticator{}, auth.Options{SessionFile: filepath.Join(t.TempDir(), "s.json")})
	m := NewModelWithConfig(Deps{Store: newTestStore(), Session: session}, cfg)

	m, cmd := press(t, m, runes("L"))
	if !m.LoggingIn || cmd == nil {
		t.Fatal("expected login to start with spinner")
	}
	for _, msg := range collect(cmd) {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	if m.LoggingIn || !session.IsAuthenticated() {
		t.Fatalf("expected signed in, status=%+v", m.Status)
	}
	if !strings.Contains(m.View(), "Usuario Demo") {
		t.Fatal("expected user in header")
	}

	m, cmd = press(t, m, runes("L"))
	for _, msg := range collect(cmd) {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	if session.IsAuthenticated() || m.Status.Text != "signed out" {
		t.Fatalf("expected signed out, status=%+v", m.Status)
	}
}

func TestLoginFailureSurfaces(t *testing.T) {
	m := newTestModel(t, nil)
	m.LoggingIn = true
	next, _ := m.Update(LoginResultMsg{Err: errors.New("login: denied")})
	m = next.(Model)
	if m.LoggingIn || !m.Status.IsError || m.LastError == nil {
		t.Fatalf("unexpected state after failed login: %+v", m.Status)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(SetStatusMsg{Text: "ready", IsError: false})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	errMsg := errors.New("boom")
	updated, _ = next.Update(AppErrorMsg{Err: errMsg})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestViewRendersPanels(t *testing.T) {
	m := newTestModel(t, nil)
	m.Store.AddTask("render #me", nil)
	m, _ = press(t, m, runes("?"))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = next.(Model)

	out := m.View()
	for _, want := range []string{"taskmark", "new task", "tasks [all]", "detail:", "help:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in view", want)
		}
	}
}

func TestHelpBindingsFollowContext(t *testing.T) {
	m := newTestModel(t, nil)
	if got := m.contextBindings(); len(got) < 5 {
		t.Fatalf("expected list bindings, got %+v", got)
	}
	m, _ = press(t, m, runes("i"))
	got := m.contextBindings()
	if len(got) != 2 || got[0].Action != "save task" {
		t.Fatalf("expected composer bindings, got %+v", got)
	}
}
