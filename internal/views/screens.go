package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/taskmark/internal/model"
)

type TaskRowData struct {
	Position  int
	Text      string
	Completed bool
	Selected  bool
	Editing   bool
}

type TaskListData struct {
	Filter    string
	Category  string
	Rows      []TaskRowData
	Pending   int
	Completed int
}

type ComposerData struct {
	InputView string
	Text      string
	Active    bool
	Editing   bool
	Unsaved   bool
}

type SessionData struct {
	Name        string
	UserID      string
	Loading     bool
	SpinnerView string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

type TaskDetailData struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
	Metadata  model.TaskMetadata
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	title := fmt.Sprintf("tasks [%s]", data.Filter)
	if data.Category != "" {
		title += " " + data.Category
	}
	b.WriteString(title + ":\n")
	b.WriteString(fmt.Sprintf("pending: %d | completed: %d\n", data.Pending, data.Completed))
	if len(data.Rows) == 0 {
		b.WriteString("  (no tasks)")
		return b.String()
	}
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		box := "[ ]"
		if row.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %d. %s %s", cursor, row.Position, box, HighlightDisplay(row.Text))
		if row.Editing {
			line += " (editing)"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderComposer(data ComposerData) string {
	var b strings.Builder
	switch {
	case data.Editing && data.Unsaved:
		b.WriteString("edit task (unsaved):\n")
	case data.Editing:
		b.WriteString("edit task:\n")
	default:
		b.WriteString("new task:\n")
	}
	b.WriteString(data.InputView)
	if data.Active && strings.TrimSpace(data.Text) != "" {
		b.WriteString("\npreview: " + HighlightEdit(data.Text))
	}
	if data.Active {
		b.WriteString("\n[enter]save [esc]cancel")
	} else {
		b.WriteString("\n[i]write [e]edit selected")
	}
	return b.String()
}

// TaskDetailMarkdown describes a task and its extracted metadata as
// markdown for the detail pane.
func TaskDetailMarkdown(data TaskDetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return ""
	}
	var b strings.Builder
	state := "pending"
	if data.Completed {
		state = "completed"
	}
	b.WriteString("## Task\n\n")
	b.WriteString(escapeMarkdown(data.Text) + "\n\n")
	b.WriteString(fmt.Sprintf("- **status:** %s\n", state))
	b.WriteString(fmt.Sprintf("- **created:** %s\n", data.CreatedAt.Local().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("- **id:** `%s`\n", data.ID))

	sections := []struct {
		title string
		kind  model.MetadataKind
	}{
		{"Categories", model.MetadataCategory},
		{"People", model.MetadataUser},
		{"Emails", model.MetadataEmail},
		{"Links", model.MetadataURL},
	}
	if data.Metadata.IsEmpty() {
		b.WriteString("\n_No tags, people, emails or links._\n")
		return b.String()
	}
	for _, sec := range sections {
		values := data.Metadata.Values(sec.kind)
		if len(values) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n### %s\n\n", sec.title))
		for _, v := range values {
			b.WriteString("- `" + v + "`\n")
		}
	}
	return b.String()
}

func RenderDetailPane(rendered string) string {
	if strings.TrimSpace(rendered) == "" {
		return "detail:\n(no selection)"
	}
	return "detail:\n" + rendered
}

func RenderSessionBadge(data SessionData) string {
	switch {
	case data.Loading:
		return data.SpinnerView + " signing in"
	case data.UserID != "":
		return fmt.Sprintf("user: %s (%s)", data.Name, data.UserID)
	default:
		return "user: signed out"
	}
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "\ncommand: " + inputView
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("\nhelp:\n%s\n%s",
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

// escapeMarkdown keeps free-form task text from being read as markup.
// A leading '#' would become a heading, so it is escaped too.
func escapeMarkdown(s string) string {
	out := markdownEscaper.Replace(s)
	if strings.HasPrefix(out, "#") {
		out = `\` + out
	}
	return out
}
