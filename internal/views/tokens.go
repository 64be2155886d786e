package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/taskmark/internal/parser"
)

// Edit styles color the token text only, so the composer preview lines up
// with what is typed.
var editStyles = map[parser.Label]lipgloss.Style{
	parser.LabelHashtag: lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
	parser.LabelMention: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	parser.LabelEmail:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	parser.LabelURL:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
}

var pillStyles = map[parser.Label]lipgloss.Style{
	parser.LabelHashtag: lipgloss.NewStyle().Foreground(lipgloss.Color("54")).Background(lipgloss.Color("183")),
	parser.LabelMention: lipgloss.NewStyle().Foreground(lipgloss.Color("22")).Background(lipgloss.Color("157")),
	parser.LabelEmail:   lipgloss.NewStyle().Foreground(lipgloss.Color("94")).Background(lipgloss.Color("229")),
	parser.LabelURL:     lipgloss.NewStyle().Foreground(lipgloss.Color("18")).Background(lipgloss.Color("153")),
}

var pillLabels = map[parser.Label]string{
	parser.LabelEmail: "✉ Mail",
	parser.LabelURL:   "🔗 Link",
}

// HighlightEdit colors recognized tokens in place. Stripped of ANSI codes
// the result equals text.
func HighlightEdit(text string) string {
	var b strings.Builder
	for _, tok := range parser.Classified(text) {
		style, ok := editStyles[tok.Label]
		if !ok {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(style.Render(tok.Text))
	}
	return b.String()
}

// HighlightDisplay renders tokens as pills. Emails and URLs collapse to a
// short icon label; the full value lives in the task detail.
func HighlightDisplay(text string) string {
	var b strings.Builder
	for _, tok := range parser.Classified(text) {
		style, ok := pillStyles[tok.Label]
		if !ok {
			b.WriteString(tok.Text)
			continue
		}
		label := tok.Text
		if short, ok := pillLabels[tok.Label]; ok {
			label = short
		}
		b.WriteString(style.Render(" " + label + " "))
	}
	return b.String()
}
