package parser

import (
	"fmt"
	"strings"
)

type Mode string

const (
	// ModeDisplay decorates tokens as pills with tooltips and icons.
	ModeDisplay Mode = "display"
	// ModeEdit wraps tokens in a single semantic class for in-place editing.
	ModeEdit Mode = "edit"
)

const (
	mailIcon = `<svg xmlns="http://www.w3.org/2000/svg" class="w-5 h-5" fill="none" viewBox="0 0 24 24" stroke="currentColor" stroke-width="2">` +
		`<path d="M4 4h16c1.1 0 2 .9 2 2v12c0 1.1-.9 2-2 2H4c-1.1 0-2-.9-2-2V6c0-1.1.9-2 2-2z" />` +
		`<polyline points="22,6 12,13 2,6"></polyline>` +
		`</svg>`
	linkIcon = `<svg xmlns="http://www.w3.org/2000/svg" class="w-5 h-5" fill="none" viewBox="0 0 24 24" stroke="currentColor" stroke-width="2">` +
		`<path d="M10 13a5 5 0 0 0 7.54.54l3-3a5 5 0 0 0-7.07-7.07l-1.72 1.71" />` +
		`<path d="M14 11a5 5 0 0 0-7.54-.54l-3 3a5 5 0 0 0 7.07 7.07l1.71-1.71" />` +
		`</svg>`

	pillClass     = "px-2 py-1.5 rounded-full"
	iconPillClass = "inline-flex items-center gap-1 px-2 py-4 rounded-full h-6 align-middle"
)

var displayClasses = map[Label]string{
	LabelHashtag: "bg-purple-200 text-purple-700 " + pillClass,
	LabelMention: "bg-green-200 text-green-700 " + pillClass,
	LabelEmail:   "bg-yellow-200 text-yellow-700 " + iconPillClass,
	LabelURL:     "bg-blue-200 text-blue-700 " + iconPillClass,
}

var editClasses = map[Label]string{
	LabelHashtag: "text-category",
	LabelMention: "text-user",
	LabelEmail:   "text-email",
	LabelURL:     "text-url",
}

// Render converts text into markup. Whitespace and plain words are copied
// unchanged. Token text is inserted verbatim; run the result through
// Sanitize before treating it as trusted HTML.
func Render(text string, mode Mode) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, tok := range Classified(text) {
		if tok.Label == LabelPlain {
			b.WriteString(tok.Text)
			continue
		}
		if mode == ModeEdit {
			b.WriteString(editFragment(tok))
		} else {
			b.WriteString(displayFragment(tok))
		}
	}
	return b.String()
}

func editFragment(tok Token) string {
	return fmt.Sprintf(`<span class="%s">%s</span>`, editClasses[tok.Label], tok.Text)
}

func displayFragment(tok Token) string {
	class := displayClasses[tok.Label]
	switch tok.Label {
	case LabelEmail:
		return fmt.Sprintf(`<span class="%s" title="%s">%s<span class="text-lg leading-none">Mail</span></span>`, class, tok.Text, mailIcon)
	case LabelURL:
		return fmt.Sprintf(`<span class="%s" title="%s">%s<span class="text-lg leading-none">Link</span></span>`, class, tok.Text, linkIcon)
	default:
		return fmt.Sprintf(`<span class="%s" title="%s">%s</span>`, class, tok.Text, tok.Text)
	}
}
