package parser

import (
	"regexp"
	"strings"

	"github.com/sandeepkv93/taskmark/internal/model"
)

// RE2's \s is ASCII only. These classes match exactly what unicode.IsSpace
// accepts, so extraction splits words where Tokenize does.
const (
	spaceClass    = `[\s\x0B\x{85}\p{Z}]`
	nonSpaceClass = `[^\s\x0B\x{85}\p{Z}]`
)

// Unlike Classify these scan the whole string, not only token starts.
var (
	categoryPattern = regexp.MustCompile(`#\w+`)
	// A mention must open the string or follow whitespace so the local part
	// of an email never counts as a user.
	userPattern  = regexp.MustCompile(`(?:^|` + spaceClass + `)@\w+`)
	emailPattern = regexp.MustCompile(nonSpaceClass + `+@` + nonSpaceClass + `+\.` + nonSpaceClass + `+`)
	urlPattern   = regexp.MustCompile(`https?://` + nonSpaceClass + `+`)
)

func Extract(text string) model.TaskMetadata {
	users := userPattern.FindAllString(text, -1)
	for i := range users {
		users[i] = strings.TrimSpace(users[i])
	}
	return model.TaskMetadata{
		RawText:    text,
		Categories: uniqueInOrder(categoryPattern.FindAllString(text, -1)),
		Users:      uniqueInOrder(users),
		Emails:     uniqueInOrder(emailPattern.FindAllString(text, -1)),
		URLs:       uniqueInOrder(urlPattern.FindAllString(text, -1)),
	}
}

func uniqueInOrder(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
