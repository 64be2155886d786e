package parser

import "regexp"

type Label string

const (
	LabelHashtag Label = "hashtag"
	LabelMention Label = "mention"
	LabelEmail   Label = "email"
	LabelURL     Label = "url"
	LabelPlain   Label = "plain"
)

// Hashtag and mention only anchor at the start so trailing punctuation stays
// attached to the token. Email and url must match the whole token.
var (
	hashtagPrefix = regexp.MustCompile(`^#\w+`)
	mentionPrefix = regexp.MustCompile(`^@\w+`)
	emailToken    = regexp.MustCompile(`^[\w.%+-]+@[\w.-]+\.[a-zA-Z]{2,}$`)
	urlToken      = regexp.MustCompile(`^(https?://)?[\w.-]+\.[a-zA-Z]{2,}(/\S*)?$`)
)

// Classify labels a single word token. Precedence is fixed, first match wins.
func Classify(word string) Label {
	switch {
	case hashtagPrefix.MatchString(word):
		return LabelHashtag
	case mentionPrefix.MatchString(word):
		return LabelMention
	case emailToken.MatchString(word):
		return LabelEmail
	case urlToken.MatchString(word):
		return LabelURL
	default:
		return LabelPlain
	}
}

// Token is a Segment with its classification. Whitespace runs are always
// LabelPlain.
type Token struct {
	Segment
	Label Label
}

func Classified(text string) []Token {
	segments := Tokenize(text)
	out := make([]Token, 0, len(segments))
	for _, seg := range segments {
		label := LabelPlain
		if !seg.Space {
			label = Classify(seg.Text)
		}
		out = append(out, Token{Segment: seg, Label: label})
	}
	return out
}
