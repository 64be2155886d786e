package parser

import "github.com/microcosm-cc/bluemonday"

// markupPolicy admits exactly the elements Render emits.
var markupPolicy = newMarkupPolicy()

func newMarkupPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("span", "svg", "path", "polyline")
	p.AllowAttrs("class").OnElements("span", "svg")
	p.AllowAttrs("title").OnElements("span")
	p.AllowAttrs("xmlns", "fill", "viewbox", "stroke", "stroke-width").OnElements("svg")
	p.AllowAttrs("d").OnElements("path")
	p.AllowAttrs("points").OnElements("polyline")
	return p
}

// Sanitize strips anything from rendered markup that Render itself would
// never produce. Callers that embed the markup as trusted HTML must use it.
func Sanitize(markup string) string {
	return markupPolicy.Sanitize(markup)
}

// RenderSafe is Render followed by Sanitize.
func RenderSafe(text string, mode Mode) string {
	return Sanitize(Render(text, mode))
}
