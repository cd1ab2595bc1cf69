// Package goldmark renders markdown prose from model responses to
// ANSI-styled terminal output, using goldmark for parsing and lipgloss for
// styling.
//
// Prose is word-wrapped to the configured width. Code blocks are printed
// behind a gutter without reflow and labeled with their language, either
// from the fence info string or detected from the block content.
package goldmark

import (
	"github.com/fwojciec/relay"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

const defaultWidth = 80

// Renderer converts markdown to styled terminal text. It is safe for
// concurrent use.
type Renderer struct {
	parser parser.Parser
	styles styles
	width  int
}

// New returns a Renderer wrapping prose to width columns. A width of zero or
// less means 80.
func New(theme relay.Theme, width int) *Renderer {
	if width <= 0 {
		width = defaultWidth
	}
	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
	return &Renderer{
		parser: md.Parser(),
		styles: newStyles(theme),
		width:  width,
	}
}

// Width returns the wrap width.
func (r *Renderer) Width() int { return r.width }

// Render parses markdown source and returns ANSI-styled terminal output.
func (r *Renderer) Render(source string) string {
	if source == "" {
		return ""
	}
	return r.render([]byte(source))
}

// Render is a convenience wrapper around New and Renderer.Render.
func Render(source string, width int, theme relay.Theme) string {
	return New(theme, width).Render(source)
}
