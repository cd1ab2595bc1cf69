package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/code"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

type styles struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	strike    lipgloss.Style
	accent    lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
	code      lipgloss.Style
}

func newStyles(theme relay.Theme) styles {
	return styles{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		strike:    lipgloss.NewStyle().Strikethrough(true),
		accent:    lipgloss.NewStyle().Foreground(Color(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(Color(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
		code:      lipgloss.NewStyle().Foreground(Color(theme.Accent)),
	}
}

// Color converts an ANSI color index to a lipgloss color. Negative indices
// mean no color.
func Color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *Renderer) render(source []byte) string {
	doc := r.parser.Parse(text.NewReader(source))
	var buf bytes.Buffer
	r.walkBlock(doc, source, r.width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

func (r *Renderer) walkBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderBlock(c, source, width, buf)
	}
}

// separate writes the blank line between a block and its successor.
func separate(node ast.Node, buf *bytes.Buffer) {
	if node.NextSibling() != nil {
		buf.WriteString("\n")
	}
}

func (r *Renderer) renderBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		buf.WriteString(wrap(r.collectInline(n, source), width))
		buf.WriteString("\n")
		separate(n, buf)

	case *ast.Heading:
		buf.WriteString(wrap(r.styles.accent.Render(r.collectInline(n, source)), width))
		buf.WriteString("\n")
		separate(n, buf)

	case *ast.FencedCodeBlock:
		body := blockLines(n, source)
		lang := string(n.Language(source))
		if lang == "" {
			if detected := code.DetectLanguage(strings.Join(body, "\n")); detected != code.Generic {
				lang = string(detected)
			}
		}
		r.writeCode(buf, lang, body)
		separate(n, buf)

	case *ast.CodeBlock:
		r.writeCode(buf, "", blockLines(n, source))
		separate(n, buf)

	case *ast.Blockquote:
		var inner bytes.Buffer
		r.walkBlock(n, source, max(width-2, 10), &inner)
		bar := r.styles.muted.Render("▌") + " "
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			buf.WriteString(bar + line + "\n")
		}
		separate(n, buf)

	case *ast.List:
		r.renderList(n, source, width, buf, 0)
		separate(n, buf)

	case *ast.ThematicBreak:
		buf.WriteString(r.styles.muted.Render(strings.Repeat("─", min(width, 40))))
		buf.WriteString("\n")
		separate(n, buf)

	case *ast.HTMLBlock:
		for _, line := range blockLines(n, source) {
			buf.WriteString(line + "\n")
		}
		separate(n, buf)

	default:
		r.walkBlock(node, source, width, buf)
	}
}

// writeCode prints a code block behind a gutter, preceded by an optional
// language label. Lines are never reflowed.
func (r *Renderer) writeCode(buf *bytes.Buffer, lang string, lines []string) {
	if lang != "" {
		buf.WriteString(r.styles.muted.Render(lang))
		buf.WriteString("\n")
	}
	gutter := r.styles.muted.Render("│") + " "
	for _, line := range lines {
		buf.WriteString(gutter + line + "\n")
	}
}

func blockLines(n ast.Node, source []byte) []string {
	lines := n.Lines()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(source)), "\r\n"))
	}
	return out
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func (r *Renderer) renderList(node *ast.List, source []byte, width int, buf *bytes.Buffer, depth int) {
	n := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		indent := strings.Repeat("  ", depth)
		marker := "• "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n)
			n++
		}

		var content bytes.Buffer
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				content.WriteString(r.collectInline(in, source))
			case *ast.List:
				if content.Len() > 0 {
					writeListItem(buf, indent, marker, content.String(), width)
					content.Reset()
				}
				r.renderList(in, source, width, buf, depth+1)
				marker = strings.Repeat(" ", len(marker))
			default:
				r.renderBlock(ic, source, width, &content)
			}
		}
		if content.Len() > 0 {
			writeListItem(buf, indent, marker, content.String(), width)
		}
	}
}

// writeListItem writes a list item, indenting continuation lines under the
// item text.
func writeListItem(buf *bytes.Buffer, indent, marker, content string, width int) {
	prefix := indent + marker
	cols := lipgloss.Width(prefix)
	lines := strings.Split(wrap(content, max(width-cols, 10)), "\n")
	pad := strings.Repeat(" ", cols)
	for i, line := range lines {
		if i == 0 {
			buf.WriteString(prefix + line + "\n")
			continue
		}
		buf.WriteString(pad + line + "\n")
	}
}

func (r *Renderer) collectInline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &buf)
	}
	return buf.String()
}

func (r *Renderer) renderInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.collectInline(n, source)
		if n.Level == 1 {
			buf.WriteString(r.styles.italic.Render(inner))
		} else {
			buf.WriteString(r.styles.bold.Render(inner))
		}

	case *extast.Strikethrough:
		buf.WriteString(r.styles.strike.Render(r.collectInline(n, source)))

	case *ast.CodeSpan:
		buf.WriteString(r.styles.code.Render(r.collectInline(n, source)))

	case *ast.Link:
		buf.WriteString(r.styles.underline.Render(r.collectInline(n, source)))
		buf.WriteString(" " + r.styles.muted.Render("("+string(n.Destination)+")"))

	case *ast.AutoLink:
		buf.WriteString(r.styles.underline.Render(string(n.URL(source))))

	case *ast.Image:
		buf.WriteString(r.styles.underline.Render(r.collectInline(n, source)))
		buf.WriteString(" " + r.styles.muted.Render("("+string(n.Destination)+")"))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderInline(c, source, buf)
		}
	}
}
