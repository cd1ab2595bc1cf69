// Package terminal implements a line-oriented [relay.Presenter] that writes
// styled chat output to a terminal.
//
// Prose chunks are rendered as markdown. Code chunks get a header naming the
// detected language and the available actions; the most recent code block is
// kept so it can be copied to the clipboard or saved to a file.
//
// Model output is untrusted and passes through [Sanitize] before it is
// rendered.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/goldmark"
	"github.com/muesli/termenv"
)

// Interface compliance check.
var _ relay.Presenter = (*Presenter)(nil)

// Presenter writes Displays and Notices to an io.Writer. It is safe for
// concurrent use.
type Presenter struct {
	mu       sync.Mutex
	out      io.Writer
	term     *termenv.Output
	md       *goldmark.Renderer
	theme    relay.Theme
	styles   Styles
	width    int
	lastCode relay.Display
	hasCode  bool
}

// Option configures a [Presenter].
type Option func(*Presenter)

// WithTheme sets the color theme.
func WithTheme(t relay.Theme) Option {
	return func(p *Presenter) { p.theme = t }
}

// WithProfile forces the terminal color profile instead of detecting it
// from the writer.
func WithProfile(profile termenv.Profile) Option {
	return func(p *Presenter) { p.term = termenv.NewOutput(p.out, termenv.WithProfile(profile)) }
}

// WithWidth sets the wrap width for prose and headers.
func WithWidth(w int) Option {
	return func(p *Presenter) { p.width = w }
}

// New creates a Presenter writing to out.
func New(out io.Writer, opts ...Option) *Presenter {
	p := &Presenter{
		out:   out,
		theme: relay.DefaultTheme(),
		width: 80,
	}
	for _, o := range opts {
		o(p)
	}
	if p.width <= 0 {
		p.width = 80
	}
	if p.term == nil {
		p.term = termenv.NewOutput(out)
	}
	p.styles = NewStyles(p.theme)
	p.md = goldmark.New(p.theme, p.width)
	return p
}

// Display renders one response chunk.
func (p *Presenter) Display(d relay.Display) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if d.IsCode {
		p.lastCode = d
		p.hasCode = true
		var actions []string
		if d.AllowCopy {
			actions = append(actions, "/copy")
		}
		if d.AllowDownload {
			actions = append(actions, "/download")
		}
		label := Sanitize(d.Language)
		if label == "" {
			label = "Code"
		}
		fmt.Fprintln(p.out, p.styles.Accent.Render(codeHeader(label, actions, p.width)))
	}
	fmt.Fprintln(p.out, p.md.Render(Sanitize(d.Text)))
	fmt.Fprintln(p.out)
}

// Notice renders a system notice on its own line.
func (p *Presenter) Notice(n relay.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	text := Sanitize(n.Text)
	if n.Kind == relay.NoticeRetry && !strings.HasPrefix(text, "⏳") {
		text = "⏳ " + text
	}
	fmt.Fprintln(p.out, p.styles.Notice(n.Kind).Render(text))
}

// Prompt writes the input prompt without a trailing newline.
func (p *Presenter) Prompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, p.styles.Prompt.Render("you› "))
}

// Printf writes a plain informational line.
func (p *Presenter) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
	if !strings.HasSuffix(format, "\n") {
		fmt.Fprintln(p.out)
	}
}

// LastCode returns the most recently displayed code chunk.
func (p *Presenter) LastCode() (relay.Display, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCode, p.hasCode
}

// Copy places the most recent code block on the system clipboard using the
// OSC 52 terminal escape sequence. It reports false when there is nothing
// to copy.
func (p *Presenter) Copy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasCode || !p.lastCode.AllowCopy {
		return false
	}
	p.term.Copy(p.lastCode.Code)
	return true
}
