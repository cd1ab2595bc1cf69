package terminal

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize makes untrusted text safe to write to a terminal. It strips ANSI
// escape sequences and control characters other than tab and newline, and
// normalizes CRLF to LF. A lone CR is dropped rather than interpreted.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n':
			b.WriteRune(r)
		case r <= 0x1F || r == 0x7F:
		case r >= 0x80 && r <= 0x9F:
			// C1 controls can start escape sequences on some terminals.
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
