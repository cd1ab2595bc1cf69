package terminal

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// codeHeader builds the rule shown above a code chunk, e.g.
// "── Python ─────────── /copy /download ──", exactly width columns wide.
// The label is truncated when it does not fit.
func codeHeader(label string, actions []string, width int) string {
	right := ""
	if len(actions) > 0 {
		right = " " + strings.Join(actions, " ") + " ──"
	}
	const lead = "── "
	avail := width - runewidth.StringWidth(lead) - runewidth.StringWidth(right) - 1
	if avail < 1 {
		return runewidth.Truncate(lead+label, width, "…")
	}
	label = runewidth.Truncate(label, avail, "…")
	fill := width - runewidth.StringWidth(lead) - runewidth.StringWidth(label) - runewidth.StringWidth(right) - 1
	return lead + label + " " + strings.Repeat("─", max(fill, 0)) + right
}
