package relay

import (
	"strings"
	"time"
)

// Turn is one message in a conversation. Turns are appended to a Session's
// history and never modified afterwards.
type Turn struct {
	Role      Role
	Parts     []Part
	Timestamp time.Time
}

// Text returns the concatenated text of all TextParts in the turn.
func (t Turn) Text() string {
	var sb strings.Builder
	for _, p := range t.Parts {
		if tp, ok := p.(TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}

// Part is a sealed interface representing an atomic unit of turn content.
// The unexported marker method prevents external implementations.
type Part interface {
	part()
}

// TextPart contains inline text.
type TextPart struct {
	Text string
}

func (TextPart) part() {}

// InlineDataPart contains a binary payload such as an image. Data holds raw
// bytes; encoding to base64 happens at the wire and persistence edges.
type InlineDataPart struct {
	MimeType string
	Data     []byte
}

func (InlineDataPart) part() {}

// Interface compliance checks.
var (
	_ Part = TextPart{}
	_ Part = InlineDataPart{}
)
