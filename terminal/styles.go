package terminal

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/goldmark"
)

// Styles maps a Theme to lipgloss styles for line-oriented output.
type Styles struct {
	Prompt lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
	CodeBg lipgloss.Style
	notice map[relay.NoticeKind]lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t relay.Theme) Styles {
	s := Styles{
		Prompt: lipgloss.NewStyle().Foreground(goldmark.Color(t.Prompt)).Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(goldmark.Color(t.Muted)).Faint(true),
		Accent: lipgloss.NewStyle().Foreground(goldmark.Color(t.Accent)).Bold(true),
		CodeBg: lipgloss.NewStyle().Background(goldmark.Color(t.CodeBg)),
		notice: make(map[relay.NoticeKind]lipgloss.Style),
	}
	for _, k := range []relay.NoticeKind{
		relay.NoticeConnecting, relay.NoticeRetry, relay.NoticeInfo, relay.NoticeError, relay.NoticeReady,
	} {
		st := lipgloss.NewStyle().Foreground(goldmark.Color(t.NoticeColor(k)))
		switch k {
		case relay.NoticeError:
			st = st.Bold(true)
		case relay.NoticeConnecting:
			st = st.Faint(true)
		}
		s.notice[k] = st
	}
	return s
}

// Notice returns the style for notices of kind k.
func (s Styles) Notice(k relay.NoticeKind) lipgloss.Style {
	if st, ok := s.notice[k]; ok {
		return st
	}
	return lipgloss.NewStyle()
}
