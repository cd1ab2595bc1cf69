package relay

// Theme maps presentation roles to ANSI color indices (0-15). Terminal
// palettes decide the actual RGB values. A negative index means no color.
type Theme struct {
	Prompt int // input prompt
	Info   int // progress and part notices
	Retry  int // rate-limit waits
	Error  int
	Ready  int
	Muted  int // code gutters, link targets
	CodeBg int
	Accent int // headings, code headers
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Prompt: 4,
		Info:   6,
		Retry:  3,
		Error:  1,
		Ready:  2,
		Muted:  8,
		CodeBg: 0,
		Accent: 5,
	}
}

// NoticeColor returns the color index used for notices of kind k.
func (t Theme) NoticeColor(k NoticeKind) int {
	switch k {
	case NoticeRetry:
		return t.Retry
	case NoticeError:
		return t.Error
	case NoticeReady:
		return t.Ready
	case NoticeConnecting:
		return t.Muted
	default:
		return t.Info
	}
}
