package relay

// NoticeKind identifies the kind of system notice shown to the user.
type NoticeKind int

const (
	NoticeConnecting NoticeKind = iota // Request submitted, awaiting response.
	NoticeRetry                        // Waiting before a retry attempt.
	NoticeInfo                         // Informational, e.g. multi-part progress.
	NoticeError                        // A send failed.
	NoticeReady                        // Session ready for the next message.
)

// String returns a short lowercase name for the kind.
func (k NoticeKind) String() string {
	switch k {
	case NoticeConnecting:
		return "connecting"
	case NoticeRetry:
		return "retry"
	case NoticeInfo:
		return "info"
	case NoticeError:
		return "error"
	case NoticeReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Notice is a discrete system message for the presentation layer.
// ErrorKind and Err are set only for NoticeError.
type Notice struct {
	Kind      NoticeKind
	Text      string
	ErrorKind ErrorKind
	Err       error
}

// Presenter receives the output of a Session. Implementations must not
// retain references into the Session.
type Presenter interface {
	Display(d Display)
	Notice(n Notice)
}
