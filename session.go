package relay

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Session orchestrates one chat conversation. It owns the conversation
// history, submits requests through a Dispatcher and hands the segmented,
// classified response to a Presenter.
//
// Send is single-flight: a call made while another is outstanding returns
// ErrBusy without side effects.
type Session struct {
	id         string
	generator  Generator
	dispatcher Dispatcher
	presenter  Presenter
	splitter   Splitter
	classifier Classifier
	config     GenerationConfig
	now        func() time.Time

	busy atomic.Bool

	mu        sync.Mutex
	model     string
	turns     []Turn
	createdAt time.Time
	updatedAt time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSplitter sets the response splitter. Without one, every response is
// presented as a single final chunk.
func WithSplitter(sp Splitter) SessionOption {
	return func(s *Session) { s.splitter = sp }
}

// WithClassifier sets the code classifier. Without one, every chunk is
// presented as prose.
func WithClassifier(c Classifier) SessionOption {
	return func(s *Session) { s.classifier = c }
}

// WithModel sets the initial model ID.
func WithModel(id string) SessionOption {
	return func(s *Session) { s.model = id }
}

// WithGenerationConfig sets the sampling parameters sent with each request.
func WithGenerationConfig(c GenerationConfig) SessionOption {
	return func(s *Session) { s.config = c }
}

// WithSessionID sets the session identifier.
func WithSessionID(id string) SessionOption {
	return func(s *Session) { s.id = id }
}

// WithClock overrides the time source used for turn timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a Session that generates through gen, serializes calls
// through dispatcher and reports to presenter.
func NewSession(gen Generator, dispatcher Dispatcher, presenter Presenter, opts ...SessionOption) *Session {
	s := &Session{
		generator:  gen,
		dispatcher: dispatcher,
		presenter:  presenter,
		config:     DefaultGenerationConfig(),
		model:      DefaultModel,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.createdAt = s.now()
	s.updatedAt = s.createdAt
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Busy reports whether a Send is outstanding.
func (s *Session) Busy() bool { return s.busy.Load() }

// Send appends a user turn built from text and attachments, submits the
// conversation and presents the response. On failure a single error notice is
// emitted and the user turn stays in history.
func (s *Session) Send(ctx context.Context, text string, attachments []Attachment) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	text = strings.TrimSpace(text)
	if text == "" && len(attachments) == 0 {
		return ErrEmptyMessage
	}

	var parts []Part
	if text != "" {
		parts = append(parts, TextPart{Text: text})
	}
	for _, a := range attachments {
		if err := a.Validate(); err != nil {
			return err
		}
		parts = append(parts, a.Part())
	}

	user := Turn{Role: RoleUser, Parts: parts, Timestamp: s.now()}

	s.mu.Lock()
	req := Request{
		Model:  s.model,
		Turns:  append(slices.Clone(s.turns), user),
		Config: s.config,
	}
	s.mu.Unlock()
	if err := req.Validate(); err != nil {
		return err
	}
	s.appendTurn(user)

	return s.exchange(ctx, req)
}

// exchange submits req and presents the outcome. The ready notice is always
// the last notice of an exchange.
func (s *Session) exchange(ctx context.Context, req Request) error {
	defer s.presenter.Notice(Notice{Kind: NoticeReady, Text: "Ready."})

	s.presenter.Notice(Notice{Kind: NoticeConnecting, Text: "Connecting..."})

	resp, err := s.dispatcher.Submit(ctx, func(ctx context.Context) (*Response, error) {
		return s.generator.Generate(ctx, req)
	})
	if err != nil {
		s.presenter.Notice(Notice{
			Kind:      NoticeError,
			Text:      ErrorText(err),
			ErrorKind: ClassifyError(err),
			Err:       err,
		})
		return err
	}

	s.appendTurn(Turn{
		Role:      RoleModel,
		Parts:     []Part{TextPart{Text: resp.Text}},
		Timestamp: s.now(),
	})
	s.present(resp.Text)
	return nil
}

func (s *Session) present(text string) {
	chunks := s.split(text)
	multi := len(chunks) > 1
	if multi {
		s.presenter.Notice(Notice{Kind: NoticeInfo, Text: fmt.Sprintf("The response is long, showing it in %d parts.", len(chunks))})
	}
	for _, c := range chunks {
		s.presenter.Display(s.display(c))
		if multi && !c.IsFinal {
			s.presenter.Notice(Notice{Kind: NoticeInfo, Text: "--- continuing ---"})
		}
	}
	if multi {
		s.presenter.Notice(Notice{Kind: NoticeInfo, Text: "Response complete."})
	}
}

func (s *Session) split(text string) []Chunk {
	if s.splitter == nil {
		return []Chunk{{Index: 1, Text: text, Body: text, IsFinal: true}}
	}
	return s.splitter.Split(text)
}

func (s *Session) display(c Chunk) Display {
	d := Display{Chunk: c, Text: c.Text, AllowCopy: true}
	if s.classifier == nil {
		return d
	}
	b := s.classifier.Classify(c.Body)
	if !b.IsCode {
		return d
	}
	d.IsCode = true
	d.Language = b.Language
	d.Code = b.Body
	d.AllowDownload = true
	d.Extension = b.Extension
	return d
}

func (s *Session) appendTurn(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, t)
	s.updatedAt = t.Timestamp
}

// History returns a copy of the conversation turns.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.turns)
}

// Restore replaces the conversation with turns, e.g. from an import.
// It fails with ErrBusy while a Send is outstanding.
func (s *Session) Restore(turns []Turn) error {
	if s.busy.Load() {
		return ErrBusy
	}
	for i, t := range turns {
		if err := ValidateTurn(t); err != nil {
			return fmt.Errorf("turn %d: %w", i, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = slices.Clone(turns)
	s.updatedAt = s.now()
	return nil
}

// Clear drops the conversation history.
func (s *Session) Clear() error {
	return s.Restore(nil)
}

// Model returns the selected model ID.
func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SetModel selects a model from the catalog.
func (s *Session) SetModel(id string) (Model, error) {
	m, err := LookupModel(id)
	if err != nil {
		return Model{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = m.ID
	return m, nil
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns when the history last changed.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}
