package mock

import "github.com/fwojciec/relay"

// Interface compliance checks.
var (
	_ relay.Presenter  = (*Presenter)(nil)
	_ relay.Splitter   = (*Splitter)(nil)
	_ relay.Classifier = (*Classifier)(nil)
)

// Presenter is a test double for relay.Presenter. Both methods are no-ops
// when their function field is nil.
type Presenter struct {
	DisplayFn func(d relay.Display)
	NoticeFn  func(n relay.Notice)
}

// Display delegates to DisplayFn.
func (p *Presenter) Display(d relay.Display) {
	if p.DisplayFn != nil {
		p.DisplayFn(d)
	}
}

// Notice delegates to NoticeFn.
func (p *Presenter) Notice(n relay.Notice) {
	if p.NoticeFn != nil {
		p.NoticeFn(n)
	}
}

// Splitter is a test double for relay.Splitter.
// Set SplitFn before calling Split.
type Splitter struct {
	SplitFn func(text string) []relay.Chunk
}

// Split delegates to SplitFn.
func (s *Splitter) Split(text string) []relay.Chunk {
	return s.SplitFn(text)
}

// Classifier is a test double for relay.Classifier.
// Set ClassifyFn before calling Classify.
type Classifier struct {
	ClassifyFn func(text string) relay.Block
}

// Classify delegates to ClassifyFn.
func (c *Classifier) Classify(text string) relay.Block {
	return c.ClassifyFn(text)
}
