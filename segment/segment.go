// Package segment splits oversized model responses into ordered, numbered
// chunks without breaking fenced code blocks or sentences where a safe
// boundary is available.
//
// Lengths are measured in bytes of the UTF-8 text. When no safe boundary is
// found a hard cut is made, backed off to the nearest grapheme cluster
// boundary so that no character is split across chunks.
package segment

import (
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strings"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/code"
	"github.com/rivo/uniseg"
)

// DefaultMax is the default maximum chunk length.
const DefaultMax = 50000

const (
	// fenceWindow is how close to the end of a candidate an opening fence
	// must be for the cut to be extended to its closing fence.
	fenceWindow = 100

	// sentenceWindow is how far back from the end of a candidate a sentence
	// or paragraph boundary is searched for.
	sentenceWindow = 200
)

const prefixFormat = "[Parte %d] "

var prefixPattern = regexp.MustCompile(`^\[Parte \d+\] `)

// Splitter implements [relay.Splitter].
type Splitter struct {
	Max int // maximum chunk length; <= 0 means DefaultMax
}

// Interface compliance check.
var _ relay.Splitter = (*Splitter)(nil)

// New returns a Splitter with the given maximum chunk length.
func New(limit int) *Splitter {
	return &Splitter{Max: limit}
}

func (s *Splitter) limit() int {
	if s == nil || s.Max <= 0 {
		return DefaultMax
	}
	return s.Max
}

// Split returns all chunks of text.
func (s *Splitter) Split(text string) []relay.Chunk {
	return slices.Collect(s.Segments(text))
}

// Segments returns the chunks of text in order. Text no longer than the
// maximum yields a single unprefixed final chunk. Otherwise every chunk text
// carries a "[Parte N] " prefix and only the last chunk is final.
func (s *Splitter) Segments(text string) iter.Seq[relay.Chunk] {
	limit := s.limit()
	return func(yield func(relay.Chunk) bool) {
		if len(text) <= limit {
			yield(relay.Chunk{Index: 1, Text: text, Body: text, IsFinal: true})
			return
		}
		offset := 0
		for i := 1; offset < len(text); i++ {
			n := cut(text, offset, limit)
			body := text[offset : offset+n]
			offset += n
			c := relay.Chunk{
				Index:   i,
				Text:    fmt.Sprintf(prefixFormat, i) + body,
				Body:    body,
				IsFinal: offset == len(text),
			}
			if !yield(c) {
				return
			}
		}
	}
}

// StripPrefix removes a leading part-numbering prefix from the text of a
// chunk of a split response. Unsplit responses carry no prefix, so a response
// that itself starts with one would lose it; reassemble with [Join] instead.
func StripPrefix(text string) string {
	loc := prefixPattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[loc[1]:]
}

// Join reassembles the original text from its chunks.
func Join(chunks []relay.Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Body)
	}
	return sb.String()
}

// cut returns the length of the next chunk of text starting at offset.
// The result is always at least one byte.
func cut(text string, offset, limit int) int {
	rest := text[offset:]
	if len(rest) <= limit {
		return len(rest)
	}

	// Look slightly past the candidate so a fence straddling the cut is seen.
	window := rest[:min(len(rest), limit+len(code.Fence)-1)]
	if i := strings.LastIndex(window, code.Fence); i != -1 && i > limit-fenceWindow && opensBlock(text, offset+i) {
		after := i + len(code.Fence)
		if j := strings.Index(rest[after:], code.Fence); j != -1 {
			return after + j + len(code.Fence)
		}
	}

	if b := safeBoundary(text, offset, rest[:limit], limit-sentenceWindow); b != -1 {
		return b + 2
	}

	return graphemeFloor(rest, limit)
}

// opensBlock reports whether pos is outside any fenced block, i.e. an even
// number of fences precede it. For a fence at pos this means it opens one.
func opensBlock(text string, pos int) bool {
	return strings.Count(text[:pos], code.Fence)%2 == 0
}

// safeBoundary returns the index of the last boundary in candidate that lies
// after floor and outside any fenced block, or -1. Candidate starts at offset
// in text.
func safeBoundary(text string, offset int, candidate string, floor int) int {
	for end := len(candidate); end > 0; {
		b := lastBoundary(candidate[:end])
		if b == -1 || b <= floor {
			return -1
		}
		if opensBlock(text, offset+b) {
			return b
		}
		end = b + 1
	}
	return -1
}

// lastBoundary returns the index of the last sentence terminator ". " or
// paragraph break "\n\n" in s, or -1. Both terminators are two bytes long.
func lastBoundary(s string) int {
	return max(strings.LastIndex(s, ". "), strings.LastIndex(s, "\n\n"))
}

// graphemeFloor returns the largest grapheme cluster boundary in rest that is
// no greater than limit. If the first cluster alone exceeds limit, its length is
// returned.
func graphemeFloor(rest string, limit int) int {
	end, state := 0, -1
	for s := rest; len(s) > 0; {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		if end+len(cluster) > limit {
			if end == 0 {
				return len(cluster)
			}
			break
		}
		end += len(cluster)
	}
	return end
}
