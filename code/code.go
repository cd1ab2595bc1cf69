// Package code classifies text as code or prose, extracts fenced code bodies
// and infers a language tag for rendering and file export.
//
// The heuristics are deliberately coarse: ContainsCode reports true for
// prose containing ordinary punctuation such as parentheses or '='.
package code

import (
	"regexp"
	"strings"

	"github.com/fwojciec/relay"
)

// Fence is the delimiter that opens and closes a fenced code block.
const Fence = "```"

var (
	keywordPattern    = regexp.MustCompile(`\b(function|def|class|import|from|var|let|const|if|else|for|while|return)\b`)
	structuralPattern = regexp.MustCompile(`[{}()<>;=]`)
	fencedPattern     = regexp.MustCompile("(?s)```.*?```")
	tagPattern        = regexp.MustCompile(`<\?php|</script>|</style>`)

	// extractPattern skips an optional word-character language tag and the
	// whitespace that follows the opening fence.
	extractPattern = regexp.MustCompile("(?s)```(?:\\w+)?\\s*(.*?)```")
)

// ContainsCode reports whether text looks like it contains code. Any single
// heuristic match is sufficient.
func ContainsCode(text string) bool {
	return keywordPattern.MatchString(text) ||
		structuralPattern.MatchString(text) ||
		fencedPattern.MatchString(text) ||
		tagPattern.MatchString(text)
}

// Extract returns the trimmed body of the first fenced block in text, or text
// unchanged when it has no fenced block with a non-empty body.
func Extract(text string) string {
	m := extractPattern.FindStringSubmatch(text)
	if m == nil || m[1] == "" {
		return text
	}
	return strings.TrimSpace(m[1])
}

// Classifier implements [relay.Classifier] using the package heuristics.
type Classifier struct{}

// Interface compliance check.
var _ relay.Classifier = Classifier{}

// Classify reports whether text is code and, if so, its language, export
// extension and extracted body.
func (Classifier) Classify(text string) relay.Block {
	if !ContainsCode(text) {
		return relay.Block{Body: text}
	}
	lang := DetectLanguage(text)
	return relay.Block{
		IsCode:    true,
		Language:  string(lang),
		Extension: Extension(lang),
		Body:      Extract(text),
	}
}
