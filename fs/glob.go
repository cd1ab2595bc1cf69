package fs

import (
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob expands each pattern to the regular files it matches. Patterns
// support ** for recursive matching; a pattern without metacharacters names
// a single file. The result is sorted and free of duplicates. Every pattern
// must match at least one file.
func Glob(patterns ...string) ([]string, error) {
	var paths []string
	for _, p := range patterns {
		if !doublestar.ValidatePathPattern(p) {
			return nil, fmt.Errorf("fs: invalid glob pattern %q", p)
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("fs: %s: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w %q", ErrNoMatch, p)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}
