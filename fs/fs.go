// Package fs reads user files into relay attachments and writes exported
// conversations and code blocks back to disk.
package fs

import "errors"

// ErrNoMatch is returned when a pattern matches no regular files.
var ErrNoMatch = errors.New("fs: no files match")
