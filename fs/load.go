package fs

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/relay"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentReads bounds the number of files read at once.
const maxConcurrentReads = 8

// Load expands patterns with [Glob] and reads every matched file as an
// attachment. Files are read concurrently; the result follows path order.
// The first failure cancels the remaining reads.
func Load(ctx context.Context, patterns ...string) ([]relay.Attachment, error) {
	paths, err := Glob(patterns...)
	if err != nil {
		return nil, err
	}

	out := make([]relay.Attachment, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := ReadAttachment(p)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadAttachment reads the file at path, detects its MIME type and validates
// it. The size limit is checked before the content is read.
func ReadAttachment(path string) (relay.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return relay.Attachment{}, fmt.Errorf("fs: %w", err)
	}
	if info.IsDir() {
		return relay.Attachment{}, fmt.Errorf("fs: %s is a directory", path)
	}

	name := filepath.Base(path)
	if info.Size() > relay.MaxAttachmentSize {
		return relay.Attachment{}, fmt.Errorf("fs: %s is %d bytes (max %d): %w",
			name, info.Size(), relay.MaxAttachmentSize, relay.ErrAttachmentTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return relay.Attachment{}, fmt.Errorf("fs: %w", err)
	}

	a := relay.Attachment{
		Name:     name,
		MimeType: DetectMimeType(name, data),
		Size:     int64(len(data)),
	}
	if a.IsTextual() {
		a.Text = strings.ToValidUTF8(string(data), string(utf8.RuneError))
	} else {
		a.Data = data
	}
	if err := a.Validate(); err != nil {
		return relay.Attachment{}, fmt.Errorf("fs: %w", err)
	}
	return a, nil
}

// DetectMimeType returns the MIME type registered for the file extension,
// falling back to content sniffing. Platform aliases are mapped to their
// canonical names.
func DetectMimeType(name string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return relay.CanonicalMimeType(t)
	}
	return relay.CanonicalMimeType(http.DetectContentType(data))
}
