package relay

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// MaxAttachmentSize is the largest accepted attachment, in bytes.
const MaxAttachmentSize = 20 * 1024 * 1024

// allowedMimeTypes lists the MIME types accepted as attachments.
var allowedMimeTypes = []string{
	"text/plain", "text/html", "text/css", "text/javascript", "application/json",
	"application/xml", "text/csv", "text/markdown", "image/jpeg", "image/png",
	"image/gif", "image/webp", "video/mp4", "audio/mpeg", "audio/wav",
	"application/pdf", "application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// mimeAliases maps nonstandard names that platforms report for accepted
// types to the name used in allowedMimeTypes.
var mimeAliases = map[string]string{
	"audio/x-wav":              "audio/wav",
	"audio/wave":               "audio/wav",
	"audio/vnd.wave":           "audio/wav",
	"audio/mp3":                "audio/mpeg",
	"application/x-javascript": "text/javascript",
}

// textualExtensions are file extensions treated as text regardless of MIME type.
var textualExtensions = []string{".py", ".js", ".html", ".css", ".json", ".xml", ".csv", ".md", ".txt"}

// Attachment is a file supplied alongside a user message. Textual attachments
// carry their decoded content in Text; all others carry raw bytes in Data.
type Attachment struct {
	Name     string
	MimeType string
	Size     int64
	Text     string
	Data     []byte
}

// IsTextual reports whether a file with the given name and MIME type is sent
// as an injected text block rather than inline data.
func IsTextual(name, mimeType string) bool {
	if strings.HasPrefix(baseMimeType(mimeType), "text/") {
		return true
	}
	return slices.Contains(textualExtensions, strings.ToLower(filepath.Ext(name)))
}

// IsTextual reports whether a is sent as an injected text block.
func (a Attachment) IsTextual() bool {
	return IsTextual(a.Name, a.MimeType)
}

// Validate checks size and type constraints.
func (a Attachment) Validate() error {
	if a.Size > MaxAttachmentSize {
		return fmt.Errorf("%s is %d bytes (max %d): %w", a.Name, a.Size, MaxAttachmentSize, ErrAttachmentTooLarge)
	}
	if slices.Contains(allowedMimeTypes, baseMimeType(a.MimeType)) {
		return nil
	}
	if slices.Contains(textualExtensions, strings.ToLower(filepath.Ext(a.Name))) {
		return nil
	}
	return fmt.Errorf("%s (%s): %w", a.Name, a.MimeType, ErrUnsupportedAttachment)
}

// Part converts the attachment into turn content: a delimited text block for
// textual files, inline data otherwise.
func (a Attachment) Part() Part {
	if a.IsTextual() {
		return TextPart{Text: fmt.Sprintf("\n\n--- File: %s ---\n%s\n--- End of file ---", a.Name, a.Text)}
	}
	mimeType := baseMimeType(a.MimeType)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return InlineDataPart{MimeType: mimeType, Data: a.Data}
}

// CanonicalMimeType replaces a known alias such as "audio/x-wav" with its
// canonical name. Other types are returned unchanged.
func CanonicalMimeType(mimeType string) string {
	if c, ok := mimeAliases[stripParams(mimeType)]; ok {
		return c
	}
	return mimeType
}

// baseMimeType strips parameters such as "; charset=utf-8" and resolves
// aliases.
func baseMimeType(mimeType string) string {
	base := stripParams(mimeType)
	if c, ok := mimeAliases[base]; ok {
		return c
	}
	return base
}

func stripParams(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(base))
}
