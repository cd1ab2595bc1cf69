package relay_test

import (
	"testing"

	"github.com/fwojciec/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTextual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, mime string
		want       bool
	}{
		{"notes.txt", "text/plain", true},
		{"page.html", "text/html; charset=utf-8", true},
		{"main.py", "application/octet-stream", true},
		{"DATA.JSON", "application/json", true},
		{"photo.png", "image/png", false},
		{"doc.pdf", "application/pdf", false},
		{"main.go", "text/x-go", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relay.IsTextual(tt.name, tt.mime), tt.name)
	}
}

func TestAttachment_Validate(t *testing.T) {
	t.Parallel()

	t.Run("allowed mime", func(t *testing.T) {
		t.Parallel()
		a := relay.Attachment{Name: "a.png", MimeType: "image/png", Size: 10}
		assert.NoError(t, a.Validate())
	})

	t.Run("textual extension with unknown mime", func(t *testing.T) {
		t.Parallel()
		a := relay.Attachment{Name: "script.py", MimeType: "text/x-python", Size: 10}
		assert.NoError(t, a.Validate())
	})

	t.Run("mime parameters ignored", func(t *testing.T) {
		t.Parallel()
		a := relay.Attachment{Name: "x", MimeType: "text/plain; charset=utf-8", Size: 10}
		assert.NoError(t, a.Validate())
	})

	t.Run("platform aliases of allowed types", func(t *testing.T) {
		t.Parallel()
		for _, mt := range []string{"audio/x-wav", "audio/wave", "audio/vnd.wave", "audio/mp3"} {
			a := relay.Attachment{Name: "clip", MimeType: mt, Size: 10}
			assert.NoError(t, a.Validate(), mt)
		}
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		a := relay.Attachment{Name: "big.png", MimeType: "image/png", Size: relay.MaxAttachmentSize + 1}
		assert.ErrorIs(t, a.Validate(), relay.ErrAttachmentTooLarge)
	})

	t.Run("exactly max size", func(t *testing.T) {
		t.Parallel()
		a := relay.Attachment{Name: "big.png", MimeType: "image/png", Size: relay.MaxAttachmentSize}
		assert.NoError(t, a.Validate())
	})

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()
		a := relay.Attachment{Name: "app.exe", MimeType: "application/x-msdownload", Size: 10}
		assert.ErrorIs(t, a.Validate(), relay.ErrUnsupportedAttachment)
	})
}

func TestAttachment_Part(t *testing.T) {
	t.Parallel()

	t.Run("textual becomes delimited text block", func(t *testing.T) {
		t.Parallel()
		a := relay.Attachment{Name: "notes.md", MimeType: "text/markdown", Text: "# hi"}
		got, ok := a.Part().(relay.TextPart)
		require.True(t, ok)
		assert.Equal(t, "\n\n--- File: notes.md ---\n# hi\n--- End of file ---", got.Text)
	})

	t.Run("binary becomes inline data", func(t *testing.T) {
		t.Parallel()
		a := relay.Attachment{Name: "p.png", MimeType: "image/png", Data: []byte{1, 2, 3}}
		assert.Equal(t, relay.InlineDataPart{MimeType: "image/png", Data: []byte{1, 2, 3}}, a.Part())
	})

	t.Run("aliased mime is sent canonical", func(t *testing.T) {
		t.Parallel()
		a := relay.Attachment{Name: "clip.wav", MimeType: "audio/x-wav", Data: []byte{1}}
		assert.Equal(t, relay.InlineDataPart{MimeType: "audio/wav", Data: []byte{1}}, a.Part())
	})

	t.Run("missing mime defaults to octet stream", func(t *testing.T) {
		t.Parallel()
		a := relay.Attachment{Name: "blob", Data: []byte{0}}
		got, ok := a.Part().(relay.InlineDataPart)
		require.True(t, ok)
		assert.Equal(t, "application/octet-stream", got.MimeType)
	})
}

func TestCanonicalMimeType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "audio/wav", relay.CanonicalMimeType("audio/x-wav"))
	assert.Equal(t, "audio/wav", relay.CanonicalMimeType("audio/wave"))
	assert.Equal(t, "audio/mpeg", relay.CanonicalMimeType("audio/mp3"))
	assert.Equal(t, "text/plain; charset=utf-8", relay.CanonicalMimeType("text/plain; charset=utf-8"))
	assert.Equal(t, "image/png", relay.CanonicalMimeType("image/png"))
}
