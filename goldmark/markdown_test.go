package goldmark_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/goldmark"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func plain(s string) string { return csi.ReplaceAllString(s, "") }

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

func TestRender_Contents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{
			name: "plain answer",
			src:  "Paris is the capital of France.",
			want: []string{"Paris is the capital of France."},
		},
		{
			name:    "emphasis markers are removed",
			src:     "This is **important** and *subtle* and ***both***.",
			want:    []string{"important", "subtle", "both"},
			notWant: []string{"*"},
		},
		{
			name:    "headings drop their hashes",
			src:     "## Summary\n\nShort answer.",
			want:    []string{"Summary", "Short answer."},
			notWant: []string{"#"},
		},
		{
			name:    "inline code keeps its text",
			src:     "Call `len(xs)` first.",
			want:    []string{"len(xs)"},
			notWant: []string{"`"},
		},
		{
			name: "links show text and target",
			src:  "See [the docs](https://ai.google.dev/gemini-api).",
			want: []string{"the docs", "(https://ai.google.dev/gemini-api)"},
		},
		{
			name: "images show alt text and target",
			src:  "![diagram](https://example.org/flow.png)",
			want: []string{"diagram", "(https://example.org/flow.png)"},
		},
		{
			name: "bullets",
			src:  "- apples\n- pears",
			want: []string{"• apples", "• pears"},
		},
		{
			name: "nested bullets are indented",
			src:  "- fruit\n  - apples\n  - pears",
			want: []string{"• fruit", "  • apples", "  • pears"},
		},
		{
			name: "ordered list keeps its start number",
			src:  "3. third\n4. fourth",
			want: []string{"3. third", "4. fourth"},
		},
		{
			name: "thematic break",
			src:  "before\n\n---\n\nafter",
			want: []string{"before", "───", "after"},
		},
		{
			name: "blockquote gets a bar",
			src:  "> quoted reply",
			want: []string{"▌ quoted reply"},
		},
		{
			name:    "strikethrough text is kept",
			src:     "~~old~~ new",
			want:    []string{"old", "new"},
			notWant: []string{"~~"},
		},
		{
			name: "bare URLs are linkified",
			src:  "Visit https://example.com today",
			want: []string{"https://example.com", "today"},
		},
		{
			name: "indented code block",
			src:  "intro\n\n    x := 1\n    y := 2",
			want: []string{"│ x := 1", "│ y := 2"},
		},
	}
	theme := relay.DefaultTheme()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := plain(goldmark.Render(tt.src, 80, theme))
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, out, nw)
			}
		})
	}
}

func TestRender_CodeBlocks(t *testing.T) {
	t.Parallel()

	theme := relay.DefaultTheme()

	t.Run("fence info string becomes the label", func(t *testing.T) {
		t.Parallel()
		out := plain(goldmark.Render("```go\nfmt.Println(\"hi\")\n```", 80, theme))
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "go", lines[0])
		assert.Equal(t, `│ fmt.Println("hi")`, lines[1])
	})

	t.Run("unlabeled fence gets a detected label", func(t *testing.T) {
		t.Parallel()
		out := plain(goldmark.Render("```\ndef greet():\n    return 1\n```", 80, theme))
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Python", lines[0])
		assert.Equal(t, "│     return 1", lines[2])
	})

	t.Run("unrecognized content has no label", func(t *testing.T) {
		t.Parallel()
		out := plain(goldmark.Render("```\nplain words\n```", 80, theme))
		assert.Equal(t, "│ plain words", out)
	})

	t.Run("long code lines are not wrapped", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("x", 60)
		out := plain(goldmark.Render("```\n"+long+"\n```", 20, theme))
		assert.Contains(t, out, long)
	})
}

func TestRender_Layout(t *testing.T) {
	t.Parallel()

	theme := relay.DefaultTheme()

	t.Run("empty source", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, goldmark.Render("", 80, theme))
	})

	t.Run("headings are styled differently from prose", func(t *testing.T) {
		t.Parallel()
		heading := goldmark.Render("# Answer", 80, theme)
		prose := goldmark.Render("Answer", 80, theme)
		assert.Equal(t, plain(heading), plain(prose))
		assert.NotEqual(t, heading, prose)
	})

	t.Run("paragraphs are separated by a blank line", func(t *testing.T) {
		t.Parallel()
		out := plain(goldmark.Render("one\n\ntwo", 80, theme))
		assert.Regexp(t, `one\s*\n\s*\ntwo`, out)
	})

	t.Run("prose wraps to the width", func(t *testing.T) {
		t.Parallel()
		src := strings.TrimSpace(strings.Repeat("token ", 20))
		out := plain(goldmark.Render(src, 24, theme))
		lines := strings.Split(out, "\n")
		assert.Greater(t, len(lines), 1)
		for _, line := range lines {
			assert.LessOrEqual(t, lipgloss.Width(line), 24, line)
		}
	})

	t.Run("wrapped list items hang under their text", func(t *testing.T) {
		t.Parallel()
		src := "- " + strings.TrimSpace(strings.Repeat("step ", 15))
		lines := strings.Split(plain(goldmark.Render(src, 30, theme)), "\n")
		require.Greater(t, len(lines), 1)
		assert.True(t, strings.HasPrefix(lines[0], "• "))
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) == "" {
				continue
			}
			assert.True(t, strings.HasPrefix(line, "  "), "continuation %q", line)
		}
	})

	t.Run("non-positive width means 80", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 80, goldmark.New(theme, 0).Width())
		assert.Equal(t, 80, goldmark.New(theme, -5).Width())
	})

	t.Run("renderer is reusable", func(t *testing.T) {
		t.Parallel()
		r := goldmark.New(theme, 40)
		first := r.Render("**a**")
		second := r.Render("**a**")
		assert.Equal(t, first, second)
		assert.Equal(t, "a", strings.TrimSpace(plain(first)))
	})
}

func TestColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, lipgloss.Color("5"), goldmark.Color(5))
	assert.Equal(t, lipgloss.NoColor{}, goldmark.Color(-1))
}
