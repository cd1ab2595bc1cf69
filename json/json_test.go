package json_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/relay"
	relayjson "github.com/fwojciec/relay/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConversation() relayjson.Conversation {
	ts1 := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	ts2 := time.Date(2026, 2, 18, 12, 0, 1, 0, time.UTC)
	return relayjson.Conversation{
		Name:  "Conversation 1",
		Date:  time.Date(2026, 2, 18, 12, 5, 0, 0, time.UTC),
		Model: "gemini-2.0-flash",
		Turns: []relay.Turn{
			{
				Role: relay.RoleUser,
				Parts: []relay.Part{
					relay.TextPart{Text: "What is in this image?"},
					relay.InlineDataPart{MimeType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
				},
				Timestamp: ts1,
			},
			{
				Role:      relay.RoleModel,
				Parts:     []relay.Part{relay.TextPart{Text: "A tiny PNG header."}},
				Timestamp: ts2,
			},
		},
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	c := sampleConversation()
	data, err := relayjson.Marshal(c)
	require.NoError(t, err)

	got, err := relayjson.Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, c.Model, got.Model)
	assert.True(t, c.Date.Equal(got.Date))
	require.Len(t, got.Turns, 2)
	assert.Equal(t, c.Turns[0].Parts, got.Turns[0].Parts)
	assert.Equal(t, c.Turns[1].Parts, got.Turns[1].Parts)
	assert.True(t, c.Turns[0].Timestamp.Equal(got.Turns[0].Timestamp))
}

func TestMarshal_WireFormat(t *testing.T) {
	t.Parallel()

	data, err := relayjson.Marshal(sampleConversation())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, float64(1), raw["version"])
	assert.Equal(t, "Conversation 1", raw["name"])
	assert.Equal(t, "2026-02-18T12:05:00Z", raw["date"])
	assert.Equal(t, "gemini-2.0-flash", raw["model"])

	conv := raw["conversation"].([]any)
	require.Len(t, conv, 2)
	user := conv[0].(map[string]any)
	assert.Equal(t, "user", user["role"])
	parts := user["parts"].([]any)
	assert.Equal(t, map[string]any{"text": "What is in this image?"}, parts[0])
	assert.Equal(t, map[string]any{
		"inline_data": map[string]any{"mime_type": "image/png", "data": "iVBORw=="},
	}, parts[1])
}

func TestUnmarshal_WithoutTimestamps(t *testing.T) {
	t.Parallel()

	data := `{"version":1,"name":"x","date":"2024-01-01T00:00:00Z","model":"gemini-1.5-pro",
	  "conversation":[{"role":"user","parts":[{"text":"hi"}]},{"role":"model","parts":[{"text":"hello"}]}]}`
	got, err := relayjson.Unmarshal([]byte(data))
	require.NoError(t, err)
	require.Len(t, got.Turns, 2)
	assert.True(t, got.Turns[0].Timestamp.IsZero())
	assert.Equal(t, "hello", got.Turns[1].Text())
}

func TestUnmarshal_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{`},
		{"unsupported version", `{"version":2,"conversation":[]}`},
		{"empty part", `{"version":1,"conversation":[{"role":"user","parts":[{}]}]}`},
		{"both fields", `{"version":1,"conversation":[{"role":"user","parts":[{"text":"a","inline_data":{"mime_type":"image/png","data":""}}]}]}`},
		{"bad base64", `{"version":1,"conversation":[{"role":"user","parts":[{"inline_data":{"mime_type":"image/png","data":"!!"}}]}]}`},
		{"unknown role", `{"version":1,"conversation":[{"role":"system","parts":[{"text":"a"}]}]}`},
		{"image in model turn", `{"version":1,"conversation":[{"role":"model","parts":[{"inline_data":{"mime_type":"image/png","data":"AA=="}}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := relayjson.Unmarshal([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestExportImport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, relayjson.Export(&buf, sampleConversation()))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))

	got, err := relayjson.Import(&buf)
	require.NoError(t, err)
	assert.Len(t, got.Turns, 2)
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exports", "chat.json")
	require.NoError(t, relayjson.Save(path, sampleConversation()))

	got, err := relayjson.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Conversation 1", got.Name)
	assert.Len(t, got.Turns, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := relayjson.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
