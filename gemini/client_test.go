package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "Hello"}, {"text": " there"}]},
    "finishReason": "STOP"
  }],
  "usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 5}
}`

func serve(t *testing.T, status int, body string, inspect func(r *http.Request, body []byte)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if inspect != nil {
			inspect(r, b)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server, opts ...gemini.Option) *gemini.Client {
	t.Helper()
	opts = append([]gemini.Option{gemini.WithBaseURL(srv.URL), gemini.WithHTTPClient(srv.Client())}, opts...)
	c, err := gemini.New(context.Background(), "test-api-key", opts...)
	require.NoError(t, err)
	return c
}

func userRequest(text string) relay.Request {
	return relay.Request{
		Turns:  []relay.Turn{{Role: relay.RoleUser, Parts: []relay.Part{relay.TextPart{Text: text}}}},
		Config: relay.DefaultGenerationConfig(),
	}
}

func TestClient_RequestFormat(t *testing.T) {
	t.Parallel()

	var body map[string]any
	srv := serve(t, http.StatusOK, okBody, func(r *http.Request, b []byte) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))
		assert.NoError(t, json.Unmarshal(b, &body))
	})

	_, err := newClient(t, srv).Generate(context.Background(), userRequest("hi"))
	require.NoError(t, err)

	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	first := contents[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, []any{map[string]any{"text": "hi"}}, first["parts"])

	gc, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.7, gc["temperature"], 1e-6)
	assert.InDelta(t, 0.8, gc["topP"], 1e-6)
	assert.InDelta(t, 40, gc["topK"], 1e-6)
	assert.InDelta(t, 8192, gc["maxOutputTokens"], 1e-6)
}

func TestClient_ModelSelection(t *testing.T) {
	t.Parallel()

	var paths []string
	srv := serve(t, http.StatusOK, okBody, func(r *http.Request, _ []byte) {
		paths = append(paths, r.URL.Path)
	})
	c := newClient(t, srv, gemini.WithModel("gemini-1.5-pro"))

	_, err := c.Generate(context.Background(), userRequest("a"))
	require.NoError(t, err)
	req := userRequest("b")
	req.Model = "gemini-1.5-flash"
	_, err = c.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/v1beta/models/gemini-1.5-pro:generateContent",
		"/v1beta/models/gemini-1.5-flash:generateContent",
	}, paths)
}

func TestClient_Response(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, okBody, nil)
	resp, err := newClient(t, srv).Generate(context.Background(), userRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "Hello there", resp.Text)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, relay.Usage{InputTokens: 3, OutputTokens: 5}, resp.Usage)
}

func TestClient_SkipsThoughtParts(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"thinking","thought":true},{"text":"answer"}]}}]}`, nil)
	resp, err := newClient(t, srv).Generate(context.Background(), userRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Text)
}

func TestClient_NoCandidates(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `{"candidates":[]}`, `{"candidates":[{"finishReason":"SAFETY"}]}`} {
		srv := serve(t, http.StatusOK, body, nil)
		_, err := newClient(t, srv).Generate(context.Background(), userRequest("hi"))
		assert.ErrorIs(t, err, relay.ErrNoCandidates, body)
	}
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		message string
		kind    relay.ErrorKind
	}{
		{
			name:    "rate limit",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`,
			message: "Resource has been exhausted",
			kind:    relay.ErrorRateLimit,
		},
		{
			name:    "invalid key",
			status:  http.StatusBadRequest,
			body:    `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`,
			message: "API key not valid. Please pass a valid API key.",
			kind:    relay.ErrorCredential,
		},
		{
			name:    "server error",
			status:  http.StatusServiceUnavailable,
			body:    `{"error":{"code":503,"message":"The model is overloaded.","status":"UNAVAILABLE"}}`,
			message: "The model is overloaded.",
			kind:    relay.ErrorGeneric,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := serve(t, tt.status, tt.body, nil)
			_, err := newClient(t, srv).Generate(context.Background(), userRequest("hi"))
			require.Error(t, err)

			var apiErr *relay.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.status, relay.StatusCode(err))
			assert.Equal(t, tt.kind, relay.ClassifyError(err))
		})
	}
}

func TestConvertTurns(t *testing.T) {
	t.Parallel()

	turns := []relay.Turn{
		{Role: relay.RoleUser, Parts: []relay.Part{
			relay.TextPart{Text: "look"},
			relay.InlineDataPart{MimeType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
		}},
		{Role: relay.RoleModel, Parts: []relay.Part{relay.TextPart{Text: "a picture"}}},
	}
	got := gemini.ConvertTurns(turns)
	require.Len(t, got, 2)

	assert.Equal(t, "user", got[0].Role)
	require.Len(t, got[0].Parts, 2)
	assert.Equal(t, "look", got[0].Parts[0].Text)
	require.NotNil(t, got[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", got[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, got[0].Parts[1].InlineData.Data)

	assert.Equal(t, "model", got[1].Role)
	require.Len(t, got[1].Parts, 1)
	assert.Equal(t, "a picture", got[1].Parts[0].Text)
}

func TestConvertTurns_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, gemini.ConvertTurns(nil))
}
