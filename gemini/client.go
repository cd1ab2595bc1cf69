package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/relay"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ relay.Generator = (*Client)(nil)

// Client implements [relay.Generator] for the Google Gemini API.
type Client struct {
	client     *genai.Client
	model      string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model used when a request names none.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		model: defaultModel,
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c.client = gc
	return c, nil
}

// Generate sends the conversation to the generateContent endpoint and
// returns the text of the first candidate. Non-2xx responses are returned as
// *relay.APIError so the status drives retry decisions.
func (c *Client) Generate(ctx context.Context, req relay.Request) (*relay.Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, model, ConvertTurns(req.Turns), buildConfig(req.Config))
	if err != nil {
		c.log.Debug("generate failed", zap.String("model", model), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, translateError(err)
	}

	text, finish, ok := candidateText(resp)
	if !ok {
		return nil, fmt.Errorf("gemini: %w", relay.ErrNoCandidates)
	}

	out := &relay.Response{Text: text, FinishReason: finish}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = relay.Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
		}
	}
	c.log.Debug("generate completed",
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("input_tokens", out.Usage.InputTokens),
		zap.Int("output_tokens", out.Usage.OutputTokens),
		zap.String("finish_reason", finish))
	return out, nil
}

// candidateText joins the non-thought text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) (string, string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", "", false
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", "", false
	}
	var sb strings.Builder
	var found bool
	for _, p := range cand.Content.Parts {
		if p == nil || p.Thought || p.Text == "" {
			continue
		}
		sb.WriteString(p.Text)
		found = true
	}
	return sb.String(), string(cand.FinishReason), found
}

func translateError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini: %w", &relay.APIError{StatusCode: apiErr.Code, Message: apiErr.Message})
	}
	return fmt.Errorf("gemini: %w", err)
}

func buildConfig(gc relay.GenerationConfig) *genai.GenerateContentConfig {
	temp := float32(gc.Temperature)
	topP := float32(gc.TopP)
	topK := float32(gc.TopK)
	return &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: int32(gc.MaxOutputTokens),
	}
}

// ConvertTurns converts relay Turns to genai Contents.
// Exported for testing.
func ConvertTurns(turns []relay.Turn) []*genai.Content {
	result := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		result = append(result, &genai.Content{
			Role:  string(t.Role),
			Parts: convertParts(t.Parts),
		})
	}
	return result
}

func convertParts(parts []relay.Part) []*genai.Part {
	var out []*genai.Part
	for _, p := range parts {
		switch pt := p.(type) {
		case relay.TextPart:
			out = append(out, &genai.Part{Text: pt.Text})
		case relay.InlineDataPart:
			out = append(out, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: pt.MimeType,
					Data:     pt.Data,
				},
			})
		}
	}
	return out
}
