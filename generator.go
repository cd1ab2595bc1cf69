package relay

import "context"

// Generator produces a single model response for a conversation.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Invoke performs one attempt of a remote call.
type Invoke func(ctx context.Context) (*Response, error)

// Dispatcher serializes invocations against a shared rate limit. Submit
// blocks until the invocation has settled or ctx is done.
type Dispatcher interface {
	Submit(ctx context.Context, invoke Invoke) (*Response, error)
}

// Request carries model selection, conversation and generation parameters.
type Request struct {
	Model  string // model ID; empty = generator default
	Turns  []Turn
	Config GenerationConfig
}

// GenerationConfig holds sampling parameters sent with every request.
type GenerationConfig struct {
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
	TopK            int
}

// DefaultGenerationConfig returns the parameters used when none are configured.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		MaxOutputTokens: 8192,
		TopP:            0.8,
		TopK:            40,
	}
}

// Response is the text result of a successful generation.
type Response struct {
	Text         string
	FinishReason string
	Usage        Usage
}
