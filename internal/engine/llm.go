package engine

import (
	"context"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Completer is the one LLM operation the pipeline needs. Tests swap in fakes.
type Completer interface {
	Complete(ctx context.Context, system, user string, opts ...CompleteOption) (string, error)
}

type completeOptions struct {
	temperature float64
	maxTokens   int
}

// CompleteOption overrides per-call sampling parameters.
type CompleteOption func(*completeOptions)

// WithTemperature sets the sampling temperature for one call.
func WithTemperature(t float64) CompleteOption {
	return func(o *completeOptions) { o.temperature = t }
}

// WithMaxTokens caps the completion length for one call.
func WithMaxTokens(n int) CompleteOption {
	return func(o *completeOptions) { o.maxTokens = n }
}

// OpenAIClient implements Completer over the OpenAI chat completions API.
// Works against any OpenAI-compatible base URL.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIClient builds a client with per-run default sampling parameters.
func NewOpenAIClient(apiKey, baseURL, model string, temperature float64, maxTokens int) *OpenAIClient {
	c := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		c.BaseURL = baseURL
	}
	c.HTTPClient = &http.Client{Timeout: 90 * time.Second}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(c),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Complete sends one chat completion. An empty choice list or blank message
// is ErrEmptyCompletion, not success.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string, opts ...CompleteOption) (string, error) {
	o := completeOptions{temperature: c.temperature, maxTokens: c.maxTokens}
	for _, opt := range opts {
		opt(&o)
	}

	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: float32(o.temperature),
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// StripFences removes markdown code fences from LLM output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
