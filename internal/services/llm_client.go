package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// ChatCompleter performs one chat-completion round trip that must answer
// with a JSON document, and returns the raw text of that answer.
type ChatCompleter interface {
	Provider() string
	CompleteJSON(ctx context.Context, system, user string, temperature float32) (string, error)
}

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIClient fails with ErrMissingCredential when apiKey is blank.
// httpClient may be nil to use the library default.
func NewOpenAIClient(apiKey, baseURL, model string, httpClient *http.Client) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		apiKey: apiKey,
		model:  model,
	}, nil
}

func (c *OpenAIClient) Provider() string { return "openai" }

// CompleteJSON returns transport and API errors exactly as go-openai reports them.
func (c *OpenAIClient) CompleteJSON(ctx context.Context, system, user string, temperature float32) (string, error) {
	if c == nil || c.apiKey == "" {
		return "", ErrMissingCredential
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrNoResponse
	}
	return text, nil
}

// GeminiClient uses Google's Gemini models in JSON response mode.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient fails with ErrMissingCredential when apiKey is blank.
// opts are appended after the key, e.g. to point at another endpoint.
func NewGeminiClient(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) CompleteJSON(ctx context.Context, system, user string, temperature float32) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrMissingCredential
	}

	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(temperature)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := m.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNoResponse
	}
	return text, nil
}

func (c *GeminiClient) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// UnconfiguredCompleter stands in when no credential was supplied so the
// server can still boot; every call fails before touching the network.
type UnconfiguredCompleter struct {
	ProviderName string
}

func (u UnconfiguredCompleter) Provider() string { return u.ProviderName }

func (u UnconfiguredCompleter) CompleteJSON(context.Context, string, string, float32) (string, error) {
	return "", ErrMissingCredential
}
