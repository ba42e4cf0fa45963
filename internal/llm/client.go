package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrNotConfigured = errors.New("llm client is not configured")
	ErrEmptyResponse = errors.New("llm returned no choices")
)

const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

type Message struct {
	Role    string
	Content string
}

type ChatOptions struct {
	Temperature float32
	JSONMode    bool // response_format=json_object
	MaxTokens   int
}

// Client - чат-completion модель
type Client interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HTTPClient работает с любым OpenAI-совместимым /chat/completions
type HTTPClient struct {
	model  string
	client *openai.Client
}

// NewHTTPClient без ключа или адреса возвращает клиент, который всегда отвечает ErrNotConfigured
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if cfg.APIKey == "" || baseURL == "" {
		return &HTTPClient{model: cfg.Model}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &HTTPClient{
		model:  cfg.Model,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (c *HTTPClient) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	if opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("llm returned status %d: %w", apiErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
