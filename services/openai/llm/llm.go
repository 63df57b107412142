package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"personachat/core"
)

// Config holds the configuration for the OpenAI chat-completion service
type Config struct {
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url,omitempty"` // override for tests or gateways
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults. The API key must
// still be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Model: openai.GPT4oMini,
	}
}

// ChatService produces a single persona-flavored reply per request. It is
// stateless: every call carries the full conversation transcript.
type ChatService struct {
	client *openai.Client
	config Config
	logger *core.Logger
}

// NewChatService creates a ChatService from the given config.
func NewChatService(config Config, logger *core.Logger) *ChatService {
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if logger == nil {
		logger = core.GetLogger()
	}

	clientCfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientCfg.BaseURL = config.BaseURL
	}

	return &ChatService{
		client: openai.NewClientWithConfig(clientCfg),
		config: config,
		logger: logger,
	}
}

// Complete runs one non-streaming chat completion. The provider request is
// always [system prompt] followed by the history in order, unmodified.
// An empty or contentless choice list from the provider is treated as a
// provider error, not an empty reply.
func (s *ChatService) Complete(ctx context.Context, systemPrompt string, history []core.Message) (string, error) {
	if s.config.APIKey == "" {
		return "", fmt.Errorf("openai: API key is required")
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: chat completion returned no choices")
	}

	reply := resp.Choices[0].Message.Content
	s.logger.Debugf("openai: completion finished, %d choices, finish_reason=%s",
		len(resp.Choices), resp.Choices[0].FinishReason)
	return reply, nil
}
