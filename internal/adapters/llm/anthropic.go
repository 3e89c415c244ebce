package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// AnthropicClient implements domain.LLMClient with the Messages API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: api key must be set")
	}
	model := cfg.Model
	if model == "" {
		model = "claude-haiku-4-5"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	return &AnthropicClient{client: &client, model: model}, nil
}

func (a *AnthropicClient) Provider() string {
	return "anthropic"
}

func (a *AnthropicClient) GenerateReply(ctx context.Context, req domain.GenerationRequest) (string, error) {
	p := BuildPrompt(req)

	messages := make([]anthropic.MessageParam, 0, len(p.Turns))
	for _, t := range p.Turns {
		if t.Role == domain.RoleAgent {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Text)))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Text)))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(maxTokens(req)),
		System: []anthropic.TextBlockParam{
			{Text: p.System},
		},
		Messages: messages,
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic returned empty text")
	}
	return sb.String(), nil
}
