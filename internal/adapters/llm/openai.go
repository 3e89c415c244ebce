package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIClient implements domain.LLMClient with the Responses API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key must be set")
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAIClient{client: &client, model: model}, nil
}

func (o *OpenAIClient) Provider() string {
	return "openai"
}

func (o *OpenAIClient) GenerateReply(ctx context.Context, req domain.GenerationRequest) (string, error) {
	p := BuildPrompt(req)

	input := make(responses.ResponseInputParam, 0, len(p.Turns)+1)
	input = append(input, responses.ResponseInputItemParamOfMessage(p.System, responses.EasyInputMessageRoleSystem))
	for _, t := range p.Turns {
		role := responses.EasyInputMessageRoleUser
		if t.Role == domain.RoleAgent {
			role = responses.EasyInputMessageRoleAssistant
		}
		input = append(input, responses.ResponseInputItemParamOfMessage(t.Text, role))
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(o.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: input,
		},
		MaxOutputTokens: openai.Int(int64(maxTokens(req))),
	}

	res, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai responses: %w", err)
	}

	text := res.OutputText()
	if text == "" {
		return "", fmt.Errorf("openai returned empty text")
	}
	return text, nil
}
