package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

// Settings carries what every provider constructor may need.
type Settings struct {
	Provider        string
	ModelName       string
	GCPProjectID    string
	GCPLocation     string
	AnthropicAPIKey string
	OpenAIAPIKey    string
}

// New picks the LLM client named by s.Provider: mock, vertex, anthropic or openai.
func New(ctx context.Context, s Settings) (domain.LLMClient, error) {
	switch s.Provider {
	case "", "mock":
		return NewMockLLM(), nil
	case "vertex":
		return NewVertexClient(ctx, VertexConfig{
			ProjectID: s.GCPProjectID,
			Location:  s.GCPLocation,
			ModelName: s.ModelName,
		})
	case "anthropic":
		return NewAnthropicClient(AnthropicConfig{APIKey: s.AnthropicAPIKey, Model: s.ModelName})
	case "openai":
		return NewOpenAIClient(OpenAIConfig{APIKey: s.OpenAIAPIKey, Model: s.ModelName})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", s.Provider)
	}
}
