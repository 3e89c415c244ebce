package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

type VertexConfig struct {
	ProjectID string
	Location  string
	ModelName string
}

type VertexClient struct {
	client    *genai.Client
	modelName string
}

// NewVertexClient creates an LLMClient based on Vertex AI (Gemini).
func NewVertexClient(ctx context.Context, cfg VertexConfig) (*VertexClient, error) {
	if cfg.ProjectID == "" || cfg.Location == "" {
		return nil, fmt.Errorf("vertex: project and location must be set")
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.ProjectID,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClient{
		client:    client,
		modelName: modelName,
	}, nil
}

func (v *VertexClient) Provider() string {
	return "vertex"
}

// GenerateReply implements domain.LLMClient using Vertex AI.
func (v *VertexClient) GenerateReply(ctx context.Context, req domain.GenerationRequest) (string, error) {
	p := BuildPrompt(req)

	contents := make([]*genai.Content, 0, len(p.Turns))
	for _, t := range p.Turns {
		var role genai.Role = genai.RoleUser
		if t.Role == domain.RoleAgent {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		// genai expects the system instruction as a user-role content.
		SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   int32(maxTokens(req)),
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("vertex returned empty text")
	}

	return text, nil
}
