package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

// MockLLM answers without calling any provider. Used in local mode and tests.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Provider() string {
	return "mock"
}

func (m *MockLLM) GenerateReply(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := BuildPrompt(req)
	return fmt.Sprintf("I hear you. You said %q. Tell me more about what you'd like to achieve.", p.Turns[len(p.Turns)-1].Text), nil
}
