package llm

import (
	"strings"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

// DefaultMaxTokens bounds replies when the request does not set MaxTokens.
const DefaultMaxTokens = 1024

// Turn is one conversational message handed to a provider.
type Turn struct {
	Role domain.Role
	Text string
}

// Prompt represents the system prompt + the conversation to send.
type Prompt struct {
	System string
	Turns  []Turn
}

// BuildPrompt turns a generation request into a system prompt and an ordered
// list of turns ending with the new user message. Upgrade prompts and
// clarification payloads in the history were never produced by the model and
// are left out, together with the user messages they answered.
func BuildPrompt(req domain.GenerationRequest) Prompt {
	turns := make([]Turn, 0, len(req.History)+1)
	for i, m := range req.History {
		if !modelTurn(m) {
			continue
		}
		if m.Author == domain.RoleUser && i+1 < len(req.History) && !modelTurn(req.History[i+1]) {
			continue
		}
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		turns = append(turns, Turn{Role: m.Author, Text: m.Text})
	}
	turns = append(turns, Turn{Role: domain.RoleUser, Text: UserContent(req)})

	return Prompt{
		System: req.SystemPrompt,
		Turns:  turns,
	}
}

func modelTurn(m *domain.Message) bool {
	return m.Kind == "" || m.Kind == domain.KindText
}

// UserContent prepends the clarification preface, if any, to the message.
func UserContent(req domain.GenerationRequest) string {
	if req.Preface == "" {
		return req.UserMessage
	}
	return req.Preface + req.UserMessage
}

func maxTokens(req domain.GenerationRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return DefaultMaxTokens
}
