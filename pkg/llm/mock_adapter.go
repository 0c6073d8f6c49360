package llm

import (
	"context"
	"fmt"
)

// MockAdapter answers every query with a deterministic canned response
// instead of calling out to a real provider. Selected via the MOCK_MODE
// environment variable (spec §6); useful for local development and for
// exercising the workflow engine without an OpenRouter API key.
type MockAdapter struct{}

// NewMockAdapter creates a MockAdapter.
func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) Query(_ context.Context, model string, messages []Message, _ int) (*Response, error) {
	return &Response{
		Model:   model,
		Content: fmt.Sprintf("[mock response from %s] %s", model, lastUserContent(messages)),
	}, nil
}

func (a *MockAdapter) QueryParallel(ctx context.Context, models []string, messages []Message, maxTokens int) (map[string]*Response, error) {
	out := make(map[string]*Response, len(models))
	for _, model := range models {
		resp, _ := a.Query(ctx, model, messages, maxTokens)
		out[model] = resp
	}
	return out, nil
}

func lastUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}
