package output

import (
	"context"

	"pc-setup-agent/internal/domain/entity"
)

// LLMPort is a stateless chat-completion gateway: every call carries the
// whole conversation.
type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Temperature float32
}

type ChatResponse struct {
	Message entity.Message
}
