package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeThinking ContentType = "thinking"
	ContentTypeToolUse  ContentType = "tool_use"
)

type ContentBlock struct {
	Type     ContentType
	Text     string
	Thinking string
	ToolUse  *ToolCall
}

// Message is one turn of a conversation. A conversation is append-only:
// messages are never modified after they have been appended.
type Message struct {
	Role          MessageRole
	Content       string
	ContentBlocks []ContentBlock
	ToolCalls     []ToolCall
	ToolCallID    string
	Name          string
}

func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

func NewToolResultMessage(call ToolCall, content string) Message {
	return Message{
		Role:       RoleTool,
		ToolCallID: call.ID,
		Name:       call.Name.String(),
		Content:    content,
	}
}

type ToolCall struct {
	ID        string
	Name      ToolName
	Arguments string
}

// Args decodes the raw JSON arguments emitted by the model.
func (tc ToolCall) Args() (ToolArgs, error) {
	args := ToolArgs{}
	raw := strings.TrimSpace(tc.Arguments)
	if raw == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("decode arguments of %s: %w", tc.Name, err)
	}
	return args, nil
}

type ToolArgs map[string]any

func (a ToolArgs) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  map[string]interface{}
}
