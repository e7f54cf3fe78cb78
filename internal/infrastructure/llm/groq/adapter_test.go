package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/domain/entity"
	"pc-setup-agent/internal/infrastructure/logger"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertResponseMessage_WithContent(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "Processador: Ryzen 5 5600",
	}

	result := convertResponseMessage(msg)

	assert.Equal(t, entity.RoleAssistant, result.Role)
	assert.Equal(t, "Processador: Ryzen 5 5600", result.Content)
	assert.Len(t, result.ContentBlocks, 1)
	assert.Equal(t, entity.ContentTypeText, result.ContentBlocks[0].Type)
	assert.Equal(t, "Processador: Ryzen 5 5600", result.ContentBlocks[0].Text)
}

func TestConvertResponseMessage_WithReasoning(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:             "assistant",
		Content:          "Placa de Vídeo: RX 7600",
		ReasoningContent: "o orçamento comporta uma GPU dedicada",
	}

	result := convertResponseMessage(msg)

	require.Len(t, result.ContentBlocks, 2)
	assert.Equal(t, entity.ContentTypeThinking, result.ContentBlocks[0].Type)
	assert.Equal(t, "o orçamento comporta uma GPU dedicada", result.ContentBlocks[0].Thinking)
	assert.Equal(t, entity.ContentTypeText, result.ContentBlocks[1].Type)
	assert.Equal(t, "Placa de Vídeo: RX 7600", result.ContentBlocks[1].Text)
	assert.Equal(t, "Placa de Vídeo: RX 7600", result.Content)
}

func TestConvertResponseMessage_WithToolCalls(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role: "assistant",
		ToolCalls: []openai.ToolCall{
			{
				ID:   "call_123",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "tavily_search_results_json",
					Arguments: `{"query":"preço ryzen 5 5600 kabum"}`,
				},
			},
		},
	}

	result := convertResponseMessage(msg)

	assert.Equal(t, entity.RoleAssistant, result.Role)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call_123", result.ToolCalls[0].ID)
	assert.Equal(t, entity.ToolWebSearch, result.ToolCalls[0].Name)
	assert.Len(t, result.ContentBlocks, 1)
	assert.Equal(t, entity.ContentTypeToolUse, result.ContentBlocks[0].Type)
	assert.NotNil(t, result.ContentBlocks[0].ToolUse)
}

func TestConvertMessages_ToolRoundTrip(t *testing.T) {
	call := entity.ToolCall{ID: "c1", Name: entity.ToolWebSearch, Arguments: `{"query":"x"}`}
	messages := []entity.Message{
		entity.NewUserMessage("Hello"),
		{Role: entity.RoleAssistant, ToolCalls: []entity.ToolCall{call}},
		entity.NewToolResultMessage(call, `[{"url":"u"}]`),
	}

	result := convertMessages(messages)

	require.Len(t, result, 3)
	assert.Equal(t, "user", result[0].Role)
	assert.Equal(t, "Hello", result[0].Content)
	require.Len(t, result[1].ToolCalls, 1)
	assert.Equal(t, "c1", result[1].ToolCalls[0].ID)
	assert.Equal(t, "tavily_search_results_json", result[1].ToolCalls[0].Function.Name)
	assert.Equal(t, "tool", result[2].Role)
	assert.Equal(t, "c1", result[2].ToolCallID)
	assert.Equal(t, `[{"url":"u"}]`, result[2].Content)
}

func TestConvertMessages_SkipsThinkingBlocks(t *testing.T) {
	messages := []entity.Message{
		{
			Role: entity.RoleAssistant,
			ContentBlocks: []entity.ContentBlock{
				{Type: entity.ContentTypeThinking, Thinking: "budget first"},
				{Type: entity.ContentTypeText, Text: "Response text"},
			},
		},
	}

	result := convertMessages(messages)

	require.Len(t, result, 1)
	assert.Equal(t, "Response text", result[0].Content)
}

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *GroqAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig("test-key", "")
	cfg.BaseURL = srv.URL
	cfg.Logger = logger.NewNop()
	cfg.LogHTTP = true
	return NewGroqAdapter(cfg)
}

func TestChat_SendsToolsAndParsesToolCalls(t *testing.T) {
	var captured openai.ChatCompletionRequest
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "llama-3.3-70b-versatile",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "tavily_search_results_json", "arguments": "{\"query\":\"rx 6600 preço\"}"}
					}]
				}
			}]
		}`))
	})

	resp, err := a.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{entity.NewUserMessage("monte um PC")},
		Tools: []entity.ToolDefinition{{
			Name:        entity.ToolWebSearch,
			Description: "search",
			Parameters:  map[string]interface{}{"type": "object"},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, captured.Model)
	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "tavily_search_results_json", captured.Tools[0].Function.Name)
	assert.Equal(t, "auto", captured.ToolChoice)

	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.Message.ToolCalls[0].ID)
	args, err := resp.Message.ToolCalls[0].Args()
	require.NoError(t, err)
	assert.Equal(t, "rx 6600 preço", args.String("query"))
}

func TestChat_RateLimitIsDistinguishable(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"tokens"}}`))
	})

	_, err := a.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{entity.NewUserMessage("oi")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrRateLimited)
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestChat_ServerErrorIsGatewayError(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	})

	_, err := a.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{entity.NewUserMessage("oi")},
	})
	assert.ErrorIs(t, err, entity.ErrGateway)
}

func TestChat_TimeoutIsDistinguishable(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := a.Chat(ctx, output.ChatRequest{
		Messages: []entity.Message{entity.NewUserMessage("oi")},
	})
	assert.ErrorIs(t, err, entity.ErrGatewayTimeout)
}

func TestChat_NoChoices(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	})

	_, err := a.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{entity.NewUserMessage("oi")},
	})
	assert.ErrorIs(t, err, entity.ErrGateway)
}
