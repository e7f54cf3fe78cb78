package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"pc-setup-agent/internal/adapter/tool"
	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/application/service"
	"pc-setup-agent/internal/domain/entity"
	"pc-setup-agent/internal/infrastructure/logger"
	"pc-setup-agent/internal/infrastructure/prompts"
	"pc-setup-agent/internal/infrastructure/storage/memory"
	"pc-setup-agent/internal/usecase/resolver"
	"pc-setup-agent/internal/usecase/setup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedLLM struct {
	mu       sync.Mutex
	replies  []entity.Message
	err      error
	calls    int
	requests []output.ChatRequest
}

func (s *scriptedLLM) Chat(_ context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	req.Messages = append([]entity.Message(nil), req.Messages...)
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	msg := s.replies[0]
	s.replies = s.replies[1:]
	return &output.ChatResponse{Message: msg}, nil
}

type fakeSearch struct {
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) ([]entity.SearchResult, error) {
	f.queries = append(f.queries, query)
	return []entity.SearchResult{
		{URL: "https://kabum.com.br/1", Content: "Ryzen 5 5600G R$ 749"},
		{URL: "https://pichau.com.br/2", Content: "Ryzen 5 5600G R$ 769"},
		{URL: "https://terabyteshop.com.br/3", Content: "Ryzen 5 5600G R$ 759"},
		{URL: "https://example.com/4", Content: "extra"},
	}, nil
}

type env struct {
	server *httptest.Server
	llm    *scriptedLLM
	search *fakeSearch
	store  *memory.RecommendationStore
}

func newEnv(t *testing.T, llm *scriptedLLM) *env {
	t.Helper()
	log := logger.NewNop()
	search := &fakeSearch{}

	registry := service.NewToolRegistry()
	registry.MustRegister(tool.NewSearchTool(search, log))

	store := memory.NewRecommendationStore()
	uc := setup.New(
		prompts.NewSetupPromptBuilder("", nil),
		resolver.New(llm, registry, log, resolver.DefaultConfig()),
		store,
		log,
	)

	srv := httptest.NewServer(NewRouter(NewHandler(uc, log), RouterConfig{}))
	t.Cleanup(srv.Close)
	return &env{server: srv, llm: llm, search: search, store: store}
}

func (e *env) post(t *testing.T, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(e.server.URL+"/gerar-setup", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func text(s string) entity.Message {
	return entity.Message{Role: entity.RoleAssistant, Content: s}
}

func TestGenerateSetup_DirectAnswer(t *testing.T) {
	e := newEnv(t, &scriptedLLM{replies: []entity.Message{text("Processador: Ryzen 7 7700")}})

	status, body := e.post(t, `{"budget": 5000, "use": "Games", "userId": "u1"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "sucesso", body["status"])
	assert.Equal(t, "Processador: Ryzen 7 7700", body["setup_gerado"])
	assert.Equal(t, 1, e.llm.calls)

	records := e.store.List()
	require.Len(t, records, 1)
	assert.Equal(t, "u1", records[0].UserID)
	assert.Equal(t, "5000", records[0].Budget)
	assert.Equal(t, "Games", records[0].UseCase)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestGenerateSetup_WithSearchTool(t *testing.T) {
	llm := &scriptedLLM{replies: []entity.Message{
		{Role: entity.RoleAssistant, ToolCalls: []entity.ToolCall{{
			ID: "call_1", Name: entity.ToolWebSearch, Arguments: `{"query":"Ryzen 5 5600G preço"}`,
		}}},
		text("Valor Final Aproximado: R$1490"),
	}}
	e := newEnv(t, llm)

	status, body := e.post(t, `{"budget": "1500", "use": "Trabalho", "userId": "u2"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Valor Final Aproximado: R$1490", body["setup_gerado"])
	assert.Equal(t, 2, e.llm.calls)
	assert.Equal(t, []string{"Ryzen 5 5600G preço"}, e.search.queries)

	require.Len(t, e.llm.requests, 2)
	second := e.llm.requests[1].Messages
	toolMsg := second[len(second)-1]
	assert.Equal(t, entity.RoleTool, toolMsg.Role)
	assert.Equal(t, "call_1", toolMsg.ToolCallID)

	var snippets []entity.SearchResult
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &snippets))
	require.Len(t, snippets, 3)
	assert.Equal(t, "https://kabum.com.br/1", snippets[0].URL)
	assert.Equal(t, "https://terabyteshop.com.br/3", snippets[2].URL)
	assert.NotContains(t, toolMsg.Content, "example.com/4")
}

func TestGenerateSetup_MissingBudget(t *testing.T) {
	e := newEnv(t, &scriptedLLM{})

	status, body := e.post(t, `{"use": "Games", "userId": "u3"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Dados incompletos (budget, use, userId são obrigatórios).", body["error"])
	assert.Zero(t, e.llm.calls)
	assert.Empty(t, e.search.queries)
	assert.Empty(t, e.store.List())
}

func TestGenerateSetup_ZeroBudgetIsMissing(t *testing.T) {
	e := newEnv(t, &scriptedLLM{})

	for _, body := range []string{
		`{"budget": 0, "use": "Games", "userId": "u3"}`,
		`{"budget": 0.0, "use": "Games", "userId": "u3"}`,
	} {
		status, out := e.post(t, body)
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.Equal(t, "Dados incompletos (budget, use, userId são obrigatórios).", out["error"])
	}
	assert.Zero(t, e.llm.calls)
}

func TestGenerateSetup_GatewayFailure(t *testing.T) {
	e := newEnv(t, &scriptedLLM{err: errors.New("dial tcp 10.0.0.1:443: i/o timeout")})

	status, body := e.post(t, `{"budget": 3000, "use": "Edição", "userId": "u4"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	msg, _ := body["error"].(string)
	assert.Contains(t, msg, "i/o timeout")

	records := e.store.List()
	require.Len(t, records, 1)
	assert.Equal(t, msg, records[0].Result)
}

func TestGenerateSetup_InvalidJSON(t *testing.T) {
	e := newEnv(t, &scriptedLLM{})

	status, body := e.post(t, `{"budget": `)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
	assert.Zero(t, e.llm.calls)
}

func TestHealth(t *testing.T) {
	e := newEnv(t, &scriptedLLM{})

	resp, err := http.Get(e.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t, &scriptedLLM{replies: []entity.Message{text("ok")}})
	status, _ := e.post(t, `{"budget": 5000, "use": "Games", "userId": "u1"}`)
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(e.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestParseBudget(t *testing.T) {
	tests := map[string]string{
		`5000`:    "5000",
		`1500.50`: "1500.50",
		`"2500"`:  "2500",
		`" 800 "`: "800",
		`null`:    "",
		`""`:      "",
		`{"a":1}`: "",
		``:        "",
	}
	for raw, want := range tests {
		assert.Equal(t, want, parseBudget(json.RawMessage(raw)), raw)
	}
}
