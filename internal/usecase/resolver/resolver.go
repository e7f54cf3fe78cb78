package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/domain/entity"
	"pc-setup-agent/internal/infrastructure/metrics"
)

const (
	DefaultMaxToolRounds = 1
	DefaultModelTimeout  = 60 * time.Second
	DefaultToolTimeout   = 20 * time.Second

	toolNotFoundFormat = "Erro: Ferramenta '%s' não encontrada."
	// Model-chosen names never become metric label values.
	unknownToolLabel = "unknown"
)

type Config struct {
	// MaxToolRounds bounds how many times tool calls are resolved and the
	// model re-invoked. Tool calls still present after the last round are
	// not executed.
	MaxToolRounds int
	ModelTimeout  time.Duration
	ToolTimeout   time.Duration
	Temperature   float32
}

func DefaultConfig() Config {
	return Config{
		MaxToolRounds: DefaultMaxToolRounds,
		ModelTimeout:  DefaultModelTimeout,
		ToolTimeout:   DefaultToolTimeout,
	}
}

type Result struct {
	Text         string
	ModelCalls   int
	ToolCalls    int
	Rounds       int
	Exhausted    bool
	Conversation []entity.Message
}

// Err reports ErrToolRoundsExhausted when the last model response still
// requested tools.
func (r *Result) Err() error {
	if r.Exhausted {
		return fmt.Errorf("%w after %d round(s)", entity.ErrToolRoundsExhausted, r.Rounds)
	}
	return nil
}

type Resolver struct {
	llm    output.LLMPort
	tools  output.ToolRegistry
	logger output.LoggerPort
	cfg    Config
}

func New(llm output.LLMPort, tools output.ToolRegistry, logger output.LoggerPort, cfg Config) *Resolver {
	if cfg.MaxToolRounds < 0 {
		cfg.MaxToolRounds = 0
	}
	return &Resolver{
		llm:    llm,
		tools:  tools,
		logger: logger.Named("resolver"),
		cfg:    cfg,
	}
}

// Resolve drives the model until it answers without tool calls or the round
// bound is reached. The input conversation is not modified.
func (r *Resolver) Resolve(ctx context.Context, conversation []entity.Message) (*Result, error) {
	messages := make([]entity.Message, len(conversation), len(conversation)+4)
	copy(messages, conversation)

	toolDefs := r.tools.Definitions()
	result := &Result{}

	resp, err := r.invoke(ctx, messages, toolDefs)
	result.ModelCalls++
	if err != nil {
		return nil, err
	}
	messages = append(messages, resp.Message)

	for len(resp.Message.ToolCalls) > 0 && result.Rounds < r.cfg.MaxToolRounds {
		result.Rounds++
		r.logger.Info("Resolving tool calls", "round", result.Rounds, "count", len(resp.Message.ToolCalls))

		for _, tc := range resp.Message.ToolCalls {
			content, err := r.executeTool(ctx, tc)
			if err != nil {
				return nil, err
			}
			result.ToolCalls++
			messages = append(messages, entity.NewToolResultMessage(tc, content))
		}

		resp, err = r.invoke(ctx, messages, toolDefs)
		result.ModelCalls++
		if err != nil {
			return nil, err
		}
		messages = append(messages, resp.Message)
	}

	if len(resp.Message.ToolCalls) > 0 {
		result.Exhausted = true
		r.logger.Warn("Tool calls left unresolved",
			"rounds", result.Rounds,
			"maxRounds", r.cfg.MaxToolRounds,
			"pending", len(resp.Message.ToolCalls))
	}

	result.Text = MessageText(resp.Message)
	result.Conversation = messages
	return result, nil
}

func (r *Resolver) invoke(ctx context.Context, messages []entity.Message, toolDefs []entity.ToolDefinition) (*output.ChatResponse, error) {
	if r.cfg.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ModelTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := r.llm.Chat(ctx, output.ChatRequest{
		Messages:    messages,
		Tools:       toolDefs,
		Temperature: r.cfg.Temperature,
	})
	metrics.ModelDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ModelCalls.WithLabelValues("error").Inc()
		r.logger.Error("Model call failed", "error", err, "messages", len(messages))
		switch {
		case errors.Is(err, entity.ErrGateway),
			errors.Is(err, entity.ErrRateLimited),
			errors.Is(err, entity.ErrGatewayTimeout):
		case errors.Is(err, context.DeadlineExceeded):
			err = fmt.Errorf("%w: %w", entity.ErrGatewayTimeout, err)
		default:
			err = fmt.Errorf("%w: %w", entity.ErrGateway, err)
		}
		return nil, err
	}
	metrics.ModelCalls.WithLabelValues("ok").Inc()
	if resp.Message.Role == "" {
		resp.Message.Role = entity.RoleAssistant
	}
	return resp, nil
}

// executeTool returns the text handed back to the model. A missing tool is
// reported to the model, not to the caller.
func (r *Resolver) executeTool(ctx context.Context, tc entity.ToolCall) (string, error) {
	tool, ok := r.tools.Get(tc.Name)
	if !ok {
		metrics.ToolCalls.WithLabelValues(unknownToolLabel, "not_found").Inc()
		r.logger.Warn("Unknown tool called", "name", tc.Name, "id", tc.ID)
		return fmt.Sprintf(toolNotFoundFormat, tc.Name), nil
	}

	args, err := tc.Args()
	if err != nil {
		metrics.ToolCalls.WithLabelValues(tc.Name.String(), "error").Inc()
		return "", fmt.Errorf("%w: %s: %w", entity.ErrToolFailed, tc.Name, err)
	}

	if r.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ToolTimeout)
		defer cancel()
	}

	r.logger.Info("Executing tool", "name", tc.Name, "id", tc.ID, "args", tc.Arguments)
	start := time.Now()
	out, err := tool.Execute(ctx, args)
	metrics.ToolDuration.WithLabelValues(tc.Name.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ToolCalls.WithLabelValues(tc.Name.String(), "error").Inc()
		r.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "", fmt.Errorf("%w: %s: %w", entity.ErrToolFailed, tc.Name, err)
	}

	content, err := Stringify(out)
	if err != nil {
		metrics.ToolCalls.WithLabelValues(tc.Name.String(), "error").Inc()
		return "", fmt.Errorf("%w: %s: %w", entity.ErrToolFailed, tc.Name, err)
	}
	metrics.ToolCalls.WithLabelValues(tc.Name.String(), "ok").Inc()
	r.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(content))
	return content, nil
}

// Stringify renders a tool output as text. Map keys are sorted by
// encoding/json, so equal values always produce equal text.
func Stringify(v any) (string, error) {
	switch out := v.(type) {
	case nil:
		return "", nil
	case string:
		return out, nil
	case []byte:
		return string(out), nil
	case fmt.Stringer:
		return out.String(), nil
	case error:
		return out.Error(), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serialize tool output: %w", err)
	}
	return string(data), nil
}
