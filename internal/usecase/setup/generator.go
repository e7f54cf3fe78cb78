package setup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pc-setup-agent/internal/application/port/input"
	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/domain/entity"
	"pc-setup-agent/internal/infrastructure/metrics"
	"pc-setup-agent/internal/usecase/resolver"
)

var _ input.SetupGenerator = (*UseCase)(nil)

const (
	failurePrefix = "Ocorreu um erro ao gerar sua sugestão: "
	recordTimeout = 10 * time.Second
)

// GenerationError is returned when the model or a tool failed. Message is
// the text that was recorded and should be shown to the user.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string { return e.Message }
func (e *GenerationError) Unwrap() error { return e.Err }

type PromptBuilder interface {
	Build(req entity.SetupRequest) (string, error)
}

type Resolver interface {
	Resolve(ctx context.Context, conversation []entity.Message) (*resolver.Result, error)
}

type UseCase struct {
	prompts  PromptBuilder
	resolver Resolver
	store    output.RecommendationStore
	logger   output.LoggerPort
}

func New(
	prompts PromptBuilder,
	resolver Resolver,
	store output.RecommendationStore,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		prompts:  prompts,
		resolver: resolver,
		store:    store,
		logger:   logger.Named("setup"),
	}
}

func (uc *UseCase) Generate(ctx context.Context, req entity.SetupRequest) (*input.GenerateResult, error) {
	if err := req.Validate(); err != nil {
		metrics.Generations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	log := uc.logger.WithFields(map[string]any{
		"userId":  req.UserID,
		"budget":  req.Budget,
		"useCase": req.UseCase,
	})
	log.Info("Generating setup")
	start := time.Now()

	res, err := uc.run(ctx, req)
	if err != nil {
		metrics.Generations.WithLabelValues("failed").Inc()
		message := failurePrefix + err.Error()
		log.Error("Setup generation failed", "error", err, "elapsed", time.Since(start))
		uc.record(ctx, log, req, message)
		return nil, &GenerationError{Message: message, Err: err}
	}

	if res.Exhausted {
		log.Warn("Answer produced with unresolved tool calls", "error", res.Err())
	}

	metrics.Generations.WithLabelValues("success").Inc()
	log.Info("Setup generated",
		"modelCalls", res.ModelCalls,
		"toolCalls", res.ToolCalls,
		"elapsed", time.Since(start))
	uc.record(ctx, log, req, res.Text)

	return &input.GenerateResult{
		Setup:      res.Text,
		ModelCalls: res.ModelCalls,
		ToolCalls:  res.ToolCalls,
		Exhausted:  res.Exhausted,
	}, nil
}

func (uc *UseCase) run(ctx context.Context, req entity.SetupRequest) (*resolver.Result, error) {
	prompt, err := uc.prompts.Build(req)
	if err != nil {
		return nil, err
	}
	return uc.resolver.Resolve(ctx, []entity.Message{entity.NewUserMessage(prompt)})
}

// record is best effort: failures are logged and never reach the caller.
// It runs detached from ctx so a client disconnect does not drop the record.
func (uc *UseCase) record(ctx context.Context, log output.LoggerPort, req entity.SetupRequest, result string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error("Recommendation store panicked", "panic", fmt.Sprint(r))
		}
	}()

	saved, err := uc.store.Save(ctx, entity.Recommendation{
		UserID:  req.UserID,
		Budget:  req.Budget,
		UseCase: req.UseCase,
		Result:  result,
	})
	if err != nil {
		log.Warn("Failed to record recommendation", "error", err)
		return
	}
	log.Debug("Recommendation recorded", "id", saved.ID)
}

// IsGenerationError reports whether err came from a failed model or tool run.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
