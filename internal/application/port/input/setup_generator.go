package input

import (
	"context"

	"pc-setup-agent/internal/domain/entity"
)

type GenerateResult struct {
	Setup      string
	ModelCalls int
	ToolCalls  int
	Exhausted  bool
}

type SetupGenerator interface {
	Generate(ctx context.Context, req entity.SetupRequest) (*GenerateResult, error)
}
