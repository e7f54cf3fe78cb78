package output

import (
	"context"

	"pc-setup-agent/internal/domain/entity"
)

// ToolPort is a capability the model may invoke. Execute may return any
// value; non-string results are serialized before reaching the model.
type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, args entity.ToolArgs) (any, error)
}

type ToolRegistry interface {
	Register(tool ToolPort) error
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}
