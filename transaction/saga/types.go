package saga

import (
	"context"
	"strings"

	"github.com/txkit-go/txkit/commonerrors"
)

type funcStep struct {
	name       string
	execute    ExecuteFunc
	compensate CompensateFunc
}

func (s *funcStep) Name() string {
	return s.name
}

func (s *funcStep) Execute(ctx context.Context) (any, error) {
	return s.execute(ctx)
}

func (s *funcStep) Compensate(ctx context.Context, result any) error {
	if s.compensate == nil {
		return nil
	}
	return s.compensate(ctx, result)
}

// NewStep returns a step built from bare functions. A nil compensate means the step has
// nothing to undo.
func NewStep(name string, execute ExecuteFunc, compensate CompensateFunc) (ISagaStep, error) {
	if strings.TrimSpace(name) == "" {
		return nil, commonerrors.New(commonerrors.ErrInvalid, "saga steps must be named")
	}
	if execute == nil {
		return nil, commonerrors.UndefinedVariable("step execution")
	}
	return &funcStep{
		name:       name,
		execute:    execute,
		compensate: compensate,
	}, nil
}
