// Package saga composes independently committed transactions into one logical workflow
// following the [saga pattern]: every step runs through its own coordinator lifecycle
// scoped to the saga's identifier, and the first failing step compensates the completed
// ones in reverse order instead of relying on a global ACID transaction. Compensating
// actions must be idempotent so an interrupted or repeated sweep converges, as laid out
// in the [compensating transaction pattern].
//
// [saga pattern]: https://microservices.io/patterns/data/saga.html
// [compensating transaction pattern]: https://learn.microsoft.com/en-us/azure/architecture/patterns/compensating-transaction
package saga

//go:generate go tool mockgen -destination=./mocks/mock_$GOPACKAGE.go -package=mocks github.com/txkit-go/txkit/transaction/$GOPACKAGE ISagaStep
//go:generate go tool mockgen -destination=./mock_test.go -package=saga github.com/txkit-go/txkit/transaction/$GOPACKAGE ISagaStep

import (
	"context"
)

// ExecuteFunc is the forward action of a saga step. The value it returns is recorded
// and handed back to the step's compensation when the saga unwinds.
type ExecuteFunc func(ctx context.Context) (any, error)

// CompensateFunc undoes a completed step, receiving the result its execution returned.
// Compensations must tolerate being called for work that partially happened.
type CompensateFunc func(ctx context.Context, result any) error

// ISagaStep describes a named step with its forward and compensating actions, for steps
// built once and driven through several sagas.
type ISagaStep interface {
	// Name identifies the step in the saga context and logs.
	Name() string
	// Execute performs the forward action.
	Execute(ctx context.Context) (any, error)
	// Compensate undoes the forward action given the result it returned.
	Compensate(ctx context.Context, result any) error
}
