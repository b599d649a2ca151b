package parallelisation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/commonerrors/errortest"
)

func TestExecutionGroupOrdering(t *testing.T) {
	defer goleak.VerifyNone(t)
	steps := []string{"reserve-inventory", "charge-card", "send-receipt"}

	t.Run("sequential follows registration order", func(t *testing.T) {
		var ran []string
		group := NewExecutionGroup[string](func(_ context.Context, step string) error {
			ran = append(ran, step)
			return nil
		}, Sequential)
		group.RegisterFunction(steps...)
		require.Equal(t, 3, group.Len())
		require.NoError(t, group.Execute(context.Background()))
		assert.Equal(t, steps, ran)
		assert.Equal(t, 3, group.Len())
	})

	t.Run("reverse runs newest first", func(t *testing.T) {
		var ran []string
		group := NewExecutionGroup[string](func(_ context.Context, step string) error {
			ran = append(ran, step)
			return nil
		}, SequentialInReverse)
		group.RegisterFunction(steps...)
		require.NoError(t, group.Execute(context.Background()))
		assert.Equal(t, []string{"send-receipt", "charge-card", "reserve-inventory"}, ran)
	})

	t.Run("parallel runs every element", func(t *testing.T) {
		count := atomic.NewInt32(0)
		group := NewExecutionGroup[string](func(_ context.Context, _ string) error {
			count.Inc()
			return nil
		})
		group.RegisterFunction(steps...)
		require.NoError(t, group.Execute(context.Background()))
		assert.Equal(t, int32(3), count.Load())
	})
}

func TestExecutionGroupErrorPolicy(t *testing.T) {
	defer goleak.VerifyNone(t)
	failures := map[string]error{
		"charge-card":  commonerrors.New(commonerrors.ErrUnexpected, "refund rejected by the payment provider"),
		"send-receipt": commonerrors.New(commonerrors.ErrCondition, "receipt retraction is not available"),
	}
	newGroup := func(ran *atomic.Int32, options ...StoreOption) *ExecutionGroup[string] {
		group := NewExecutionGroup[string](func(_ context.Context, step string) error {
			ran.Inc()
			return failures[step]
		}, options...)
		group.RegisterFunction("reserve-inventory", "charge-card", "send-receipt")
		return group
	}

	t.Run("stop on first error interrupts the run", func(t *testing.T) {
		ran := atomic.NewInt32(0)
		group := newGroup(ran, Sequential, StopOnFirstError)
		err := group.Execute(context.Background())
		errortest.AssertError(t, err, commonerrors.ErrUnexpected)
		assert.Equal(t, int32(2), ran.Load())
	})

	t.Run("execute all returns the first failure", func(t *testing.T) {
		ran := atomic.NewInt32(0)
		group := newGroup(ran, Sequential, ExecuteAll)
		err := group.Execute(context.Background())
		errortest.AssertError(t, err, commonerrors.ErrUnexpected)
		assert.False(t, commonerrors.Any(err, commonerrors.ErrCondition))
		assert.Equal(t, int32(3), ran.Load())
	})

	t.Run("join errors reports every failure", func(t *testing.T) {
		ran := atomic.NewInt32(0)
		group := newGroup(ran, Sequential, JoinErrors)
		err := group.Execute(context.Background())
		errortest.AssertError(t, err, commonerrors.ErrUnexpected)
		errortest.AssertError(t, err, commonerrors.ErrCondition)
		assert.Equal(t, int32(3), ran.Load())
	})

	t.Run("join errors with clean elements reports nothing", func(t *testing.T) {
		ran := atomic.NewInt32(0)
		group := NewExecutionGroup[string](func(_ context.Context, _ string) error {
			ran.Inc()
			return nil
		}, Sequential, JoinErrors)
		group.RegisterFunction("reserve-inventory", "charge-card")
		assert.NoError(t, group.Execute(context.Background()))
		assert.Equal(t, int32(2), ran.Load())
	})
}

func TestExecutionGroupOnlyOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("elements run at most once", func(t *testing.T) {
		count := atomic.NewInt32(0)
		group := NewExecutionGroup[string](func(_ context.Context, _ string) error {
			count.Inc()
			return nil
		}, Sequential, OnlyOnce)
		group.RegisterFunction("reserve-inventory", "charge-card")
		require.NoError(t, group.Execute(context.Background()))
		require.NoError(t, group.Execute(context.Background()))
		assert.Equal(t, int32(2), count.Load())
		assert.Equal(t, 2, group.Len())
	})

	t.Run("a failed element does not rerun", func(t *testing.T) {
		count := atomic.NewInt32(0)
		group := NewExecutionGroup[string](func(_ context.Context, _ string) error {
			count.Inc()
			return commonerrors.New(commonerrors.ErrUnexpected, "compensation handler crashed")
		}, Sequential, OnlyOnce)
		group.RegisterFunction("charge-card")
		errortest.AssertError(t, group.Execute(context.Background()), commonerrors.ErrUnexpected)
		require.NoError(t, group.Execute(context.Background()))
		assert.Equal(t, int32(1), count.Load())
	})

	t.Run("late registrations still run", func(t *testing.T) {
		count := atomic.NewInt32(0)
		group := NewExecutionGroup[string](func(_ context.Context, _ string) error {
			count.Inc()
			return nil
		}, Sequential, OnlyOnce)
		group.RegisterFunction("reserve-inventory")
		require.NoError(t, group.Execute(context.Background()))
		group.RegisterFunction("charge-card")
		require.NoError(t, group.Execute(context.Background()))
		assert.Equal(t, int32(2), count.Load())
	})
}

func TestExecutionGroupClearAfterExecution(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("a clean run empties the group", func(t *testing.T) {
		count := atomic.NewInt32(0)
		group := NewExecutionGroup[string](func(_ context.Context, _ string) error {
			count.Inc()
			return nil
		}, Sequential, ClearAfterExecution)
		group.RegisterFunction("reserve-inventory", "charge-card")
		require.NoError(t, group.Execute(context.Background()))
		assert.Zero(t, group.Len())
		require.NoError(t, group.Execute(context.Background()))
		assert.Equal(t, int32(2), count.Load())
	})

	t.Run("a failed run keeps the elements", func(t *testing.T) {
		group := NewExecutionGroup[string](func(_ context.Context, _ string) error {
			return commonerrors.New(commonerrors.ErrUnexpected, "still failing")
		}, Sequential, ClearAfterExecution)
		group.RegisterFunction("reserve-inventory", "charge-card")
		errortest.AssertError(t, group.Execute(context.Background()), commonerrors.ErrUnexpected)
		assert.Equal(t, 2, group.Len())
	})
}

func TestExecutionGroupCancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	for _, mode := range []struct {
		name   string
		option StoreOption
	}{
		{"sequential", Sequential},
		{"parallel", Parallel},
	} {
		t.Run(mode.name, func(t *testing.T) {
			count := atomic.NewInt32(0)
			group := NewExecutionGroup[string](func(_ context.Context, _ string) error {
				count.Inc()
				return nil
			}, mode.option)
			group.RegisterFunction("reserve-inventory", "charge-card")
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			errortest.AssertError(t, group.Execute(ctx), commonerrors.ErrCancelled)
			assert.Zero(t, count.Load())
		})
	}
}

func TestExecutionGroupZeroValue(t *testing.T) {
	defer goleak.VerifyNone(t)
	var group ExecutionGroup[string]
	group.RegisterFunction("reserve-inventory")
	assert.Equal(t, 1, group.Len())
	errortest.AssertError(t, group.Execute(context.Background()), commonerrors.ErrUndefined)
}
