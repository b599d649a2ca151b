package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/commonerrors/errortest"
	"github.com/txkit-go/txkit/logs/logstest"
	"github.com/txkit-go/txkit/transaction"
)

func TestEventPublishingValidator(t *testing.T) {
	logger := logstest.NewTestLogger(t)
	registry := NewHandlerRegistry()
	require.NoError(t, registry.Subscribe("billing-worker", "invoice.*"))
	validator, err := NewEventPublishingValidator(logger, registry)
	require.NoError(t, err)

	t.Run("accepts a consumed event", func(t *testing.T) {
		event, err := NewEventMessage("invoice.issued", nil)
		require.NoError(t, err)
		result, err := validator.Validate(context.Background(), event)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Empty(t, result.ErrorDetail)
	})

	t.Run("rejects an event without handlers", func(t *testing.T) {
		event, err := NewEventMessage("user.created", nil)
		require.NoError(t, err)
		result, err := validator.Validate(context.Background(), event)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.ErrorDetail, "user.created")
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := validator.Validate(context.Background(), nil)
		errortest.RequireError(t, err, commonerrors.ErrUndefined)
	})

	t.Run("handler source failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		source := NewMockIHandlerSource(ctrl)
		source.EXPECT().HasHandlers(gomock.Any(), "invoice.issued").Return(false, commonerrors.New(commonerrors.ErrUnavailable, "catalogue down"))
		validator, err := NewEventPublishingValidator(logger, source)
		require.NoError(t, err)
		event, err := NewEventMessage("invoice.issued", nil)
		require.NoError(t, err)
		_, err = validator.Validate(context.Background(), event)
		errortest.RequireError(t, err, commonerrors.ErrUnavailable)
	})

	t.Run("missing handler source", func(t *testing.T) {
		_, err := NewEventPublishingValidator(logger, nil)
		errortest.RequireError(t, err, commonerrors.ErrUndefined)
	})
}

func TestValidationAdapter(t *testing.T) {
	logger := logstest.NewTestLogger(t)
	registry := NewHandlerRegistry()
	require.NoError(t, registry.Subscribe("billing-worker", "invoice.*"))
	validator, err := NewEventPublishingValidator(logger, registry)
	require.NoError(t, err)
	adapter, err := NewValidationAdapter(validator, 0)
	require.NoError(t, err)

	assert.Equal(t, "event-validation", adapter.Name())
	assert.True(t, adapter.IsCritical())
	assert.Equal(t, []transaction.Phase{transaction.PhasePreCommitValidation}, adapter.Phases())

	t.Run("all staged events consumed", func(t *testing.T) {
		scope := transaction.NewWorkflowScope("wf-1", 1)
		issued, err := NewEventMessage("invoice.issued", nil)
		require.NoError(t, err)
		require.NoError(t, StageEvents(scope, issued))
		assert.NoError(t, adapter.Execute(context.Background(), transaction.PhasePreCommitValidation, scope))
	})

	t.Run("one orphan event aborts", func(t *testing.T) {
		scope := transaction.NewWorkflowScope("wf-2", 1)
		issued, err := NewEventMessage("invoice.issued", nil)
		require.NoError(t, err)
		orphan, err := NewEventMessage("user.created", nil)
		require.NoError(t, err)
		require.NoError(t, StageEvents(scope, issued, orphan))
		err = adapter.Execute(context.Background(), transaction.PhasePreCommitValidation, scope)
		errortest.RequireError(t, err, commonerrors.ErrEventValidation)
		errortest.AssertError(t, err, commonerrors.ErrNoHandlers)
		errortest.AssertErrorDescription(t, err, "user.created")
	})

	t.Run("nothing staged", func(t *testing.T) {
		scope := transaction.NewWorkflowScope("wf-3", 1)
		assert.NoError(t, adapter.Execute(context.Background(), transaction.PhasePreCommitValidation, scope))
	})

	t.Run("missing validator", func(t *testing.T) {
		_, err := NewValidationAdapter(nil, 0)
		errortest.RequireError(t, err, commonerrors.ErrUndefined)
	})
}
