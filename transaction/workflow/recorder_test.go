package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/commonerrors/errortest"
	"github.com/txkit-go/txkit/logs/logstest"
)

func TestRecorderDrainsToStore(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	store := NewMemoryStore()
	w := NewWorkflow(faker.UUIDHyphenated(), "checkout")
	require.NoError(t, store.CreateWorkflow(ctx, w))

	recorder, err := NewRecorder(logstest.NewTestLogger(t), store, 16, time.Millisecond)
	require.NoError(t, err)
	defer func() { require.NoError(t, recorder.Close()) }()

	resources := []string{"orders", "stock", "payments"}
	for _, resource := range resources {
		op := &Operation{
			WorkflowID:   w.ID,
			Kind:         KindUpdate,
			ResourceKind: resource,
			ResourceID:   faker.UUIDHyphenated(),
			UndoData:     []byte(`{"qty": 1}`),
			Status:       OperationPending,
			RecordedAt:   time.Now().UTC(),
		}
		require.NoError(t, recorder.Record(ctx, op))
	}

	assert.Eventually(t, func() bool {
		operations, listErr := store.ListOperationsDescending(ctx, w.ID)
		return listErr == nil && len(operations) == 3
	}, 2*time.Second, 10*time.Millisecond)

	operations, err := store.ListOperationsDescending(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, operations, 3)
	// The diode drains in write order, so descending reads mirror the recording order.
	for i, op := range operations {
		assert.Equal(t, uint64(3-i), op.Sequence)
		assert.Equal(t, resources[2-i], op.ResourceKind)
		assert.NotEmpty(t, op.Checksum, "the recorder must stamp missing checksums")
		assert.NoError(t, op.VerifyIntegrity())
	}
}

func TestRecorderInRunList(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	store := NewMemoryStore()
	w := NewWorkflow(faker.UUIDHyphenated(), "checkout")
	other := NewWorkflow(faker.UUIDHyphenated(), "checkout")
	require.NoError(t, store.CreateWorkflow(ctx, w))
	require.NoError(t, store.CreateWorkflow(ctx, other))

	recorder, err := NewRecorder(logstest.NewTestLogger(t), store, 16, time.Millisecond)
	require.NoError(t, err)
	defer func() { require.NoError(t, recorder.Close()) }()

	for i := 0; i < 3; i++ {
		require.NoError(t, recorder.Record(ctx, testOperation(w.ID)))
	}
	require.NoError(t, recorder.Record(ctx, testOperation(other.ID)))

	// The synchronous list is available immediately, no matter how far the drain got.
	inRun := recorder.InRunOperationsDescending(w.ID)
	require.Len(t, inRun, 3)
	for i, op := range inRun {
		assert.Equal(t, uint64(3-i), op.Sequence)
	}
	require.Len(t, recorder.InRunOperationsDescending(other.ID), 1)

	recorder.ClearRun(w.ID)
	assert.Empty(t, recorder.InRunOperationsDescending(w.ID))
	assert.Len(t, recorder.InRunOperationsDescending(other.ID), 1)
}

func TestRecorderSwallowsStoreFailures(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	drained := make(chan struct{})
	backend := NewMockIStore(ctrl)
	backend.EXPECT().AppendOperation(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, *Operation) (uint64, error) {
		close(drained)
		return 0, commonerrors.New(commonerrors.ErrUnavailable, "store offline")
	})

	recorder, err := NewRecorder(logstest.NewTestLogger(t), backend, 16, time.Millisecond)
	require.NoError(t, err)
	defer func() { require.NoError(t, recorder.Close()) }()

	// A store outage must never surface to the transaction hot path.
	require.NoError(t, recorder.Record(ctx, testOperation(faker.UUIDHyphenated())))
	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		t.Fatal("the diode never drained")
	}
}

func TestRecorderCloseFlushes(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	store := NewMemoryStore()
	w := NewWorkflow(faker.UUIDHyphenated(), "checkout")
	require.NoError(t, store.CreateWorkflow(ctx, w))

	recorder, err := NewRecorder(logstest.NewTestLogger(t), store, 16, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, recorder.Record(ctx, testOperation(w.ID)))

	require.NoError(t, recorder.Close())
	operations, err := store.ListOperationsDescending(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, operations, 1, "closing must flush the ring buffer")

	require.NoError(t, recorder.Close(), "closing twice is a no-op")
	errortest.RequireError(t, recorder.Record(ctx, testOperation(w.ID)), commonerrors.ErrConflict)
}

func TestRecorderValidation(t *testing.T) {
	defer goleak.VerifyNone(t)
	_, err := NewRecorder(logstest.NewTestLogger(t), nil, 0, 0)
	errortest.RequireError(t, err, commonerrors.ErrUndefined)

	recorder, err := NewRecorder(logstest.NewTestLogger(t), NewMemoryStore(), 0, 0)
	require.NoError(t, err)
	defer func() { require.NoError(t, recorder.Close()) }()

	errortest.RequireError(t, recorder.Record(context.Background(), &Operation{WorkflowID: faker.UUIDHyphenated()}), commonerrors.ErrInvalid)

	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()
	errortest.RequireError(t, recorder.Record(cancelledCtx, testOperation(faker.UUIDHyphenated())), commonerrors.ErrCancelled)
}
