package workflow

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/commonerrors/errortest"
)

func TestJournalStoreDurability(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store, err := NewJournalStore(fs, "/journals")
	require.NoError(t, err)

	w := NewWorkflow(faker.UUIDHyphenated(), "checkout")
	require.NoError(t, store.CreateWorkflow(ctx, w))
	sequence, err := store.AppendOperation(ctx, testOperation(w.ID))
	require.NoError(t, err)
	require.NoError(t, store.UpdateOperationStatus(ctx, w.ID, sequence, OperationUndone))
	require.NoError(t, store.UpdateWorkflowStatus(ctx, w.ID, StatusUpdate{Status: StatusCompensated}))

	// A new store over the same directory replays the same state.
	reopened, err := NewJournalStore(fs, "/journals")
	require.NoError(t, err)
	got, err := reopened.GetWorkflow(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompensated, got.Status)
	operations, err := reopened.ListOperationsDescending(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, operations, 1)
	assert.Equal(t, OperationUndone, operations[0].Status)

	next, err := reopened.AppendOperation(ctx, testOperation(w.ID))
	require.NoError(t, err)
	assert.Equal(t, sequence+1, next, "sequences must continue where the journal left off")
}

func TestJournalStoreCorruption(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store, err := NewJournalStore(fs, "/journals")
	require.NoError(t, err)

	healthy := NewWorkflow(faker.UUIDHyphenated(), "checkout")
	require.NoError(t, store.CreateWorkflow(ctx, healthy))
	corrupt := NewWorkflow(faker.UUIDHyphenated(), "checkout")
	require.NoError(t, store.CreateWorkflow(ctx, corrupt))

	path := filepath.Join("/journals", corrupt.ID+journalExtension)
	content, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, path, append(content, []byte("{garbage\n")...), 0600))

	_, err = store.GetWorkflow(ctx, corrupt.ID)
	errortest.RequireError(t, err, commonerrors.ErrMarshalling)

	// A corrupt journal must not hide the healthy ones from scans.
	started, err := store.ListWorkflowsByStatus(ctx, StatusStarted, 0)
	require.NoError(t, err)
	require.Len(t, started, 1)
	assert.Equal(t, healthy.ID, started[0].ID)
}

func TestJournalStoreStaleSweep(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store, err := NewJournalStore(fs, "/journals")
	require.NoError(t, err)

	stale := time.Now().Add(-48 * time.Hour)
	cutoff := time.Now().Add(-24 * time.Hour)

	terminal := NewWorkflow(faker.UUIDHyphenated(), "checkout")
	require.NoError(t, store.CreateWorkflow(ctx, terminal))
	require.NoError(t, store.UpdateWorkflowStatus(ctx, terminal.ID, StatusUpdate{Status: StatusCommitted}))
	live := NewWorkflow(faker.UUIDHyphenated(), "checkout")
	require.NoError(t, store.CreateWorkflow(ctx, live))
	unreadable := faker.UUIDHyphenated()
	require.NoError(t, afero.WriteFile(fs, filepath.Join("/journals", unreadable+journalExtension), []byte("not json\n"), 0600))
	fresh := NewWorkflow(faker.UUIDHyphenated(), "checkout")
	require.NoError(t, store.CreateWorkflow(ctx, fresh))
	require.NoError(t, store.UpdateWorkflowStatus(ctx, fresh.ID, StatusUpdate{Status: StatusCommitted}))

	for _, id := range []string{terminal.ID, live.ID, unreadable} {
		require.NoError(t, fs.Chtimes(filepath.Join("/journals", id+journalExtension), stale, stale))
	}

	removed, err := store.DeleteStaleJournals(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = store.GetWorkflow(ctx, terminal.ID)
	errortest.RequireError(t, err, commonerrors.ErrNotFound)
	exists, err := afero.Exists(fs, filepath.Join("/journals", unreadable+journalExtension))
	require.NoError(t, err)
	assert.False(t, exists)

	// Old but live workflows stay, as does anything recently touched.
	_, err = store.GetWorkflow(ctx, live.ID)
	require.NoError(t, err)
	_, err = store.GetWorkflow(ctx, fresh.ID)
	require.NoError(t, err)
}

func TestJournalStoreValidation(t *testing.T) {
	_, err := NewJournalStore(nil, "/journals")
	errortest.RequireError(t, err, commonerrors.ErrUndefined)
	_, err = NewJournalStore(afero.NewMemMapFs(), "")
	errortest.RequireError(t, err, commonerrors.ErrUndefined)

	store, err := NewJournalStore(afero.NewMemMapFs(), "/journals")
	require.NoError(t, err)
	w := NewWorkflow("../escape", "checkout")
	errortest.RequireError(t, store.CreateWorkflow(context.Background(), w), commonerrors.ErrInvalid)
}
