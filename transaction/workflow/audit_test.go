package workflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/commonerrors/errortest"
	"github.com/txkit-go/txkit/logs"
	sizeUnits "github.com/txkit-go/txkit/units/size"
)

func TestAuditTrailRecord(t *testing.T) {
	defer goleak.VerifyNone(t)
	loggers, err := logs.NewStringLogger("audit")
	require.NoError(t, err)
	trail, err := NewAuditTrail(loggers)
	require.NoError(t, err)

	workflowID := faker.UUIDHyphenated()
	trail.Record(workflowID, StatusCompensated, "all side effects undone")

	content := loggers.GetLogContent()
	assert.Contains(t, content, workflowID)
	assert.Contains(t, content, string(StatusCompensated))
	assert.Contains(t, content, "all side effects undone")
	assert.NoError(t, trail.Close())
}

func TestAuditTrailNilReceiver(t *testing.T) {
	var trail *AuditTrail
	assert.NotPanics(t, func() { trail.Record(faker.UUIDHyphenated(), StatusStarted, "") })
	assert.NoError(t, trail.Close())
}

func TestRollingFileAuditTrail(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	trail, err := NewRollingFileAuditTrail(path)
	require.NoError(t, err)

	workflowID := faker.UUIDHyphenated()
	trail.Record(workflowID, StatusFailed, "payment bounced")
	require.NoError(t, trail.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), workflowID)
	assert.Contains(t, string(content), string(StatusFailed))
}

func TestAsyncRollingFileAuditTrail(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	trail, err := NewAsyncRollingFileAuditTrail(path, 1024)
	require.NoError(t, err)

	workflowID := faker.UUIDHyphenated()
	trail.Record(workflowID, StatusCompensating, "undoing charge-card")
	// Close drains the ring buffer into the journal file.
	require.NoError(t, trail.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), workflowID)
	assert.Contains(t, string(content), string(StatusCompensating))
}

func TestAuditTrailJournalOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	t.Run("defaults", func(t *testing.T) {
		writer, err := newRollingJournalWriter(path)
		require.NoError(t, err)
		assert.Equal(t, 100, writer.journal.MaxSize)
		assert.Equal(t, 28, writer.journal.MaxAge)
		assert.Equal(t, 5, writer.journal.MaxBackups)
	})

	t.Run("tuned", func(t *testing.T) {
		writer, err := newRollingJournalWriter(path,
			WithJournalMaxSize(256*sizeUnits.MiB),
			WithJournalMaxAge(7*24*time.Hour),
			WithJournalMaxBackups(2))
		require.NoError(t, err)
		assert.Equal(t, 256, writer.journal.MaxSize)
		assert.Equal(t, 7, writer.journal.MaxAge)
		assert.Equal(t, 2, writer.journal.MaxBackups)
	})

	t.Run("values below rotation grain are ignored", func(t *testing.T) {
		writer, err := newRollingJournalWriter(path,
			WithJournalMaxSize(512*sizeUnits.KiB),
			WithJournalMaxAge(time.Hour),
			WithJournalMaxBackups(-1),
			nil)
		require.NoError(t, err)
		assert.Equal(t, 100, writer.journal.MaxSize)
		assert.Equal(t, 28, writer.journal.MaxAge)
		assert.Equal(t, 5, writer.journal.MaxBackups)
	})
}

func TestAuditTrailValidation(t *testing.T) {
	_, err := NewAuditTrail(nil)
	errortest.RequireError(t, err, commonerrors.ErrUndefined)
	_, err = NewRollingFileAuditTrail("")
	errortest.RequireError(t, err, commonerrors.ErrUndefined)
	_, err = NewAsyncRollingFileAuditTrail("", 16)
	errortest.RequireError(t, err, commonerrors.ErrUndefined)
	_, err = NewFileHookAuditTrail("")
	errortest.RequireError(t, err, commonerrors.ErrUndefined)
}
