package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the pure Go sqlite driver

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/reflection"
)

// sqliteTimeLayout is RFC3339 with a fixed width fraction so that the lexicographic
// order of stored timestamps matches their chronological order. RFC3339Nano trims
// trailing zeros and would break the string comparisons retention relies on.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS workflows (
	id                   TEXT PRIMARY KEY,
	name                 TEXT NOT NULL DEFAULT '',
	status               TEXT NOT NULL,
	created_at           TEXT NOT NULL,
	completed_at         TEXT,
	failed_at_step_index INTEGER,
	error_message        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_workflows_status ON workflows (status);
CREATE INDEX IF NOT EXISTS idx_workflows_created_at ON workflows (created_at);
CREATE TABLE IF NOT EXISTS operations (
	workflow_id   TEXT NOT NULL REFERENCES workflows (id) ON DELETE CASCADE,
	sequence      INTEGER NOT NULL,
	kind          TEXT NOT NULL,
	resource_kind TEXT NOT NULL,
	resource_id   TEXT NOT NULL DEFAULT '',
	forward_data  BLOB,
	undo_data     BLOB,
	checksum      TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	recorded_at   TEXT NOT NULL,
	PRIMARY KEY (workflow_id, sequence)
);
`

var _ IStore = (*SQLiteStore)(nil)

// SQLiteStore persists workflows in an embedded SQLite database (modernc.org/sqlite,
// pure Go). The pool is capped at one connection which serialises writers and keeps the
// per-workflow sequence assignment race free.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens, and if needed initialises, the workflow database at path.
// Callers own the returned store and must Close it.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if reflection.IsEmpty(path) {
		return nil, commonerrors.UndefinedVariable("database path")
	}
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%v?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, sqliteError(err, "could not open the workflow database")
	}
	db.SetMaxOpenConns(1)
	_, err = db.ExecContext(ctx, sqliteSchema)
	if err != nil {
		_ = db.Close()
		return nil, sqliteError(err, "could not initialise the workflow schema")
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle. The store must not be used afterwards.
func (s *SQLiteStore) Close() error {
	return commonerrors.ConvertContextError(s.db.Close())
}

func (s *SQLiteStore) CreateWorkflow(ctx context.Context, w *Workflow) error {
	err := w.Validate()
	if err != nil {
		return err
	}
	err = checkWorkflowArguments(ctx, w.ID)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO workflows (id, name, status, created_at, completed_at, failed_at_step_index, error_message) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, string(w.Status), formatSQLiteTime(w.CreatedAt), formatOptionalSQLiteTime(w.CompletedAt), optionalInt(w.FailedAtStepIndex), w.ErrorMessage)
	if err != nil {
		return sqliteError(err, "could not record the workflow")
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return sqliteError(err, "could not record the workflow")
	}
	if inserted == 0 {
		return commonerrors.Newf(commonerrors.ErrExists, "workflow [%v] already exists", w.ID)
	}
	return nil
}

func (s *SQLiteStore) UpdateWorkflowStatus(ctx context.Context, workflowID string, update StatusUpdate) error {
	err := update.Validate()
	if err != nil {
		return err
	}
	err = checkWorkflowArguments(ctx, workflowID)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE workflows SET
			status = ?,
			completed_at = COALESCE(?, completed_at),
			failed_at_step_index = COALESCE(?, failed_at_step_index),
			error_message = CASE WHEN ? = '' THEN error_message ELSE ? END
		WHERE id = ?`,
		string(update.Status), formatOptionalSQLiteTime(update.CompletedAt), optionalInt(update.FailedAtStepIndex), update.ErrorMessage, update.ErrorMessage, workflowID)
	if err != nil {
		return sqliteError(err, "could not update the workflow status")
	}
	return checkAffected(result, workflowID)
}

func (s *SQLiteStore) GetWorkflow(ctx context.Context, workflowID string) (*Workflow, error) {
	err := checkWorkflowArguments(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, status, created_at, completed_at, failed_at_step_index, error_message FROM workflows WHERE id = ?`, workflowID)
	w, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, commonerrors.Newf(commonerrors.ErrNotFound, "workflow [%v] is unknown", workflowID)
	}
	if err != nil {
		return nil, sqliteError(err, "could not read the workflow")
	}
	return w, nil
}

func (s *SQLiteStore) AppendOperation(ctx context.Context, op *Operation) (uint64, error) {
	err := op.Validate()
	if err != nil {
		return 0, err
	}
	err = checkWorkflowArguments(ctx, op.WorkflowID)
	if err != nil {
		return 0, err
	}
	// A single statement assigns the next gapless sequence and proves the workflow
	// exists at the same time: no rows come back when it does not.
	var sequence uint64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO operations (workflow_id, sequence, kind, resource_kind, resource_id, forward_data, undo_data, checksum, status, recorded_at)
		SELECT w.id, (SELECT COALESCE(MAX(o.sequence), 0) + 1 FROM operations o WHERE o.workflow_id = w.id), ?, ?, ?, ?, ?, ?, ?, ?
		FROM workflows w WHERE w.id = ?
		RETURNING sequence`,
		string(op.Kind), op.ResourceKind, op.ResourceID, op.ForwardData, op.UndoData, op.Checksum, string(op.Status), formatSQLiteTime(op.RecordedAt), op.WorkflowID).Scan(&sequence)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, commonerrors.Newf(commonerrors.ErrNotFound, "workflow [%v] is unknown", op.WorkflowID)
	}
	if err != nil {
		return 0, sqliteError(err, "could not journal the operation")
	}
	return sequence, nil
}

func (s *SQLiteStore) UpdateOperationStatus(ctx context.Context, workflowID string, sequence uint64, status OperationStatus) error {
	err := checkOperationStatus(status)
	if err != nil {
		return err
	}
	err = checkWorkflowArguments(ctx, workflowID)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE operations SET status = ? WHERE workflow_id = ? AND sequence = ?`,
		string(status), workflowID, sequence)
	if err != nil {
		return sqliteError(err, "could not update the operation status")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sqliteError(err, "could not update the operation status")
	}
	if affected == 0 {
		return commonerrors.Newf(commonerrors.ErrNotFound, "workflow [%v] has no operation [%v]", workflowID, sequence)
	}
	return nil
}

func (s *SQLiteStore) ListOperationsDescending(ctx context.Context, workflowID string) ([]*Operation, error) {
	_, err := s.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT workflow_id, sequence, kind, resource_kind, resource_id, forward_data, undo_data, checksum, status, recorded_at
		FROM operations WHERE workflow_id = ? ORDER BY sequence DESC`, workflowID)
	if err != nil {
		return nil, sqliteError(err, "could not read the operation journal")
	}
	defer func() { _ = rows.Close() }()
	operations := make([]*Operation, 0)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, sqliteError(err, "could not read the operation journal")
		}
		operations = append(operations, op)
	}
	if err = rows.Err(); err != nil {
		return nil, sqliteError(err, "could not read the operation journal")
	}
	return operations, nil
}

func (s *SQLiteStore) ListWorkflowsByStatus(ctx context.Context, status Status, limit int) ([]*Workflow, error) {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		// SQLite reads a negative limit as no limit.
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, status, created_at, completed_at, failed_at_step_index, error_message
		FROM workflows WHERE status = ? ORDER BY created_at ASC, id ASC LIMIT ?`, string(status), limit)
	if err != nil {
		return nil, sqliteError(err, "could not list workflows")
	}
	defer func() { _ = rows.Close() }()
	workflows := make([]*Workflow, 0)
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			return nil, sqliteError(err, "could not list workflows")
		}
		workflows = append(workflows, w)
	}
	if err = rows.Err(); err != nil {
		return nil, sqliteError(err, "could not list workflows")
	}
	return workflows, nil
}

func (s *SQLiteStore) DeleteCommittedBefore(ctx context.Context, cutoff time.Time) (removed int64, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	// The fixed width layout makes the string comparison chronological. Cascading
	// removes the journals with their workflows.
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM workflows WHERE status = ? AND COALESCE(completed_at, created_at) < ?`,
		string(StatusCommitted), formatSQLiteTime(cutoff))
	if err != nil {
		err = sqliteError(err, "could not prune committed workflows")
		return
	}
	removed, err = result.RowsAffected()
	if err != nil {
		err = sqliteError(err, "could not prune committed workflows")
	}
	return
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*Workflow, error) {
	var (
		w           Workflow
		status      string
		createdAt   string
		completedAt sql.NullString
		stepIndex   sql.NullInt64
	)
	err := row.Scan(&w.ID, &w.Name, &status, &createdAt, &completedAt, &stepIndex, &w.ErrorMessage)
	if err != nil {
		return nil, err
	}
	w.Status = Status(status)
	w.CreatedAt, err = parseSQLiteTime(createdAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		at, err := parseSQLiteTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		w.CompletedAt = &at
	}
	if stepIndex.Valid {
		index := int(stepIndex.Int64)
		w.FailedAtStepIndex = &index
	}
	return &w, nil
}

func scanOperation(row rowScanner) (*Operation, error) {
	var (
		op         Operation
		kind       string
		status     string
		recordedAt string
	)
	err := row.Scan(&op.WorkflowID, &op.Sequence, &kind, &op.ResourceKind, &op.ResourceID, &op.ForwardData, &op.UndoData, &op.Checksum, &status, &recordedAt)
	if err != nil {
		return nil, err
	}
	op.Kind = OperationKind(kind)
	op.Status = OperationStatus(status)
	op.RecordedAt, err = parseSQLiteTime(recordedAt)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func formatOptionalSQLiteTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatSQLiteTime(*t)
}

func optionalInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func parseSQLiteTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not decode a stored timestamp")
	}
	return t, nil
}

func sqliteError(err error, description string) error {
	return commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, commonerrors.ConvertContextError(err), description)
}
