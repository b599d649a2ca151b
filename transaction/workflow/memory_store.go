package workflow

import (
	"context"
	"sort"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sasha-s/go-deadlock"
	"github.com/tidwall/btree"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
)

var _ IStore = (*MemoryStore)(nil)

// MemoryStore keeps workflows and their journals in process memory. It is the default
// backend for tests and for embedders which only need undo within the lifetime of the
// process. Records are held in a lock free map with one mutex per workflow so unrelated
// workflows never contend.
type MemoryStore struct {
	workflows *xsync.MapOf[string, *workflowRecord]
}

type workflowRecord struct {
	mu           deadlock.Mutex
	workflow     *Workflow
	lastSequence uint64
	operations   *btree.BTreeG[*Operation]
}

func newWorkflowRecord(w *Workflow) *workflowRecord {
	return &workflowRecord{
		workflow: w.Clone(),
		operations: btree.NewBTreeG[*Operation](func(a, b *Operation) bool {
			return a.Sequence < b.Sequence
		}),
	}
}

// NewMemoryStore returns an empty in-memory workflow store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{workflows: xsync.NewMapOf[string, *workflowRecord]()}
}

func (s *MemoryStore) CreateWorkflow(ctx context.Context, w *Workflow) error {
	err := w.Validate()
	if err != nil {
		return err
	}
	err = checkWorkflowArguments(ctx, w.ID)
	if err != nil {
		return err
	}
	_, loaded := s.workflows.LoadOrStore(w.ID, newWorkflowRecord(w))
	if loaded {
		return commonerrors.Newf(commonerrors.ErrExists, "workflow [%v] already exists", w.ID)
	}
	return nil
}

func (s *MemoryStore) UpdateWorkflowStatus(ctx context.Context, workflowID string, update StatusUpdate) error {
	err := update.Validate()
	if err != nil {
		return err
	}
	record, err := s.load(ctx, workflowID)
	if err != nil {
		return err
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	applyStatusUpdate(record.workflow, update)
	return nil
}

func applyStatusUpdate(w *Workflow, update StatusUpdate) {
	w.Status = update.Status
	if update.CompletedAt != nil {
		completedAt := *update.CompletedAt
		w.CompletedAt = &completedAt
	}
	if update.FailedAtStepIndex != nil {
		index := *update.FailedAtStepIndex
		w.FailedAtStepIndex = &index
	}
	if update.ErrorMessage != "" {
		w.ErrorMessage = update.ErrorMessage
	}
}

func (s *MemoryStore) GetWorkflow(ctx context.Context, workflowID string) (*Workflow, error) {
	record, err := s.load(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	return record.workflow.Clone(), nil
}

func (s *MemoryStore) AppendOperation(ctx context.Context, op *Operation) (uint64, error) {
	err := op.Validate()
	if err != nil {
		return 0, err
	}
	record, err := s.load(ctx, op.WorkflowID)
	if err != nil {
		return 0, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	record.lastSequence++
	stored := op.Clone()
	stored.Sequence = record.lastSequence
	record.operations.Set(stored)
	return stored.Sequence, nil
}

func (s *MemoryStore) UpdateOperationStatus(ctx context.Context, workflowID string, sequence uint64, status OperationStatus) error {
	err := checkOperationStatus(status)
	if err != nil {
		return err
	}
	record, err := s.load(ctx, workflowID)
	if err != nil {
		return err
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	op, found := record.operations.Get(&Operation{Sequence: sequence})
	if !found {
		return commonerrors.Newf(commonerrors.ErrNotFound, "workflow [%v] has no operation [%v]", workflowID, sequence)
	}
	op.Status = status
	return nil
}

func (s *MemoryStore) ListOperationsDescending(ctx context.Context, workflowID string) ([]*Operation, error) {
	record, err := s.load(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	operations := make([]*Operation, 0, record.operations.Len())
	record.operations.Reverse(func(op *Operation) bool {
		operations = append(operations, op.Clone())
		return true
	})
	return operations, nil
}

func (s *MemoryStore) ListWorkflowsByStatus(ctx context.Context, status Status, limit int) ([]*Workflow, error) {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return nil, err
	}
	workflows := make([]*Workflow, 0)
	s.workflows.Range(func(_ string, record *workflowRecord) bool {
		record.mu.Lock()
		if record.workflow.Status == status {
			workflows = append(workflows, record.workflow.Clone())
		}
		record.mu.Unlock()
		return true
	})
	sort.Slice(workflows, func(i, j int) bool {
		if workflows[i].CreatedAt.Equal(workflows[j].CreatedAt) {
			return workflows[i].ID < workflows[j].ID
		}
		return workflows[i].CreatedAt.Before(workflows[j].CreatedAt)
	})
	if limit > 0 && len(workflows) > limit {
		workflows = workflows[:limit]
	}
	return workflows, nil
}

func (s *MemoryStore) DeleteCommittedBefore(ctx context.Context, cutoff time.Time) (removed int64, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	s.workflows.Range(func(id string, record *workflowRecord) bool {
		record.mu.Lock()
		eligible := record.workflow.Status == StatusCommitted && workflowReferenceTime(record.workflow).Before(cutoff)
		record.mu.Unlock()
		if eligible {
			s.workflows.Delete(id)
			removed++
		}
		return true
	})
	return
}

// workflowReferenceTime is what retention compares against the cutoff. Committed
// workflows normally carry a completion time; creation time covers records which do not.
func workflowReferenceTime(w *Workflow) time.Time {
	if w.CompletedAt != nil {
		return *w.CompletedAt
	}
	return w.CreatedAt
}

func (s *MemoryStore) load(ctx context.Context, workflowID string) (*workflowRecord, error) {
	err := checkWorkflowArguments(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	record, found := s.workflows.Load(workflowID)
	if !found {
		return nil, commonerrors.Newf(commonerrors.ErrNotFound, "workflow [%v] is unknown", workflowID)
	}
	return record, nil
}
