package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/mitchellh/go-homedir"
	"github.com/sasha-s/go-deadlock"
	"github.com/spf13/afero"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/safeio"
)

const journalExtension = ".jsonl"

// Journal entry kinds. A journal file is the ordered history of one workflow and its
// current state is rebuilt by replaying the entries in file order.
const (
	entryWorkflowCreated = "WORKFLOW_CREATED"
	entryStatusUpdated   = "STATUS_UPDATED"
	entryOperationLogged = "OPERATION_LOGGED"
	entryOperationStatus = "OPERATION_STATUS"
)

type journalEntry struct {
	Entry     string          `json:"entry"`
	Workflow  *Workflow       `json:"workflow,omitempty"`
	Update    *StatusUpdate   `json:"update,omitempty"`
	Operation *Operation      `json:"operation,omitempty"`
	Sequence  uint64          `json:"sequence,omitempty"`
	Status    OperationStatus `json:"operation_status,omitempty"`
}

var _ IStore = (*JournalStore)(nil)

// JournalStore persists each workflow as an append-only JSON lines file under one
// directory. Appends are cheap and crash safe; reads replay the file. It suits
// deployments which want a durable journal without carrying a database, and the
// filesystem abstraction keeps it fully testable in memory.
type JournalStore struct {
	mu  deadlock.Mutex
	fs  afero.Fs
	dir string
}

// NewJournalStore returns a journal store writing under dir, which is created when
// missing and may start with `~`.
func NewJournalStore(fs afero.Fs, dir string) (*JournalStore, error) {
	if fs == nil {
		return nil, commonerrors.UndefinedVariable("filesystem")
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, err, "could not expand the journal directory")
	}
	if expanded == "" {
		return nil, commonerrors.UndefinedVariable("journal directory")
	}
	err = fs.MkdirAll(expanded, 0750)
	if err != nil {
		return nil, commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, safeio.ConvertIOError(err), "could not create the journal directory")
	}
	return &JournalStore{fs: fs, dir: expanded}, nil
}

func (s *JournalStore) CreateWorkflow(ctx context.Context, w *Workflow) error {
	err := w.Validate()
	if err != nil {
		return err
	}
	err = s.checkJournalArguments(ctx, w.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.journalPath(w.ID)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return journalError(err, "could not probe the journal")
	}
	if exists {
		return commonerrors.Newf(commonerrors.ErrExists, "workflow [%v] already exists", w.ID)
	}
	return s.append(ctx, path, &journalEntry{Entry: entryWorkflowCreated, Workflow: w.Clone()})
}

func (s *JournalStore) UpdateWorkflowStatus(ctx context.Context, workflowID string, update StatusUpdate) error {
	err := update.Validate()
	if err != nil {
		return err
	}
	err = s.checkJournalArguments(ctx, workflowID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.replay(ctx, workflowID)
	if err != nil {
		return err
	}
	return s.append(ctx, s.journalPath(workflowID), &journalEntry{Entry: entryStatusUpdated, Update: &update})
}

func (s *JournalStore) GetWorkflow(ctx context.Context, workflowID string) (*Workflow, error) {
	err := s.checkJournalArguments(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.replay(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	return state.workflow, nil
}

func (s *JournalStore) AppendOperation(ctx context.Context, op *Operation) (uint64, error) {
	err := op.Validate()
	if err != nil {
		return 0, err
	}
	err = s.checkJournalArguments(ctx, op.WorkflowID)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.replay(ctx, op.WorkflowID)
	if err != nil {
		return 0, err
	}
	logged := op.Clone()
	logged.Sequence = state.lastSequence + 1
	err = s.append(ctx, s.journalPath(op.WorkflowID), &journalEntry{Entry: entryOperationLogged, Operation: logged})
	if err != nil {
		return 0, err
	}
	return logged.Sequence, nil
}

func (s *JournalStore) UpdateOperationStatus(ctx context.Context, workflowID string, sequence uint64, status OperationStatus) error {
	err := checkOperationStatus(status)
	if err != nil {
		return err
	}
	err = s.checkJournalArguments(ctx, workflowID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.replay(ctx, workflowID)
	if err != nil {
		return err
	}
	if _, found := state.operations[sequence]; !found {
		return commonerrors.Newf(commonerrors.ErrNotFound, "workflow [%v] has no operation [%v]", workflowID, sequence)
	}
	return s.append(ctx, s.journalPath(workflowID), &journalEntry{Entry: entryOperationStatus, Sequence: sequence, Status: status})
}

func (s *JournalStore) ListOperationsDescending(ctx context.Context, workflowID string) ([]*Operation, error) {
	err := s.checkJournalArguments(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.replay(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	operations := make([]*Operation, 0, len(state.operations))
	for _, op := range state.operations {
		operations = append(operations, op)
	}
	sort.Slice(operations, func(i, j int) bool { return operations[i].Sequence > operations[j].Sequence })
	return operations, nil
}

func (s *JournalStore) ListWorkflowsByStatus(ctx context.Context, status Status, limit int) ([]*Workflow, error) {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.listWorkflowIDs()
	if err != nil {
		return nil, err
	}
	workflows := make([]*Workflow, 0)
	for i := range ids {
		state, err := s.replay(ctx, ids[i])
		if err != nil {
			// A corrupt journal must not take the recovery scan down with it.
			continue
		}
		if state.workflow.Status == status {
			workflows = append(workflows, state.workflow)
		}
	}
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

func (s *JournalStore) DeleteCommittedBefore(ctx context.Context, cutoff time.Time) (removed int64, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.listWorkflowIDs()
	if err != nil {
		return
	}
	for i := range ids {
		state, replayErr := s.replay(ctx, ids[i])
		if replayErr != nil {
			// Corrupt journals are DeleteStaleJournals territory.
			continue
		}
		if state.workflow.Status != StatusCommitted || !workflowReferenceTime(state.workflow).Before(cutoff) {
			continue
		}
		err = journalError(s.fs.Remove(s.journalPath(ids[i])), "could not remove a journal")
		if err != nil {
			return
		}
		removed++
	}
	return
}

// DeleteStaleJournals sweeps up what retention cannot reason about: journal files whose
// last filesystem activity predates cutoff and which are either unreadable or belong to
// a workflow already in a terminal state. Live workflows are never touched no matter how
// old their file looks.
func (s *JournalStore) DeleteStaleJournals(ctx context.Context, cutoff time.Time) (removed int64, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		err = journalError(err, "could not list the journal directory")
		return
	}
	for i := range entries {
		info := entries[i]
		if info.IsDir() || !strings.HasSuffix(info.Name(), journalExtension) {
			continue
		}
		if !fileLastActivity(info).Before(cutoff) {
			continue
		}
		state, replayErr := s.replay(ctx, strings.TrimSuffix(info.Name(), journalExtension))
		if replayErr == nil && !state.workflow.Status.Terminal() {
			continue
		}
		err = journalError(s.fs.Remove(filepath.Join(s.dir, info.Name())), "could not remove a stale journal")
		if err != nil {
			return
		}
		removed++
	}
	return
}

// fileLastActivity returns the most recent of the file's modification and access times.
// In-memory filesystems expose no platform times, hence the Sys guard.
func fileLastActivity(info os.FileInfo) time.Time {
	last := info.ModTime()
	if info.Sys() == nil {
		return last
	}
	ts := times.Get(info)
	if ts.AccessTime().After(last) {
		last = ts.AccessTime()
	}
	return last
}

type journalState struct {
	workflow     *Workflow
	operations   map[uint64]*Operation
	lastSequence uint64
}

func (s *JournalStore) replay(ctx context.Context, workflowID string) (*journalState, error) {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return nil, err
	}
	path := s.journalPath(workflowID)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, journalError(err, "could not probe the journal")
	}
	if !exists {
		return nil, commonerrors.Newf(commonerrors.ErrNotFound, "workflow [%v] is unknown", workflowID)
	}
	content, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, journalError(err, "could not read the journal")
	}
	state := &journalState{operations: make(map[uint64]*Operation)}
	for _, line := range bytes.Split(content, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		entry := journalEntry{}
		err = json.Unmarshal(line, &entry)
		if err != nil {
			return nil, commonerrors.WrapErrorf(commonerrors.ErrMarshalling, err, "corrupt journal for workflow [%v]", workflowID)
		}
		err = state.apply(&entry)
		if err != nil {
			return nil, err
		}
	}
	if state.workflow == nil {
		return nil, commonerrors.Newf(commonerrors.ErrMarshalling, "journal for workflow [%v] has no creation entry", workflowID)
	}
	return state, nil
}

func (state *journalState) apply(entry *journalEntry) error {
	switch entry.Entry {
	case entryWorkflowCreated:
		if entry.Workflow == nil {
			return commonerrors.New(commonerrors.ErrMarshalling, "creation entry without a workflow record")
		}
		state.workflow = entry.Workflow.Clone()
	case entryStatusUpdated:
		if state.workflow == nil || entry.Update == nil {
			return commonerrors.New(commonerrors.ErrMarshalling, "status entry without a workflow record")
		}
		applyStatusUpdate(state.workflow, *entry.Update)
	case entryOperationLogged:
		if entry.Operation == nil {
			return commonerrors.New(commonerrors.ErrMarshalling, "operation entry without an operation record")
		}
		op := entry.Operation.Clone()
		state.operations[op.Sequence] = op
		if op.Sequence > state.lastSequence {
			state.lastSequence = op.Sequence
		}
	case entryOperationStatus:
		if op, found := state.operations[entry.Sequence]; found {
			op.Status = entry.Status
		}
	default:
		return commonerrors.Newf(commonerrors.ErrMarshalling, "unknown journal entry kind [%v]", entry.Entry)
	}
	return nil
}

func (s *JournalStore) append(ctx context.Context, path string, entry *journalEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not encode the journal entry")
	}
	file, err := s.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return journalError(err, "could not open the journal")
	}
	_, err = safeio.Write(ctx, file, append(line, '\n'))
	if err != nil {
		_ = file.Close()
		return journalError(err, "could not append to the journal")
	}
	return journalError(file.Close(), "could not flush the journal")
}

func (s *JournalStore) checkJournalArguments(ctx context.Context, workflowID string) error {
	err := checkWorkflowArguments(ctx, workflowID)
	if err != nil {
		return err
	}
	if strings.ContainsAny(workflowID, `/\`) {
		return commonerrors.Newf(commonerrors.ErrInvalid, "workflow identifier [%v] cannot name a journal file", workflowID)
	}
	return nil
}

func (s *JournalStore) journalPath(workflowID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%v%v", workflowID, journalExtension))
}

func (s *JournalStore) listWorkflowIDs() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, journalError(err, "could not list the journal directory")
	}
	ids := make([]string, 0, len(entries))
	for i := range entries {
		if entries[i].IsDir() || !strings.HasSuffix(entries[i].Name(), journalExtension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entries[i].Name(), journalExtension))
	}
	return ids, nil
}

func journalError(err error, description string) error {
	if err == nil {
		return nil
	}
	return commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, safeio.ConvertIOError(err), description)
}
