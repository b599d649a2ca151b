// Package transaction drives a unit of work through a phased lifecycle with adapters,
// per-attempt deadlines, retries and native rollback. It coordinates exactly one
// transactional resource; cross-resource workflows are composed on top by the saga
// orchestrator.
package transaction

// Phase identifies a point in the lifecycle of a coordinated transaction at which
// adapters run.
type Phase string

const (
	// PhaseBegin runs before the native transaction is started.
	PhaseBegin Phase = "BEGIN"
	// PhaseAfterBegin runs once the attempt is set up, before the unit of work.
	PhaseAfterBegin Phase = "AFTER_BEGIN"
	// PhasePreCommitValidation runs after the unit of work so that validation failures
	// abort before any pre-commit side effect.
	PhasePreCommitValidation Phase = "PRE_COMMIT_VALIDATION"
	// PhasePreCommit runs validated side effects, e.g. event publication.
	PhasePreCommit Phase = "PRE_COMMIT"
	// PhaseAfterCommit runs best-effort once the native commit has happened.
	PhaseAfterCommit Phase = "AFTER_COMMIT"
	// PhaseOnRollback runs when an attempt fails, after the native rollback.
	PhaseOnRollback Phase = "ON_ROLLBACK"
	// PhaseAfterRollback runs once the rollback handling is complete.
	PhaseAfterRollback Phase = "AFTER_ROLLBACK"
)

func (p Phase) String() string {
	return string(p)
}

// Phases returns every lifecycle phase, success path first, in execution order.
func Phases() []Phase {
	return []Phase{PhaseBegin, PhaseAfterBegin, PhasePreCommitValidation, PhasePreCommit, PhaseAfterCommit, PhaseOnRollback, PhaseAfterRollback}
}
