// Package retry provides retry policies (no-retry, immediate, fixed, linear and
// exponential backoff with jitter), error classification and drivers executing
// operations under a policy.
package retry

import (
	"math/rand"
	"time"
)

//go:generate mockgen -destination=./mocks/mock_retry.go -package=mocks github.com/txkit-go/txkit/retry IRetryPolicy

// IRetryPolicy determines whether a failed attempt should be run again and after which
// delay. Policies are pure computations safe for concurrent use.
type IRetryPolicy interface {
	// ShouldRetry states whether the attempt attemptNumber (starting at 1) which failed
	// with err should be retried, together with the delay to observe beforehand.
	// Retrying stops once attemptNumber reaches MaxAttempts regardless of err.
	ShouldRetry(err error, attemptNumber uint) (retry bool, delay time.Duration)
	// MaxAttempts returns the total number of attempts which can be made, first try included.
	MaxAttempts() uint
}

type basePolicy struct {
	attempts   uint
	classifier *ErrorClassifier
}

func newBasePolicy(maxAttempts uint, classifier *ErrorClassifier) basePolicy {
	if maxAttempts == 0 {
		maxAttempts = 1
	}
	if classifier == nil {
		classifier = NewErrorClassifier()
	}
	return basePolicy{attempts: maxAttempts, classifier: classifier}
}

func (p *basePolicy) MaxAttempts() uint {
	return p.attempts
}

func (p *basePolicy) canRetry(err error, attemptNumber uint) bool {
	if attemptNumber >= p.attempts {
		return false
	}
	return p.classifier.IsRetryable(err)
}

type noRetryPolicy struct {
}

func (p *noRetryPolicy) ShouldRetry(error, uint) (bool, time.Duration) {
	return false, 0
}

func (p *noRetryPolicy) MaxAttempts() uint {
	return 1
}

// NewNoRetryPolicy returns a policy which never retries.
func NewNoRetryPolicy() IRetryPolicy {
	return &noRetryPolicy{}
}

type immediateRetryPolicy struct {
	basePolicy
}

func (p *immediateRetryPolicy) ShouldRetry(err error, attemptNumber uint) (bool, time.Duration) {
	return p.canRetry(err, attemptNumber), 0
}

// NewImmediateRetryPolicy returns a policy retrying straight away up to maxAttempts.
func NewImmediateRetryPolicy(maxAttempts uint, classifier *ErrorClassifier) IRetryPolicy {
	return &immediateRetryPolicy{newBasePolicy(maxAttempts, classifier)}
}

type fixedDelayRetryPolicy struct {
	basePolicy
	delay time.Duration
}

func (p *fixedDelayRetryPolicy) ShouldRetry(err error, attemptNumber uint) (bool, time.Duration) {
	if !p.canRetry(err, attemptNumber) {
		return false, 0
	}
	return true, p.delay
}

// NewFixedDelayPolicy returns a policy waiting the same delay between every attempt.
func NewFixedDelayPolicy(delay time.Duration, maxAttempts uint, classifier *ErrorClassifier) IRetryPolicy {
	if delay < 0 {
		delay = 0
	}
	return &fixedDelayRetryPolicy{basePolicy: newBasePolicy(maxAttempts, classifier), delay: delay}
}

type linearBackoffRetryPolicy struct {
	basePolicy
	initialDelay time.Duration
	maxDelay     time.Duration
}

func (p *linearBackoffRetryPolicy) ShouldRetry(err error, attemptNumber uint) (bool, time.Duration) {
	if !p.canRetry(err, attemptNumber) {
		return false, 0
	}
	return true, p.delayFor(attemptNumber)
}

func (p *linearBackoffRetryPolicy) delayFor(attemptNumber uint) time.Duration {
	delay := p.initialDelay * time.Duration(attemptNumber) //nolint:gosec //attempts are bounded by MaxAttempts
	if delay > p.maxDelay || delay < 0 {
		delay = p.maxDelay
	}
	return delay
}

// NewLinearBackoffPolicy returns a policy waiting initialDelay × attemptNumber between
// attempts, capped at maxDelay.
func NewLinearBackoffPolicy(initialDelay, maxDelay time.Duration, maxAttempts uint, classifier *ErrorClassifier) IRetryPolicy {
	initialDelay, maxDelay = normaliseDelayBounds(initialDelay, maxDelay)
	return &linearBackoffRetryPolicy{
		basePolicy:   newBasePolicy(maxAttempts, classifier),
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
	}
}

type exponentialBackoffRetryPolicy struct {
	basePolicy
	initialDelay time.Duration
	maxDelay     time.Duration
	jitterFactor float64
}

func (p *exponentialBackoffRetryPolicy) ShouldRetry(err error, attemptNumber uint) (bool, time.Duration) {
	if !p.canRetry(err, attemptNumber) {
		return false, 0
	}
	return true, p.delayFor(attemptNumber)
}

// delayFor doubles the initial delay on every attempt up to maxDelay, then adds
// delay × jitterFactor × uniform(0,1) so concurrent callers do not retry in lockstep.
func (p *exponentialBackoffRetryPolicy) delayFor(attemptNumber uint) time.Duration {
	delay := p.initialDelay
	for i := uint(1); i < attemptNumber; i++ {
		delay *= 2
		if delay >= p.maxDelay || delay < 0 {
			delay = p.maxDelay
			break
		}
	}
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	jitter := time.Duration(float64(delay) * p.jitterFactor * rand.Float64()) //nolint:gosec //jitter does not need cryptographic randomness
	return delay + jitter
}

// NewExponentialBackoffPolicy returns a policy doubling the wait on every attempt up to
// maxDelay, with a jitterFactor in [0,1] controlling the random spread added on top.
func NewExponentialBackoffPolicy(initialDelay, maxDelay time.Duration, jitterFactor float64, maxAttempts uint, classifier *ErrorClassifier) IRetryPolicy {
	if jitterFactor < 0 {
		jitterFactor = 0
	}
	if jitterFactor > 1 {
		jitterFactor = 1
	}
	initialDelay, maxDelay = normaliseDelayBounds(initialDelay, maxDelay)
	return &exponentialBackoffRetryPolicy{
		basePolicy:   newBasePolicy(maxAttempts, classifier),
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		jitterFactor: jitterFactor,
	}
}

func normaliseDelayBounds(initialDelay, maxDelay time.Duration) (time.Duration, time.Duration) {
	if maxDelay < 0 {
		maxDelay = 0
	}
	if initialDelay < 0 {
		initialDelay = 0
	}
	if initialDelay > maxDelay {
		initialDelay = maxDelay
	}
	return initialDelay, maxDelay
}
