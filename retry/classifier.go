package retry

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/txkit-go/txkit/commonerrors"
)

// defaultTransientErrors are the error categories considered retryable when a classifier
// is given no explicit listing: timeouts, transient I/O and deadlocks.
var defaultTransientErrors = []error{
	commonerrors.ErrTimeout,
	commonerrors.ErrTransient,
	commonerrors.ErrEOF,
	commonerrors.ErrUnavailable,
	commonerrors.ErrDeadlock,
	commonerrors.ErrStaleLock,
}

// ErrorClassifier decides whether an error is worth retrying. Explicitly non-retryable
// errors take precedence over retryable ones on conflict; errors in neither listing are
// retryable only when they belong to the default transient categories.
type ErrorClassifier struct {
	retryable    mapset.Set[error]
	nonRetryable mapset.Set[error]
}

// NewErrorClassifier returns a classifier retrying the default transient categories only.
func NewErrorClassifier() *ErrorClassifier {
	return NewErrorClassifierWithErrors(nil, nil)
}

// NewErrorClassifierWithErrors returns a classifier considering the supplied errors on top
// of the default transient categories.
func NewErrorClassifierWithErrors(retryableErrors []error, nonRetryableErrors []error) *ErrorClassifier {
	c := &ErrorClassifier{
		retryable:    mapset.NewSet[error](defaultTransientErrors...),
		nonRetryable: mapset.NewSet[error](),
	}
	c.MarkAsRetryable(retryableErrors...)
	c.MarkAsNonRetryable(nonRetryableErrors...)
	return c
}

// MarkAsRetryable adds errs to the retryable listing.
func (c *ErrorClassifier) MarkAsRetryable(errs ...error) {
	for _, err := range errs {
		if err != nil {
			c.retryable.Add(err)
		}
	}
}

// MarkAsNonRetryable adds errs to the non-retryable listing. It takes precedence over
// MarkAsRetryable on conflict.
func (c *ErrorClassifier) MarkAsNonRetryable(errs ...error) {
	for _, err := range errs {
		if err != nil {
			c.nonRetryable.Add(err)
		}
	}
}

// IsRetryable states whether err is worth retrying.
func (c *ErrorClassifier) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if matchesAny(err, c.nonRetryable) {
		return false
	}
	return matchesAny(err, c.retryable)
}

func matchesAny(err error, set mapset.Set[error]) (matched bool) {
	if set == nil {
		return
	}
	set.Each(func(target error) bool {
		matched = commonerrors.Any(err, target)
		return matched
	})
	return
}
