// Package commonerrors defines the error vocabulary shared across the module.
// Errors are sentinel values which can be checked against using Any/None, wrapped
// with a description using New/Newf, or used to type foreign errors using WrapError.
package commonerrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// List of the common error types a subsystem can return. Callers should match against
// these using Any/None rather than comparing descriptions.
var (
	ErrNotImplemented     = errors.New("not implemented")
	ErrNoLogger           = errors.New("missing logger")
	ErrNoLoggerSource     = errors.New("missing logger source")
	ErrNoLogSource        = errors.New("missing log source")
	ErrUndefined          = errors.New("undefined")
	ErrInvalidDestination = errors.New("invalid destination")
	ErrTimeout            = errors.New("timeout")
	ErrLocked             = errors.New("locked")
	ErrStaleLock          = errors.New("stale lock")
	ErrDeadlock           = errors.New("deadlock")
	ErrExists             = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrUnsupported        = errors.New("unsupported")
	ErrUnavailable        = errors.New("unavailable")
	ErrTransient          = errors.New("transient failure")
	ErrWrongUser          = errors.New("wrong user")
	ErrUnauthorised       = errors.New("unauthorised")
	ErrForbidden          = errors.New("forbidden")
	ErrUnknown            = errors.New("unknown")
	ErrInvalid            = errors.New("invalid")
	ErrConflict           = errors.New("conflict")
	ErrMarshalling        = errors.New("unserialisable")
	ErrCancelled          = errors.New("cancelled")
	ErrEmpty              = errors.New("empty")
	ErrUnexpected         = errors.New("unexpected")
	ErrTooLarge           = errors.New("too large")
	ErrOutOfRange         = errors.New("out of range")
	ErrCondition          = errors.New("failed condition")
	ErrEOF                = errors.New("end of file")
	ErrFailed             = errors.New("failed")
	ErrStale              = errors.New("stale")
	ErrCriticalAdapter    = errors.New("critical adapter failure")
	ErrEventValidation    = errors.New("event validation failure")
	ErrNoHandlers         = errors.New("no registered handlers")
	ErrUndoFailure        = errors.New("undo failure")
)

var allCommonErrors = []error{ErrNotImplemented, ErrNoLogger, ErrNoLoggerSource, ErrNoLogSource, ErrUndefined, ErrInvalidDestination, ErrTimeout, ErrLocked, ErrStaleLock, ErrDeadlock, ErrExists, ErrNotFound, ErrUnsupported, ErrUnavailable, ErrTransient, ErrWrongUser, ErrUnauthorised, ErrForbidden, ErrUnknown, ErrInvalid, ErrConflict, ErrMarshalling, ErrCancelled, ErrEmpty, ErrUnexpected, ErrTooLarge, ErrOutOfRange, ErrCondition, ErrEOF, ErrFailed, ErrStale, ErrCriticalAdapter, ErrEventValidation, ErrNoHandlers, ErrUndoFailure}

// Any determines whether the target error is of the same type as any of the errors `err`.
func Any(target error, err ...error) bool {
	for _, e := range err {
		if errors.Is(e, target) || errors.Is(target, e) {
			return true
		}
	}
	return false
}

// None determines whether the target error is of none of the types of the errors `err`.
func None(target error, err ...error) bool {
	for _, e := range err {
		if errors.Is(e, target) || errors.Is(target, e) {
			return false
		}
	}
	return true
}

// IsCommonError states whether an error is a common error or not.
func IsCommonError(target error) bool {
	return Any(target, allCommonErrors...)
}

// IsEmpty states whether an error is empty or not, i.e. nil or with an empty description.
func IsEmpty(err error) bool {
	if err == nil {
		return true
	}
	return strings.TrimSpace(err.Error()) == ""
}

// New creates a new error of type `commonError` with a description.
func New(commonError error, description string) error {
	if IsEmpty(commonError) {
		commonError = ErrUnknown
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return commonError
	}
	return fmt.Errorf("%w%v %v", commonError, string(TypeReasonErrorSeparator), description)
}

// Newf creates a new error of type `commonError` with a formatted description.
func Newf(commonError error, format string, args ...any) error {
	return New(commonError, fmt.Sprintf(format, args...))
}

// WrapError wraps the error `wrappedErr` into a common error of type `commonError` with
// some additional description. The wrapped error remains in the chain and so can still be
// matched against using Any/None.
func WrapError(commonError error, wrappedErr error, description string) error {
	if IsEmpty(wrappedErr) {
		return New(commonError, description)
	}
	if IsEmpty(commonError) {
		commonError = ErrUnknown
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("%w%v %w", commonError, string(TypeReasonErrorSeparator), wrappedErr)
	}
	return fmt.Errorf("%w%v %v%v %w", commonError, string(TypeReasonErrorSeparator), description, string(TypeReasonErrorSeparator), wrappedErr)
}

// WrapErrorf is similar to WrapError but with a formatted description.
func WrapErrorf(commonError error, wrappedErr error, format string, args ...any) error {
	return WrapError(commonError, wrappedErr, fmt.Sprintf(format, args...))
}

// WrapIfNotCommonError wraps the error into `commonError` unless it is already a common
// error, in which case its type is retained.
func WrapIfNotCommonError(commonError error, wrappedErr error, description string) error {
	if IsCommonError(wrappedErr) {
		return WrapError(typeOf(wrappedErr), wrappedErr, description)
	}
	return WrapError(commonError, wrappedErr, description)
}

// WrapIfNotCommonErrorf is similar to WrapIfNotCommonError but with a formatted description.
func WrapIfNotCommonErrorf(commonError error, wrappedErr error, format string, args ...any) error {
	return WrapIfNotCommonError(commonError, wrappedErr, fmt.Sprintf(format, args...))
}

func typeOf(err error) error {
	for _, common := range allCommonErrors {
		if Any(err, common) {
			return common
		}
	}
	return ErrUnknown
}

// ConvertContextError converts a context error (i.e. context.Canceled,
// context.DeadlineExceeded) into a common error (ErrCancelled, ErrTimeout).
func ConvertContextError(err error) error {
	if err == nil {
		return nil
	}
	if Any(err, ErrTimeout, ErrCancelled) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return ErrCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// ErrFromContext returns the error recorded in the context, if any, as a common error.
func ErrFromContext(ctx context.Context) error {
	if ctx == nil {
		return ErrUndefined
	}
	return ConvertContextError(ctx.Err())
}

// Ignore returns nil if the target error is of the same type as any of `ignore`, the
// target error otherwise.
func Ignore(target error, ignore ...error) error {
	if Any(target, ignore...) {
		return nil
	}
	return target
}

// Join aggregates errors into one, discarding any empty errors. Each aggregated error
// remains matchable using Any/None.
func Join(errs ...error) error {
	nonEmpty := make([]error, 0, len(errs))
	for _, err := range errs {
		if !IsEmpty(err) {
			nonEmpty = append(nonEmpty, err)
		}
	}
	return errors.Join(nonEmpty...)
}

// CorrespondTo determines whether the target error corresponds to any of the descriptions,
// i.e. its description contains one of them (case insensitive).
func CorrespondTo(target error, description ...string) bool {
	if target == nil {
		return false
	}
	desc := strings.ToLower(target.Error())
	for _, d := range description {
		if strings.Contains(desc, strings.ToLower(strings.TrimSpace(d))) {
			return true
		}
	}
	return false
}

// RelatesTo determines whether any of the errors `err` has a description containing `text`
// (case insensitive).
func RelatesTo(text string, err ...error) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, e := range err {
		if e == nil {
			continue
		}
		if strings.Contains(strings.ToLower(e.Error()), text) {
			return true
		}
	}
	return false
}

// GetCommonErrorReason returns the reason behind a common error, i.e. its description
// stripped of the error type. An error is returned if the error does not follow the
// common error convention `error type: reason`.
func GetCommonErrorReason(err error) (reason string, failure error) {
	if IsEmpty(err) {
		failure = ErrUndefined
		return
	}
	str := err.Error()
	idx := strings.Index(str, string(TypeReasonErrorSeparator))
	if idx < 0 {
		if IsCommonError(err) {
			return
		}
		failure = Newf(ErrMarshalling, "error [%v] does not follow the common error convention", str)
		return
	}
	if found, _ := deserialiseCommonError(str[:idx]); !found {
		failure = Newf(ErrMarshalling, "error [%v] is not typed with a common error", str)
		return
	}
	reason = strings.TrimSpace(str[idx+1:])
	return
}

// UndefinedVariable returns an ErrUndefined error reporting the missing variable.
func UndefinedVariable(variableName string) error {
	return Newf(ErrUndefined, "undefined variable [%v]", strings.TrimSpace(variableName))
}

// UndefinedVariableWithMessage is similar to UndefinedVariable but with an extra message.
func UndefinedVariableWithMessage(variableName string, message string) error {
	return Newf(ErrUndefined, "undefined variable [%v]: %v", strings.TrimSpace(variableName), message)
}

func deserialiseCommonError(errStr string) (bool, error) {
	errStr = strings.ToLower(strings.TrimSpace(errStr))
	for _, common := range allCommonErrors {
		if errStr == common.Error() {
			return true, common
		}
	}
	return false, ErrUnknown
}
