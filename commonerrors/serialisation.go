package commonerrors

import (
	"errors"
	"strings"
)

const (
	// TypeReasonErrorSeparator separates the error type from the reason in a serialised error.
	TypeReasonErrorSeparator = ':'
	// MultipleErrorSeparator separates aggregated errors in a serialised error.
	MultipleErrorSeparator = '\n'
)

// SerialiseError marshals an error following the common error convention
// `error type: reason`, one line per aggregated error. It returns nil for an empty error.
func SerialiseError(err error) ([]byte, error) {
	if IsEmpty(err) {
		return nil, nil
	}
	lines := flattenErrorLines(err)
	if len(lines) == 0 {
		return nil, nil
	}
	return []byte(strings.Join(lines, string(MultipleErrorSeparator))), nil
}

// DeserialiseError unmarshals text produced by SerialiseError back into an error,
// restoring the common error type whenever one is recognised so that matching with
// Any/None keeps working across serialisation boundaries.
func DeserialiseError(text []byte) (deserialisedError error, err error) {
	str := strings.TrimSpace(string(text))
	if str == "" {
		return
	}
	var errs []error
	for _, line := range strings.Split(str, string(MultipleErrorSeparator)) {
		if lineErr := deserialiseErrorLine(line); lineErr != nil {
			errs = append(errs, lineErr)
		}
	}
	if len(errs) == 0 {
		err = ErrMarshalling
		return
	}
	deserialisedError = errors.Join(errs...)
	return
}

// flattenErrorLines splits an error description into individual error lines. Aggregated
// errors (errors.Join) render one error per line, so splitting on the separator restores
// the individual errors without dismantling wrapped descriptions.
func flattenErrorLines(err error) (lines []string) {
	for _, line := range strings.Split(err.Error(), string(MultipleErrorSeparator)) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return
}

func deserialiseErrorLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	head, reason, split := strings.Cut(line, string(TypeReasonErrorSeparator))
	if !split {
		if found, common := deserialiseCommonError(head); found {
			return common
		}
		return errors.New(line)
	}
	found, common := deserialiseCommonError(head)
	if !found {
		return errors.New(line)
	}
	return New(common, strings.TrimSpace(reason))
}
