// Package errortest provides test assertions over the common error vocabulary.
package errortest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/txkit-go/txkit/commonerrors"
)

// AssertError asserts that err belongs to at least one of the expected categories, in
// the commonerrors.Any sense.
func AssertError(t *testing.T, err error, expectedErrors ...error) bool {
	t.Helper()
	return report(t, commonerrors.Any(err, expectedErrors...), "error assertion", err, expectedErrors)
}

// RequireError is AssertError stopping the test on failure.
func RequireError(t *testing.T, err error, expectedErrors ...error) {
	t.Helper()
	if !AssertError(t, err, expectedErrors...) {
		t.FailNow()
	}
}

// AssertErrorDescription asserts that the description of err corresponds to one of the
// expected descriptions, in the commonerrors.CorrespondTo sense.
func AssertErrorDescription(t *testing.T, err error, expectedDescriptions ...string) bool {
	t.Helper()
	return report(t, commonerrors.CorrespondTo(err, expectedDescriptions...), "error description assertion", err, expectedDescriptions)
}

// RequireErrorDescription is AssertErrorDescription stopping the test on failure.
func RequireErrorDescription(t *testing.T, err error, expectedDescriptions ...string) {
	t.Helper()
	if !AssertErrorDescription(t, err, expectedDescriptions...) {
		t.FailNow()
	}
}

func report(t *testing.T, matched bool, what string, err error, expected any) bool {
	t.Helper()
	if matched {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("Failed %v:\n actual: %v\n expected any of: %+v", what, err, expected))
}
