// Package idgen generates the identifiers used across the engine (workflow, saga and
// event IDs).
package idgen

import (
	"github.com/gofrs/uuid/v5"

	"github.com/txkit-go/txkit/commonerrors"
)

// GenerateUUID4 returns a random (version 4) UUID, suited to identifiers that only
// need uniqueness, such as event IDs.
func GenerateUUID4() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", commonerrors.WrapError(commonerrors.ErrUnexpected, err, "could not generate an identifier")
	}
	return id.String(), nil
}

// GenerateTimeOrderedUUID returns a version 7 UUID. Identifiers sort by generation
// time at millisecond granularity, which keeps stored workflow records roughly in key
// order.
func GenerateTimeOrderedUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", commonerrors.WrapError(commonerrors.ErrUnexpected, err, "could not generate an identifier")
	}
	return id.String(), nil
}

// IsValidUUID states whether u parses as a UUID of any version.
func IsValidUUID(u string) bool {
	_, err := uuid.FromString(u)
	return err == nil
}
