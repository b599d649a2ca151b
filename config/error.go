package config

import (
	"errors"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/exp/maps"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/field"
)

// IValidationError is reported when a configuration structure fails validation. As the
// error bubbles up through nested structures it accumulates the path of the offending
// entry, so the final message can point at both the Go field and the environment variable
// which sets it.
type IValidationError interface {
	error
	// FieldPath returns the chain of Go fields leading to the invalid entry, e.g. `Store.Port`.
	FieldPath() string
	// EnvVar returns the environment variable controlling the invalid entry, e.g.
	// `TXKIT_STORE_PORT`, or an empty string when the mapping is not known.
	EnvVar() string
	// Reason returns the description of the underlying validation failure.
	Reason() string
	Unwrap() error
	// RecordField prepends a field to the path. envSegment is the corresponding environment
	// variable segment, nil when the field has no environment mapping.
	RecordField(name string, envSegment *string)
	// RecordPrefix sets the environment variable prefix reported by EnvVar.
	RecordPrefix(prefix string)
}

// WrapFieldValidationError records fieldName against the validation failure of one of its
// entries. A nil err yields nil.
func WrapFieldValidationError(fieldName string, envSegment *string, err error) IValidationError {
	vErr := newValidationError(err)
	if vErr == nil {
		return nil
	}
	vErr.RecordField(fieldName, envSegment)
	return vErr
}

// WrapValidationError records the environment variable prefix against a validation
// failure of the whole structure. A nil err yields nil.
func WrapValidationError(envVarPrefix string, err error) IValidationError {
	vErr := newValidationError(err)
	if vErr == nil {
		return nil
	}
	if strings.TrimSpace(envVarPrefix) != "" {
		vErr.RecordPrefix(envVarPrefix)
	}
	return vErr
}

// ConvertValidationError normalises a validation failure so it matches
// commonerrors.ErrInvalid wherever it surfaces. Validate methods return their rule
// failures through it; enclosing structures and the loader then only add path context.
// A nil err yields nil.
func ConvertValidationError(err error) error {
	vErr := newValidationError(err)
	if vErr == nil {
		return nil
	}
	return vErr
}

type validationError struct {
	fieldChain []string
	envChain   []string
	envPrefix  *string
	reason     string
}

func (v *validationError) FieldPath() string {
	return strings.Join(v.fieldChain, ".")
}

func (v *validationError) EnvVar() string {
	if len(v.envChain) == 0 {
		return ""
	}
	name := strings.ReplaceAll(strings.Join(v.envChain, EnvVarSeparator), "-", EnvVarSeparator)
	if v.envPrefix != nil {
		name = strings.ToUpper(strings.TrimSpace(*v.envPrefix)) + EnvVarSeparator + name
	}
	return name
}

func (v *validationError) Reason() string {
	return v.reason
}

func (v *validationError) RecordField(name string, envSegment *string) {
	v.fieldChain = append([]string{strings.TrimSpace(name)}, v.fieldChain...)
	if envSegment != nil {
		v.envChain = append([]string{strings.ToUpper(strings.TrimSpace(*envSegment))}, v.envChain...)
	}
}

func (v *validationError) RecordPrefix(envVarPrefix string) {
	v.envPrefix = field.ToOptional(envVarPrefix)
}

func (v *validationError) Unwrap() error {
	return commonerrors.ErrInvalid
}

func (v *validationError) Error() string {
	var description strings.Builder
	description.WriteString("configuration failed validation")
	if path := v.FieldPath(); path != "" {
		description.WriteString(" (")
		description.WriteString(path)
		description.WriteString(")")
	}
	if envVar := v.EnvVar(); envVar != "" {
		description.WriteString(" [")
		description.WriteString(envVar)
		description.WriteString("]")
	}
	if reason := v.Reason(); reason != "" {
		description.WriteString(": ")
		description.WriteString(reason)
	}
	return commonerrors.New(commonerrors.ErrInvalid, description.String()).Error()
}

// newValidationError normalises any validation failure into a *validationError, keeping
// an already recorded path intact so that callers only prepend their own field.
func newValidationError(err error) *validationError {
	if err == nil {
		return nil
	}
	var vErr *validationError
	if errors.As(err, &vErr) {
		return vErr
	}
	var structureErrs validation.Errors
	if errors.As(err, &structureErrs) {
		return fromOzzoErrors(structureErrs)
	}
	var entryErr validation.Error
	if errors.As(err, &entryErr) {
		return fromOzzoError(entryErr)
	}
	reason, convErr := commonerrors.GetCommonErrorReason(err)
	if convErr != nil {
		reason = err.Error()
	}
	return &validationError{reason: reason}
}

// fromOzzoErrors keeps the first failing entry in key order so the reported entry is
// deterministic whatever the map iteration order.
func fromOzzoErrors(errs validation.Errors) *validationError {
	if len(errs) == 0 {
		return &validationError{reason: errs.Error()}
	}
	entries := maps.Keys(errs)
	slices.Sort(entries)
	entry := entries[0]
	vErr := &validationError{reason: errs[entry].Error()}
	vErr.RecordField(entry, field.ToOptional(entry))
	return vErr
}

// fromOzzoError handles a single rule failure. Rule parameters are not field names so no
// environment segment is recorded.
func fromOzzoError(err validation.Error) *validationError {
	vErr := &validationError{reason: err.Message()}
	entries := maps.Keys(err.Params())
	if len(entries) > 0 {
		slices.Sort(entries)
		vErr.RecordField(entries[0], nil)
	}
	return vErr
}
