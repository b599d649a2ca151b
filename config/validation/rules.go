// Package validation provides ozzo-validation rules for configuration entries
// the stock rule set does not cover.
package validation

import (
	"reflect"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/txkit-go/txkit/commonerrors"
)

// IsPort validates that a value is a usable network port whatever Go type the
// configuration layer decoded it into.
func IsPort() validation.Rule {
	return validation.By(func(raw any) error {
		port, err := portString(raw)
		if err != nil {
			return err
		}
		err = is.Port.Validate(port)
		if err != nil {
			return commonerrors.WrapError(commonerrors.ErrInvalid, err, "")
		}
		return nil
	})
}

func portString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	value := reflect.ValueOf(raw)
	switch {
	case value.CanInt():
		return strconv.FormatInt(value.Int(), 10), nil
	case value.CanUint():
		return strconv.FormatUint(value.Uint(), 10), nil
	default:
		return "", commonerrors.Newf(commonerrors.ErrMarshalling, "unsupported type for port validation: %T", raw)
	}
}

// IsPositiveDuration validates that a duration is set and strictly positive, in one
// rule instead of pairing Required with an exclusive minimum.
func IsPositiveDuration() validation.Rule {
	return validation.By(func(raw any) error {
		duration, ok := raw.(time.Duration)
		if !ok {
			return commonerrors.Newf(commonerrors.ErrMarshalling, "unsupported type for duration validation: %T", raw)
		}
		if duration <= 0 {
			return commonerrors.New(commonerrors.ErrInvalid, "must be a strictly positive duration")
		}
		return nil
	})
}
