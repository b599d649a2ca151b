package config

import (
	"reflect"
	"strings"
)

// ValidateEmbedded walks the fields of cfg and validates every nested structure which
// implements Validator, recording the failing field so the error reports its full path.
func ValidateEmbedded(cfg Validator) error {
	structure := reflect.ValueOf(cfg).Elem()
	for i := 0; i < structure.NumField(); i++ {
		nested := structure.Field(i)
		if nested.Kind() != reflect.Struct {
			continue
		}
		validator, ok := nested.Addr().Interface().(Validator)
		if !ok {
			continue
		}
		if err := wrapFieldValidationError(structure.Type().Field(i), validator.Validate()); err != nil {
			return err
		}
	}
	return nil
}

func wrapFieldValidationError(structField reflect.StructField, err error) error {
	// mapstructure falls back to the lowercased field name when no tag is present.
	envSegment := strings.ToLower(structField.Name)
	if tag, hasTag := structField.Tag.Lookup("mapstructure"); hasTag {
		envSegment = processMapStructureString(tag)
	}
	var envName *string
	if envSegment != "" {
		envName = &envSegment
	}
	return WrapFieldValidationError(structField.Name, envName, err)
}

// processMapStructureString extracts the entry name from a mapstructure tag, dropping any
// options such as omitempty or squash. A name of "-" means the field is not mapped.
func processMapStructureString(tag string) string {
	name := strings.TrimSpace(strings.Split(tag, ",")[0])
	if name == "-" {
		return ""
	}
	return name
}
