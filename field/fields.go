// Package field provides utilities to deal with optional structure fields held as
// pointers. It was inspired by the kubernetes package https://pkg.go.dev/k8s.io/utils/pointer.
package field

// ToOptional returns a pointer to the value `v`.
func ToOptional[T any](v T) *T {
	return &v
}

// Optional returns the value of an optional field, or defaultValue when unset.
func Optional[T any](ptr *T, defaultValue T) T {
	if ptr != nil {
		return *ptr
	}
	return defaultValue
}

// OptionalZero returns the value of an optional field, or the zero value when unset.
func OptionalZero[T any](ptr *T) (v T) {
	if ptr != nil {
		v = *ptr
	}
	return
}
