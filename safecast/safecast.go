// Package safecast converts between numeric types without overflow: a value outside the
// destination range comes back clamped to the nearest representable boundary.
package safecast

import "math"

// Number covers every type safecast can convert.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

type rangeCheck int

const (
	inRange rangeCheck = iota
	belowRange
	aboveRange
)

// classify places value against a destination range. Float comparisons treat equality
// with the upper bound as overflow since the bound itself rounds up when converted.
func classify[N Number](value N, lower int64, upper uint64) rangeCheck {
	switch v := any(value).(type) {
	case float32:
		return classifyFloat(float64(v), lower, upper)
	case float64:
		return classifyFloat(v, lower, upper)
	default:
		if value < 0 {
			if int64(value) < lower {
				return belowRange
			}
			return inRange
		}
		if uint64(value) > upper {
			return aboveRange
		}
		return inRange
	}
}

func classifyFloat(v float64, lower int64, upper uint64) rangeCheck {
	if v >= 0 {
		if v >= float64(upper) {
			return aboveRange
		}
		return inRange
	}
	if v <= float64(lower) {
		return belowRange
	}
	return inRange
}

// ToInt converts value to an int, clamping at the int boundaries.
func ToInt[N Number](value N) int {
	switch classify(value, math.MinInt, math.MaxInt) {
	case belowRange:
		return math.MinInt
	case aboveRange:
		return math.MaxInt
	default:
		return int(value)
	}
}

// ToUint converts value to a uint, clamping at the uint boundaries.
func ToUint[N Number](value N) uint {
	switch classify(value, 0, math.MaxUint) {
	case belowRange:
		return 0
	case aboveRange:
		return math.MaxUint
	default:
		return uint(value)
	}
}

// ToInt32 converts value to an int32, clamping at the int32 boundaries.
func ToInt32[N Number](value N) int32 {
	switch classify(value, math.MinInt32, math.MaxInt32) {
	case belowRange:
		return math.MinInt32
	case aboveRange:
		return math.MaxInt32
	default:
		return int32(value)
	}
}

// ToInt64 converts value to an int64, clamping at the int64 boundaries.
func ToInt64[N Number](value N) int64 {
	switch classify(value, math.MinInt64, math.MaxInt64) {
	case belowRange:
		return math.MinInt64
	case aboveRange:
		return math.MaxInt64
	default:
		return int64(value)
	}
}

// ToUint64 converts value to a uint64, clamping at the uint64 boundaries.
func ToUint64[N Number](value N) uint64 {
	switch classify(value, 0, math.MaxUint64) {
	case belowRange:
		return 0
	case aboveRange:
		return math.MaxUint64
	default:
		return uint64(value)
	}
}

// ToFloat64 converts value to a float64.
func ToFloat64[N Number](value N) float64 {
	return float64(value)
}
