// Package collection provides the set algebra used when merging slices of
// comparable values.
package collection

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Union merges the given slices into one slice of distinct values. Values keep
// the order in which they first appear, so merging a subscription list with new
// patterns leaves the established patterns in front.
func Union[T comparable](groups ...[]T) []T {
	size := 0
	for i := range groups {
		size += len(groups[i])
	}
	if size == 0 {
		return nil
	}
	seen := mapset.NewThreadUnsafeSetWithSize[T](size)
	union := make([]T, 0, size)
	for i := range groups {
		for _, value := range groups[i] {
			if seen.Add(value) {
				union = append(union, value)
			}
		}
	}
	return union
}

// UniqueEntries returns the distinct values of slice, keeping first appearance
// order.
func UniqueEntries[T comparable](slice []T) []T {
	return Union(slice)
}

// Unique returns the distinct values of the sequence, keeping first appearance
// order. The sequence is an iter.Seq[T] spelled as its underlying type so the
// package builds with toolchains predating the iter package.
func Unique[T comparable](s func(yield func(T) bool)) []T {
	seen := mapset.NewThreadUnsafeSet[T]()
	var unique []T
	s(func(value T) bool {
		if seen.Add(value) {
			unique = append(unique, value)
		}
		return true
	})
	return unique
}
