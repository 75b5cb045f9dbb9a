package utils

import (
	"golang.org/x/exp/constraints"
)

// Min returns the minimum between a and b.
func Min[V constraints.Ordered](a, b V) V {
	if a > b {
		return b
	}
	return a
}

// Max returns the maximum between a and b.
func Max[V constraints.Ordered](a, b V) V {
	if a < b {
		return b
	}
	return a
}

// MaxSlice returns the maximum value in the slice, or the zero value if s is empty.
func MaxSlice[V constraints.Ordered](s []V) (max V) {
	for i, si := range s {
		if i == 0 || si > max {
			max = si
		}
	}
	return
}

// AllDistinct returns true if all elements in s are distinct, and false otherwise.
func AllDistinct[V comparable](s []V) bool {
	m := make(map[V]struct{}, len(s))
	for _, si := range s {
		if _, exists := m[si]; exists {
			return false
		}
		m[si] = struct{}{}
	}
	return true
}

// EqualSlice checks the equality between two slices of comparables.
func EqualSlice[V comparable](a, b []V) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsInSlice checks if x is in slice.
func IsInSlice[V comparable](x V, slice []V) bool {
	for i := range slice {
		if slice[i] == x {
			return true
		}
	}
	return false
}
