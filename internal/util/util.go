// Package util contains small generic helpers used across the codebase.
package util

import "sort"

// SortBy returns a copy of items sorted with the given less function. The
// sort is stable, so items that are neither less than nor greater than each
// other keep their original order. The given slice is not modified.
func SortBy[E any](items []E, less func(left, right E) bool) []E {
	sorted := make([]E, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}
