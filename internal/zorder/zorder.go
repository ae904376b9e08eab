// Package zorder assigns and normalizes window stacking order. Focus raises
// a window by allocating max+1, which keeps focus O(1); the resulting gaps
// are only compacted back to a dense 1..N sequence once the ceiling is
// exceeded, preserving relative order.
package zorder

import "sort"

// DefaultCeiling is the z-index value beyond which the stack is renumbered.
const DefaultCeiling = 10000

// Entry pairs a window id with its current z-index.
type Entry struct {
	ID     string
	ZIndex int
}

// Next returns the z-index for a newly created or newly focused window:
// one above the current top, or 1 for an empty stack.
func Next(entries []Entry) int {
	max := 0
	for _, e := range entries {
		if e.ZIndex > max {
			max = e.ZIndex
		}
	}
	return max + 1
}

// NeedsNormalize reports whether any z-index has exceeded the ceiling.
// A ceiling of zero or below falls back to DefaultCeiling.
func NeedsNormalize(entries []Entry, ceiling int) bool {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	for _, e := range entries {
		if e.ZIndex > ceiling {
			return true
		}
	}
	return false
}

// Normalize returns a dense 1..N assignment preserving the relative order of
// the given entries. Ties (which should not occur in a well-formed stack)
// keep their input order.
func Normalize(entries []Entry) map[string]int {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ZIndex < sorted[j].ZIndex
	})

	assigned := make(map[string]int, len(sorted))
	for i, e := range sorted {
		assigned[e.ID] = i + 1
	}
	return assigned
}
