package search

import "math/rand/v2"

// PickRandom returns a uniformly chosen element of items, or false when items
// is empty. The slice is not modified.
func PickRandom[T any](items []T) (T, bool) {
	return pickWith(items, rand.IntN)
}

func pickWith[T any](items []T, intn func(int) int) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[intn(len(items))], true
}
