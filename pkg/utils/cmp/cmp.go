package cmp

// BiPredicate reports whether a and b are equivalent in some sense.
type BiPredicate[V any, U any] func(a V, b U) bool

// a == b as BiPredicate
func EqEq[T comparable](a, b T) bool {
	return a == b
}

// *a == *b as BiPredicate. Two nils are equal.
func PEqEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// compare pointees with pred. Two nils are equal.
func PEqualWith[T any](a, b *T, pred func(T, T) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return pred(*a, *b)
}

// check two maps hold the same key-value pairs.
func MapEq[K comparable, V comparable](a, b map[K]V) bool {
	return MapEqWith(a, b, EqEq[V])
}

// check two maps hold the same keys with equivalent values, per pred.
func MapEqWith[K comparable, V any, U any](a map[K]V, b map[K]U, pred BiPredicate[V, U]) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !pred(va, vb) {
			return false
		}
	}
	return true
}

// check two slices are elementwise equal.
func SliceEq[T comparable](a, b []T) bool {
	return SliceEqWith(a, b, EqEq[T])
}

// check two slices are elementwise equivalent, per pred. Ordering matters.
func SliceEqWith[T any, U any](a []T, b []U, pred BiPredicate[T, U]) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}
	return true
}

// check two slices hold the same content regardless of ordering.
//
// This is bag (multiset) equality: duplicates count.
func SliceContentEq[T comparable](a, b []T) bool {
	return SliceContentEqWith(a, b, EqEq[T])
}

// bag equality in the equivalence pred defines.
func SliceContentEqWith[S any, T any](a []S, b []T, pred BiPredicate[S, T]) bool {
	if len(a) != len(b) {
		return false
	}

	rest := make(map[int]*T, len(b))
	for i := range b {
		rest[i] = &b[i]
	}

NEXT_A:
	for _, va := range a {
		for k, vb := range rest {
			if pred(va, *vb) {
				delete(rest, k)
				continue NEXT_A
			}
		}
		return false
	}

	return len(rest) == 0
}
