// Package lazy provides deferred, memoized access to remote values and to
// paged remote listings.
//
// Nothing in this package locks. Types here are single-threaded by
// contract: callers that share them across goroutines serialize access
// themselves.
package lazy

import (
	"context"
	"errors"
)

// ErrNoSource means a Value was asked to resolve with neither a held value
// nor a fetch function.
var ErrNoSource = errors.New("no source to resolve from")

// Fetch produces a value on demand.
type Fetch[T any] func(ctx context.Context) (T, error)

// Value is a deferred, memoized value.
//
// It is either unresolved or resolved holding a value. Resolve moves it to
// resolved through the fetch function; Invalidate moves it back.
type Value[T any] struct {
	fetch    Fetch[T]
	value    T
	resolved bool
}

type ValueOption[T any] func(*Value[T]) *Value[T]

// Seeded starts the Value already resolved to v.
//
// After an Invalidate the fetch function takes over.
func Seeded[T any](v T) ValueOption[T] {
	return func(val *Value[T]) *Value[T] {
		val.value = v
		val.resolved = true
		return val
	}
}

func NewValue[T any](fetch Fetch[T], options ...ValueOption[T]) *Value[T] {
	v := &Value[T]{fetch: fetch}
	for _, opt := range options {
		v = opt(v)
	}
	return v
}

// ValueOf returns a Value resolved to v, with no fetch function behind it.
func ValueOf[T any](v T) *Value[T] {
	return NewValue[T](nil, Seeded(v))
}

// Resolve returns the held value, fetching it first when unresolved.
//
// A fetch error propagates as-is and nothing is memoized, so the next
// Resolve fetches again.
func (v *Value[T]) Resolve(ctx context.Context) (T, error) {
	if v.resolved {
		return v.value, nil
	}
	if v.fetch == nil {
		return *new(T), ErrNoSource
	}

	got, err := v.fetch(ctx)
	if err != nil {
		return *new(T), err
	}
	v.value = got
	v.resolved = true
	return got, nil
}

// Peek returns the held value, never fetching.
func (v *Value[T]) Peek() (T, bool) {
	if !v.resolved {
		return *new(T), false
	}
	return v.value, true
}

// Invalidate forgets the held value. The next Resolve fetches anew.
func (v *Value[T]) Invalidate() {
	var zero T
	v.value = zero
	v.resolved = false
}
