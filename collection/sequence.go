// Package collection provides lazy, sliceable, reversible views over ordered
// data that may live behind a deferred fetch.
package collection

import (
	"context"
	"iter"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/reoring/contentapi/promise"
)

// ToEnd as a Slice length means "from offset to the end".
const ToEnd = -1

// ErrEmpty is returned by First for a sequence with no items.
var ErrEmpty = errors.New("collection: empty sequence")

// Sequence is an ordered view. Views are immutable: Slice, Reverse and Filter
// return new views and never change the receiver.
type Sequence[T any] interface {
	// Count returns the number of items in the view.
	Count(ctx context.Context) (int, error)
	// Slice returns the window [offset, offset+length). A length of ToEnd
	// selects everything from offset on.
	Slice(ctx context.Context, offset, length int) Sequence[T]
	// Reverse returns the view in the opposite order.
	Reverse() Sequence[T]
	// Filter returns the items for which fn reports true.
	Filter(fn func(T) bool) Sequence[T]
	// All iterates the view. A failed item is yielded with its error at its
	// position; a failure of the whole view is yielded once.
	All(ctx context.Context) iter.Seq2[T, error]
	// ToSlice returns every value, or the combined errors of the failed items.
	ToSlice(ctx context.Context) ([]T, error)
}

// Collection is a Sequence that can also look items up by id.
type Collection[T any] interface {
	Sequence[T]
	Get(ctx context.Context, id string) *promise.Promise[T]
}

// Result is a single item of a realized sequence: a value or the error that
// prevented producing it.
type Result[T any] struct {
	Value T
	Err   error
}

// Collect drains seq into a slice of values, combining item errors.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var (
		out  []T
		errs error
	)
	for v, err := range seq {
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, v)
	}
	if errs != nil {
		return nil, errs
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// First returns the first item of s.
func First[T any](ctx context.Context, s Sequence[T]) (T, error) {
	for v, err := range s.Slice(ctx, 0, 1).All(ctx) {
		return v, err
	}
	var zero T
	return zero, ErrEmpty
}

// NotEmpty reports whether s has at least one item.
func NotEmpty[T any](ctx context.Context, s Sequence[T]) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// window clamps [offset, offset+length) to n items.
func window(n, offset, length int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if length != ToEnd && length >= 0 && offset+length < n {
		end = offset + length
	}
	return offset, end
}
