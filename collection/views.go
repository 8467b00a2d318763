package collection

import (
	"context"
	"iter"

	"github.com/reoring/contentapi/promise"
)

// Map returns a view of s with fn applied to every value. Counting, slicing
// and reversal are delegated to s.
func Map[T, U any](s Sequence[T], fn func(T) U) Sequence[U] {
	return mapped[T, U]{src: s, fn: fn}
}

type mapped[T, U any] struct {
	src Sequence[T]
	fn  func(T) U
}

func (m mapped[T, U]) Count(ctx context.Context) (int, error) { return m.src.Count(ctx) }

func (m mapped[T, U]) Slice(ctx context.Context, offset, length int) Sequence[U] {
	return Map(m.src.Slice(ctx, offset, length), m.fn)
}

func (m mapped[T, U]) Reverse() Sequence[U] { return Map(m.src.Reverse(), m.fn) }

func (m mapped[T, U]) Filter(fn func(U) bool) Sequence[U] { return Filter[U](m, fn) }

func (m mapped[T, U]) All(ctx context.Context) iter.Seq2[U, error] {
	return func(yield func(U, error) bool) {
		for v, err := range m.src.All(ctx) {
			var out U
			if err == nil {
				out = m.fn(v)
			}
			if !yield(out, err) {
				return
			}
		}
	}
}

func (m mapped[T, U]) ToSlice(ctx context.Context) ([]U, error) { return Collect(m.All(ctx)) }

// Filter returns a view of the values of s for which fn reports true. Failed
// items are kept so their errors stay observable.
func Filter[T any](s Sequence[T], fn func(T) bool) Sequence[T] {
	return filtered[T]{src: s, keep: fn}
}

type filtered[T any] struct {
	src  Sequence[T]
	keep func(T) bool
}

func (f filtered[T]) Count(ctx context.Context) (int, error) {
	n := 0
	for _, err := range f.All(ctx) {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// Slice realizes the filtered view before windowing it; the source has no
// notion of how many of its items survive the filter.
func (f filtered[T]) Slice(ctx context.Context, offset, length int) Sequence[T] {
	return f.realize(ctx).Slice(ctx, offset, length)
}

func (f filtered[T]) Reverse() Sequence[T] {
	return filtered[T]{src: f.src.Reverse(), keep: f.keep}
}

func (f filtered[T]) Filter(fn func(T) bool) Sequence[T] {
	keep := f.keep
	return filtered[T]{src: f.src, keep: func(v T) bool { return keep(v) && fn(v) }}
}

func (f filtered[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v, err := range f.src.All(ctx) {
			if err == nil && !f.keep(v) {
				continue
			}
			if !yield(v, err) {
				return
			}
		}
	}
}

func (f filtered[T]) ToSlice(ctx context.Context) ([]T, error) { return Collect(f.All(ctx)) }

func (f filtered[T]) realize(ctx context.Context) Sequence[T] {
	return FromResults(promise.Lazy(ctx, func(ctx context.Context) ([]Result[T], error) {
		var out []Result[T]
		for v, err := range f.All(ctx) {
			out = append(out, Result[T]{Value: v, Err: err})
		}
		return out, nil
	}))
}
