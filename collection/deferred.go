package collection

import (
	"context"
	"iter"
	"slices"

	"github.com/reoring/contentapi/promise"
)

// deferred is a Sequence over a list realized by a single promise. Every
// derived view shares the source promise, so the underlying work runs once.
type deferred[T any] struct {
	src *promise.Promise[[]Result[T]]
}

// FromSlice returns an eager sequence over items.
func FromSlice[T any](items []T) Sequence[T] {
	res := make([]Result[T], len(items))
	for i, v := range items {
		res[i] = Result[T]{Value: v}
	}
	return deferred[T]{src: promise.Resolved(res)}
}

// Empty returns a sequence with no items.
func Empty[T any]() Sequence[T] {
	return deferred[T]{src: promise.Resolved[[]Result[T]](nil)}
}

// FromPromise wraps a deferred full list.
func FromPromise[T any](p *promise.Promise[[]T]) Sequence[T] {
	return deferred[T]{src: promise.Then(p, func(items []T) ([]Result[T], error) {
		res := make([]Result[T], len(items))
		for i, v := range items {
			res[i] = Result[T]{Value: v}
		}
		return res, nil
	})}
}

// FromResults wraps a deferred list whose items may fail individually.
func FromResults[T any](p *promise.Promise[[]Result[T]]) Sequence[T] {
	return deferred[T]{src: p}
}

// Failed returns a sequence whose realization fails with err.
func Failed[T any](err error) Sequence[T] {
	return deferred[T]{src: promise.Rejected[[]Result[T]](err)}
}

func (d deferred[T]) Count(context.Context) (int, error) {
	res, err := d.src.Wait()
	if err != nil {
		return 0, err
	}
	return len(res), nil
}

func (d deferred[T]) Slice(_ context.Context, offset, length int) Sequence[T] {
	return deferred[T]{src: promise.Then(d.src, func(res []Result[T]) ([]Result[T], error) {
		lo, hi := window(len(res), offset, length)
		return res[lo:hi:hi], nil
	})}
}

func (d deferred[T]) Reverse() Sequence[T] {
	return deferred[T]{src: promise.Then(d.src, func(res []Result[T]) ([]Result[T], error) {
		out := slices.Clone(res)
		slices.Reverse(out)
		return out, nil
	})}
}

func (d deferred[T]) Filter(fn func(T) bool) Sequence[T] {
	return Filter[T](d, fn)
}

func (d deferred[T]) All(context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		res, err := d.src.Wait()
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		for _, r := range res {
			if !yield(r.Value, r.Err) {
				return
			}
		}
	}
}

func (d deferred[T]) ToSlice(ctx context.Context) ([]T, error) {
	return Collect(d.All(ctx))
}
