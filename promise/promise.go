// Package promise implements a single-resolution deferred value.
//
// A Promise runs its producer at most once and memoizes the outcome for any
// number of observers. Producers started with New run immediately; producers
// created with Lazy (and every promise derived with Then or All) run the
// first time the value is forced.
package promise

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Promise is a handle on work that produces a T or fails.
type Promise[T any] struct {
	once sync.Once
	run  func()
	done chan struct{}

	val T
	err error
}

// Producer computes the value of a promise.
type Producer[T any] func(ctx context.Context) (T, error)

// New starts fn on its own goroutine and returns a promise of its result.
func New[T any](ctx context.Context, fn Producer[T]) *Promise[T] {
	p := Lazy(ctx, fn)
	p.force()
	return p
}

// Lazy returns a promise whose producer runs the first time the value is
// forced through Wait, Done or a forced dependant.
func Lazy[T any](ctx context.Context, fn Producer[T]) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{})}
	p.run = func() {
		defer close(p.done)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				p.val, p.err = zero, errors.Errorf("promise: producer panicked: %v", r)
			}
		}()
		p.val, p.err = fn(ctx)
	}
	return p
}

// Resolved returns an already fulfilled promise.
func Resolved[T any](v T) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{}), val: v}
	p.once.Do(func() {})
	close(p.done)
	return p
}

// Rejected returns an already rejected promise.
func Rejected[T any](err error) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{}), err: err}
	p.once.Do(func() {})
	close(p.done)
	return p
}

// Settle returns a terminal promise holding v or err.
func Settle[T any](v T, err error) *Promise[T] {
	if err != nil {
		return Rejected[T](err)
	}
	return Resolved(v)
}

func (p *Promise[T]) force() {
	p.once.Do(func() { go p.run() })
}

// Wait forces the promise and blocks until it is terminal.
func (p *Promise[T]) Wait() (T, error) {
	p.force()
	<-p.done
	return p.val, p.err
}

// Done forces the promise and returns a channel closed once it is terminal.
func (p *Promise[T]) Done() <-chan struct{} {
	p.force()
	return p.done
}

// IsResolved reports whether the promise is terminal. It does not force a
// lazy producer.
func (p *Promise[T]) IsResolved() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Then derives a lazy promise that applies fn to the fulfilled value of p.
// A rejected p skips fn and the derived promise carries the same error.
func Then[T, U any](p *Promise[T], fn func(T) (U, error)) *Promise[U] {
	return Lazy(context.Background(), func(context.Context) (U, error) {
		v, err := p.Wait()
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}

// All joins ps into a lazy promise of every value in argument order. When
// forced it forces all inputs; the first rejection in argument order wins.
func All[T any](ps ...*Promise[T]) *Promise[[]T] {
	return Lazy(context.Background(), func(context.Context) ([]T, error) {
		for _, p := range ps {
			p.force()
		}
		out := make([]T, len(ps))
		for i, p := range ps {
			v, err := p.Wait()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	})
}
