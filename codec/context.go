package codec

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/promise"
)

// Context carries the representation depth through nested decode and encode
// calls.
type Context struct {
	// Snippet selects the listing depth: heavy fields are absent from the
	// payload on decode and omitted on encode.
	Snippet bool
	// Type adds the "type" key when encoding top-level content items.
	Type bool
	// Resolver looks up cross-referenced resources and complete records.
	Resolver Resolver

	reg *Registry
}

// embedded is the context for resources listed inside another resource:
// always snippets, always tagged.
func (c Context) embedded() Context {
	c.Snippet = true
	c.Type = true
	return c
}

// complete is the context for the fields of a snippet that resolve from its
// complete record.
func (c Context) complete() Context {
	c.Snippet = false
	c.Type = false
	return c
}

// Resolver fetches another resource by kind and id. Implementations route
// through the resource clients so repeated ids share one fetch.
type Resolver interface {
	Resolve(ctx context.Context, kind contentapi.Kind, id string) *promise.Promise[any]
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, kind contentapi.Kind, id string) *promise.Promise[any]

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, kind contentapi.Kind, id string) *promise.Promise[any] {
	return f(ctx, kind, id)
}

// ErrNoResolver is returned when a deferred field is forced but the decode
// context had no Resolver.
var ErrNoResolver = errors.New("codec: no resolver configured")

// resolveAs waits for the resolved resource and asserts its type.
func resolveAs[M any](ctx context.Context, c Context, kind contentapi.Kind, id string) (M, error) {
	var zero M
	if c.Resolver == nil {
		return zero, errors.Wrapf(ErrNoResolver, "resolve %s/%s", kind, id)
	}
	v, err := c.Resolver.Resolve(ctx, kind, id).Wait()
	if err != nil {
		return zero, err
	}
	m, ok := v.(M)
	if !ok {
		return zero, errors.Errorf("resolve %s/%s: got %T, want %s", kind, id, v, typeName[M]())
	}
	return m, nil
}

// lookup returns a promise of the resource (kind, id). Nothing is fetched
// until the promise is forced.
func lookup[M any](ctx context.Context, c Context, kind contentapi.Kind, id string) *promise.Promise[M] {
	return promise.Lazy(ctx, func(ctx context.Context) (M, error) {
		return resolveAs[M](ctx, c, kind, id)
	})
}

// laterValue returns a promise of a field of the complete record of
// (kind, id).
func laterValue[M, F any](ctx context.Context, c Context, kind contentapi.Kind, id string, pick func(M) (F, error)) *promise.Promise[F] {
	return promise.Lazy(ctx, func(ctx context.Context) (F, error) {
		m, err := resolveAs[M](ctx, c, kind, id)
		if err != nil {
			var zero F
			return zero, err
		}
		return pick(m)
	})
}

// laterSeq returns a sequence field of the complete record of (kind, id).
func laterSeq[M, E any](ctx context.Context, c Context, kind contentapi.Kind, id string, pick func(M) collection.Sequence[E]) collection.Sequence[E] {
	return collection.FromPromise(promise.Lazy(ctx, func(ctx context.Context) ([]E, error) {
		m, err := resolveAs[M](ctx, c, kind, id)
		if err != nil {
			return nil, err
		}
		s := pick(m)
		if s == nil {
			return []E{}, nil
		}
		return s.ToSlice(ctx)
	}))
}

// waitPromise unwraps an optional promise field.
func waitPromise[T any](p *promise.Promise[T]) (T, error) {
	if p == nil {
		var zero T
		return zero, nil
	}
	return p.Wait()
}

func typeName[T any]() string {
	var p *T
	return fmt.Sprintf("%T", p)[1:]
}
