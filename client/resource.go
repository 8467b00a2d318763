// Package client exposes the API's resource kinds as lazy, paged collections.
package client

import (
	"context"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/codec"
	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/promise"
	"github.com/reoring/contentapi/transport"
	"github.com/reoring/contentapi/wire"
)

// DefaultPageSize is the page size of full walks, and the largest page the
// API serves.
const DefaultPageSize = 100

// View holds the listing parameters of a Resource.
type View struct {
	PageSize int
	Order    contentapi.Order
	Type     string
	Subjects []string
}

// key identifies the filter and order of v; views with equal keys list the
// same items.
func (v View) key() string {
	return v.Order.String() + "|" + v.Type + "|" + strings.Join(v.Subjects, ",")
}

// Resource is a paged, lazily fetched collection of one kind.
//
// A Resource is an immutable view: Reverse, WithOrder and the filter methods
// return a new view. Views derived from the same client share one item cache
// and, per filter and order, one known total.
type Resource[T any] struct {
	kind     contentapi.Kind
	target   codec.Target
	tr       transport.Transport
	reg      *codec.Registry
	resolver codec.Resolver
	log      *zap.Logger
	view     View
	total    *total
	totals   *totals
	items    *cache[T]
	list     lister[T]
}

// lister decodes the items of a listing page.
type lister[T any] func(ctx context.Context, r Resource[T], items []wire.Object) []collection.Result[T]

func newResource[T any](kind contentapi.Kind, d deps) Resource[T] {
	target, err := codec.TargetFor(kind)
	if err != nil {
		panic(err)
	}
	if d.pageSize <= 0 || d.pageSize > DefaultPageSize {
		d.pageSize = DefaultPageSize
	}
	view := View{PageSize: d.pageSize, Type: transport.TypeAll}
	ts := &totals{m: map[string]*total{}}
	return Resource[T]{
		kind:     kind,
		target:   target,
		tr:       d.tr,
		reg:      d.reg,
		resolver: d.resolver,
		log:      d.log.With(zap.String("kind", string(kind))),
		view:     view,
		total:    ts.cell(view.key()),
		totals:   ts,
		items:    &cache[T]{m: map[string]*promise.Promise[T]{}},
		list:     snippets[T],
	}
}

// Kind returns the resource kind.
func (r Resource[T]) Kind() contentapi.Kind { return r.kind }

// View returns the listing parameters.
func (r Resource[T]) View() View { return r.view }

// Get returns the complete record with the given id. Repeated calls return
// the same promise; the record is fetched once. The fetch outlives the
// caller's cancellation since every later caller shares its outcome.
func (r Resource[T]) Get(ctx context.Context, id string) *promise.Promise[T] {
	return r.items.load(id, func() *promise.Promise[T] {
		r.log.Debug("fetch item", zap.String("id", id))
		ctx := context.WithoutCancel(ctx)
		raw := r.tr.FetchOne(ctx, r.kind, id)
		return promise.New(ctx, func(ctx context.Context) (T, error) {
			obj, err := raw.Wait()
			if err != nil {
				var zero T
				return zero, err
			}
			return codec.DecodeAs[T](ctx, r.reg, r.target, obj, codec.Context{Resolver: r.resolver})
		})
	})
}

// Slice returns the items [offset, offset+length). A positive length fetches
// page offset/length+1 of length items, so offset should be a multiple of
// length. collection.ToEnd fetches everything and slices in memory.
func (r Resource[T]) Slice(ctx context.Context, offset, length int) collection.Sequence[T] {
	switch {
	case offset < 0:
		return collection.Failed[T](errors.Errorf("%s: negative offset %d", r.kind, offset))
	case length == collection.ToEnd:
		all := promise.Lazy(ctx, func(ctx context.Context) ([]collection.Result[T], error) {
			return r.fetchAll(ctx)
		})
		return collection.FromResults(all).Slice(ctx, offset, collection.ToEnd)
	case length <= 0:
		return collection.Empty[T]()
	}
	page := offset/length + 1
	return collection.FromResults(promise.Lazy(ctx, func(ctx context.Context) ([]collection.Result[T], error) {
		return r.fetchPage(ctx, page, length)
	}))
}

// Count returns the number of items in the view. The total is fetched at most
// once per filter setting.
func (r Resource[T]) Count(ctx context.Context) (int, error) {
	if n, ok := r.total.get(); ok {
		return n, nil
	}
	if _, err := r.fetchRaw(ctx, 1, 1); err != nil {
		return 0, err
	}
	n, _ := r.total.get()
	return n, nil
}

// Reverse returns the view in the opposite order.
func (r Resource[T]) Reverse() collection.Sequence[T] {
	return r.WithOrder(r.view.Order.Reverse())
}

// WithOrder returns the view sorted by o.
func (r Resource[T]) WithOrder(o contentapi.Order) Resource[T] {
	v := r.view
	v.Order = o
	return r.withView(v)
}

// WithSubjects returns the view restricted to items in any of the subjects.
func (r Resource[T]) WithSubjects(ids ...string) Resource[T] {
	v := r.view
	v.Subjects = slices.Clone(ids)
	return r.withView(v)
}

// WithPageSize sets the page size used to walk the whole view.
func (r Resource[T]) WithPageSize(n int) Resource[T] {
	if n <= 0 || n > DefaultPageSize {
		n = DefaultPageSize
	}
	v := r.view
	v.PageSize = n
	return r.withView(v)
}

func (r Resource[T]) withType(t string) Resource[T] {
	if t == "" {
		t = transport.TypeAll
	}
	v := r.view
	v.Type = t
	return r.withView(v)
}

func (r Resource[T]) withView(v View) Resource[T] {
	r.total = r.totals.cell(v.key())
	r.view = v
	return r
}

// Filter returns the items for which fn reports true.
func (r Resource[T]) Filter(fn func(T) bool) collection.Sequence[T] {
	return collection.Filter[T](r, fn)
}

// All walks every page of the view.
func (r Resource[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		size := r.view.PageSize
		seen := 0
		for page := 1; ; page++ {
			res, err := r.fetchPage(ctx, page, size)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, it := range res {
				if !yield(it.Value, it.Err) {
					return
				}
			}
			seen += len(res)
			n, _ := r.total.get()
			if len(res) < size || seen >= n {
				return
			}
		}
	}
}

// ToSlice fetches every item of the view.
func (r Resource[T]) ToSlice(ctx context.Context) ([]T, error) {
	return collection.Collect(r.All(ctx))
}

func (r Resource[T]) fetchAll(ctx context.Context) ([]collection.Result[T], error) {
	var out []collection.Result[T]
	for v, err := range r.All(ctx) {
		if err != nil && isPageError(err) {
			return nil, err
		}
		out = append(out, collection.Result[T]{Value: v, Err: err})
	}
	return out, nil
}

// fetchRaw fetches one listing page and records its total.
func (r Resource[T]) fetchRaw(ctx context.Context, page, perPage int) ([]wire.Object, error) {
	q := transport.PageQuery{
		Page:     page,
		PerPage:  perPage,
		Order:    r.view.Order,
		Type:     r.view.Type,
		Subjects: r.view.Subjects,
	}
	r.log.Debug("fetch page", zap.Int("page", page), zap.Int("per_page", perPage))
	obj, err := r.tr.FetchPage(ctx, r.kind, q).Wait()
	if err != nil {
		return nil, pageError{err}
	}
	rd := wire.Read(obj)
	n := rd.Int("total")
	items := rd.Children("items")
	if err := rd.Err(); err != nil {
		return nil, pageError{errors.Wrapf(err, "%s page %d", r.kind, page)}
	}
	r.total.set(n)
	return items, nil
}

func (r Resource[T]) fetchPage(ctx context.Context, page, perPage int) ([]collection.Result[T], error) {
	items, err := r.fetchRaw(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, r, items), nil
}

// snippets decodes listing items independently; a bad item fails alone.
func snippets[T any](ctx context.Context, r Resource[T], items []wire.Object) []collection.Result[T] {
	c := codec.Context{Snippet: true, Resolver: r.resolver}
	out := make([]collection.Result[T], len(items))
	for i, raw := range items {
		v, err := codec.DecodeAs[T](ctx, r.reg, r.target, raw, c)
		out[i] = collection.Result[T]{Value: v, Err: err}
	}
	return out
}

// pageError marks a failure of a whole page, as opposed to one of its items.
type pageError struct{ error }

func (e pageError) Unwrap() error { return e.error }

func isPageError(err error) bool {
	var pe pageError
	return errors.As(err, &pe)
}

// total is the known item count of a view.
type total struct {
	mu    sync.Mutex
	n     int
	known bool
}

func (t *total) get() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n, t.known
}

func (t *total) set(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n, t.known = n, true
}

type totals struct {
	mu sync.Mutex
	m  map[string]*total
}

func (ts *totals) cell(key string) *total {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t, ok := ts.m[key]
	if !ok {
		t = &total{}
		ts.m[key] = t
	}
	return t
}

// cache memoizes item promises by id for the life of a client.
type cache[T any] struct {
	mu sync.Mutex
	m  map[string]*promise.Promise[T]
}

func (c *cache[T]) load(id string, fetch func() *promise.Promise[T]) *promise.Promise[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.m[id]; ok {
		return p
	}
	p := fetch()
	c.m[id] = p
	return p
}

func (c *cache[T]) lookup(id string) (*promise.Promise[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.m[id]
	return p, ok
}

func (c *cache[T]) store(id string, p *promise.Promise[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[id]; !ok {
		c.m[id] = p
	}
}
