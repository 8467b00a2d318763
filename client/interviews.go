package client

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/codec"
	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/promise"
	"github.com/reoring/contentapi/wire"
)

// Interviews lists interviews. A listing page carries snippets; the
// interviewee CV and the content of every item not already cached resolve
// from one batch of complete-record fetches shared by the whole page.
type Interviews struct {
	Resource[*model.Interview]
}

var _ collection.Collection[*model.Interview] = Interviews{}

func newInterviews(d deps) Interviews {
	r := newResource[*model.Interview](contentapi.KindInterviews, d)
	r.list = interviewPage(d.batchLimit)
	return Interviews{r}
}

// WithOrder returns the view sorted by o.
func (c Interviews) WithOrder(o contentapi.Order) Interviews {
	return Interviews{c.Resource.WithOrder(o)}
}

// WithSubjects returns the view restricted to interviews in any of the
// subjects.
func (c Interviews) WithSubjects(ids ...string) Interviews {
	return Interviews{c.Resource.WithSubjects(ids...)}
}

// WithPageSize sets the page size used to walk the whole view.
func (c Interviews) WithPageSize(n int) Interviews {
	return Interviews{c.Resource.WithPageSize(n)}
}

// Reverse returns the view in the opposite order.
func (c Interviews) Reverse() collection.Sequence[*model.Interview] {
	return c.WithOrder(c.view.Order.Reverse())
}

func interviewPage(limit int) lister[*model.Interview] {
	return func(ctx context.Context, r Resource[*model.Interview], items []wire.Object) []collection.Result[*model.Interview] {
		out := make([]collection.Result[*model.Interview], len(items))
		ids := make([]string, len(items))
		var missing []string
		queued := map[string]bool{}
		for i, raw := range items {
			ids[i], _ = raw.Raw()["id"].(string)
			if ids[i] == "" || queued[ids[i]] {
				continue
			}
			if _, ok := r.items.lookup(ids[i]); !ok {
				missing = append(missing, ids[i])
				queued[ids[i]] = true
			}
		}

		b := newBatch(ctx, r, missing, limit)
		c := codec.Context{Snippet: true, Resolver: b}
		for i, raw := range items {
			if p, ok := r.items.lookup(ids[i]); ok {
				v, err := p.Wait()
				out[i] = collection.Result[*model.Interview]{Value: v, Err: err}
				continue
			}
			v, err := codec.DecodeAs[*model.Interview](ctx, r.reg, r.target, raw, c)
			out[i] = collection.Result[*model.Interview]{Value: v, Err: err}
			if err == nil {
				r.items.store(v.ID, promise.Resolved(v))
			}
		}
		return out
	}
}

// batch resolves the complete interviews of one listing page. Nothing is
// fetched until the first lookup; then every id is fetched concurrently.
type batch struct {
	ids      map[string]bool
	records  *promise.Promise[map[string]result]
	fallback codec.Resolver
}

type result struct {
	v   *model.Interview
	err error
}

func newBatch(ctx context.Context, r Resource[*model.Interview], ids []string, limit int) *batch {
	b := &batch{ids: map[string]bool{}, fallback: r.resolver}
	for _, id := range ids {
		b.ids[id] = true
	}
	b.records = promise.Lazy(context.WithoutCancel(ctx), func(ctx context.Context) (map[string]result, error) {
		r.log.Debug("fetch interview batch", zap.Int("size", len(ids)))
		var (
			mu  sync.Mutex
			out = make(map[string]result, len(ids))
			g   errgroup.Group
		)
		if limit > 0 {
			g.SetLimit(limit)
		}
		for _, id := range ids {
			g.Go(func() error {
				obj, err := r.tr.FetchOne(ctx, r.kind, id).Wait()
				var v *model.Interview
				if err == nil {
					v, err = codec.DecodeAs[*model.Interview](ctx, r.reg, r.target, obj, codec.Context{Resolver: r.resolver})
				}
				mu.Lock()
				out[id] = result{v: v, err: err}
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
		return out, nil
	})
	return b
}

// Resolve implements codec.Resolver.
func (b *batch) Resolve(ctx context.Context, kind contentapi.Kind, id string) *promise.Promise[any] {
	if kind != contentapi.KindInterviews || !b.ids[id] {
		if b.fallback == nil {
			return promise.Rejected[any](codec.ErrNoResolver)
		}
		return b.fallback.Resolve(ctx, kind, id)
	}
	return promise.Then(b.records, func(m map[string]result) (any, error) {
		res := m[id]
		return res.v, res.err
	})
}
