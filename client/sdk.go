package client

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/codec"
	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/promise"
	"github.com/reoring/contentapi/transport"
)

// SDK holds one client per resource kind, wired to a shared transport, codec
// registry and cross-reference resolver.
type SDK struct {
	Articles        Articles
	BlogArticles    BlogArticles
	Collections     Collections
	Events          Events
	Interviews      Interviews
	People          People
	PodcastEpisodes PodcastEpisodes
	Subjects        Subjects

	reg    *codec.Registry
	router *router
}

type deps struct {
	tr         transport.Transport
	reg        *codec.Registry
	resolver   codec.Resolver
	log        *zap.Logger
	pageSize   int
	batchLimit int
}

// Option configures an SDK.
type Option func(*deps)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *deps) {
		if l != nil {
			d.log = l
		}
	}
}

// WithRegistry replaces the default codec registry.
func WithRegistry(reg *codec.Registry) Option {
	return func(d *deps) {
		if reg != nil {
			d.reg = reg
		}
	}
}

// WithPageSize sets the page size of full walks.
func WithPageSize(n int) Option {
	return func(d *deps) { d.pageSize = n }
}

// WithBatchLimit caps the concurrent fetches of an interview batch. Zero
// means no cap.
func WithBatchLimit(n int) Option {
	return func(d *deps) { d.batchLimit = n }
}

// New returns an SDK over tr.
func New(tr transport.Transport, opts ...Option) *SDK {
	d := deps{tr: tr, log: zap.NewNop(), pageSize: DefaultPageSize}
	for _, o := range opts {
		o(&d)
	}
	if d.reg == nil {
		d.reg = codec.Default(codec.WithLogger(d.log))
	}
	rt := &router{routes: map[contentapi.Kind]route{}}
	d.resolver = rt

	s := &SDK{
		Articles:        newResource[model.Article](contentapi.KindArticles, d),
		BlogArticles:    newResource[*model.BlogArticle](contentapi.KindBlogArticles, d),
		Collections:     newResource[*model.Collection](contentapi.KindCollections, d),
		Events:          newEvents(d),
		Interviews:      newInterviews(d),
		People:          newResource[*model.Person](contentapi.KindPeople, d),
		PodcastEpisodes: newResource[*model.PodcastEpisode](contentapi.KindPodcastEpisodes, d),
		Subjects:        newResource[model.Subject](contentapi.KindSubjects, d),
		reg:             d.reg,
		router:          rt,
	}
	rt.add(contentapi.KindArticles, routeTo(s.Articles))
	rt.add(contentapi.KindBlogArticles, routeTo(s.BlogArticles))
	rt.add(contentapi.KindCollections, routeTo(s.Collections))
	rt.add(contentapi.KindEvents, routeTo(s.Events.Resource))
	rt.add(contentapi.KindInterviews, routeTo(s.Interviews.Resource))
	rt.add(contentapi.KindPeople, routeTo(s.People))
	rt.add(contentapi.KindPodcastEpisodes, routeTo(s.PodcastEpisodes))
	rt.add(contentapi.KindSubjects, routeTo(s.Subjects))
	return s
}

// Registry returns the codec registry used by the clients.
func (s *SDK) Registry() *codec.Registry { return s.reg }

// Resolver returns the resolver that routes cross-references through the
// clients' item caches.
func (s *SDK) Resolver() codec.Resolver { return s.router }

// Get fetches the complete record (kind, id) as an untyped model.
func (s *SDK) Get(ctx context.Context, kind contentapi.Kind, id string) *promise.Promise[any] {
	return s.router.Resolve(ctx, kind, id)
}

type route func(ctx context.Context, id string) *promise.Promise[any]

// router resolves cross-references through the resource clients, so every
// id of a kind is fetched at most once.
type router struct {
	mu     sync.RWMutex
	routes map[contentapi.Kind]route
}

func (rt *router) add(kind contentapi.Kind, r route) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.routes[kind] = r
}

// Resolve implements codec.Resolver.
func (rt *router) Resolve(ctx context.Context, kind contentapi.Kind, id string) *promise.Promise[any] {
	rt.mu.RLock()
	r, ok := rt.routes[kind]
	rt.mu.RUnlock()
	if !ok {
		return promise.Rejected[any](errors.Errorf("client: no route for kind %q", kind))
	}
	return r(ctx, id)
}

func routeTo[T any](res Resource[T]) route {
	return func(ctx context.Context, id string) *promise.Promise[any] {
		return promise.Then(res.Get(ctx, id), func(v T) (any, error) { return v, nil })
	}
}
