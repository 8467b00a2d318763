// Package memory is an in-process Transport over fixtures. It backs the CLI's
// offline mode and the client tests, which read its call log to count
// requests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/promise"
	"github.com/reoring/contentapi/transport"
	"github.com/reoring/contentapi/wire"
)

// Op names a transport operation in the call log.
type Op string

const (
	OpOne  Op = "one"
	OpPage Op = "page"
)

// Call is one recorded request.
type Call struct {
	Op    Op
	Kind  contentapi.Kind
	ID    string
	Query transport.PageQuery
}

type record struct {
	id       string
	complete wire.Object
	snippet  wire.Object
}

// Transport serves fixtures from memory.
type Transport struct {
	mu       sync.Mutex
	records  map[contentapi.Kind][]record
	calls    []Call
	failures map[string]error
	log      *zap.Logger
}

var _ transport.Transport = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.log = l
		}
	}
}

// New returns an empty Transport.
func New(opts ...Option) *Transport {
	t := &Transport{
		records:  map[contentapi.Kind][]record{},
		failures: map[string]error{},
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Add stores item as both the complete record and its snippet.
func (t *Transport) Add(kind contentapi.Kind, item wire.Object) error {
	return t.AddWithSnippet(kind, item, item)
}

// AddWithSnippet stores a complete record and the form it takes in listings.
// A record with the same id is replaced in place.
func (t *Transport) AddWithSnippet(kind contentapi.Kind, complete, snippet wire.Object) error {
	id, err := idOf(complete)
	if err != nil {
		return errors.Wrapf(err, "memory: %s", kind)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := record{id: id, complete: complete, snippet: snippet}
	for i, r := range t.records[kind] {
		if r.id == id {
			t.records[kind][i] = rec
			return nil
		}
	}
	t.records[kind] = append(t.records[kind], rec)
	return nil
}

// Fail makes requests for (kind, id) reject with err. An empty id fails
// every page request of kind. A nil err clears the failure.
func (t *Transport) Fail(kind contentapi.Kind, id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := string(kind) + "/" + id
	if err == nil {
		delete(t.failures, key)
		return
	}
	t.failures[key] = err
}

// Calls returns the requests made so far.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.calls)
}

// CallsOf returns the recorded requests of one operation on one kind.
func (t *Transport) CallsOf(op Op, kind contentapi.Kind) []Call {
	var out []Call
	for _, c := range t.Calls() {
		if c.Op == op && c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears the call log.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
}

// FetchOne implements transport.Transport.
func (t *Transport) FetchOne(ctx context.Context, kind contentapi.Kind, id string) *promise.Promise[wire.Object] {
	t.mu.Lock()
	t.calls = append(t.calls, Call{Op: OpOne, Kind: kind, ID: id})
	err := t.failures[string(kind)+"/"+id]
	var (
		found wire.Object
		ok    bool
	)
	for _, r := range t.records[kind] {
		if r.id == id {
			found, ok = r.complete, true
			break
		}
	}
	t.mu.Unlock()

	t.log.Debug("fetch one", zap.String("kind", string(kind)), zap.String("id", id))
	return promise.New(ctx, func(ctx context.Context) (wire.Object, error) {
		if err != nil {
			return wire.Object{}, err
		}
		if !ok {
			return wire.Object{}, transport.NotFound(kind, id)
		}
		return found, ctx.Err()
	})
}

// FetchPage implements transport.Transport. Items are ordered newest first by
// "published" for a descending query; records without it keep insertion
// order.
func (t *Transport) FetchPage(ctx context.Context, kind contentapi.Kind, q transport.PageQuery) *promise.Promise[wire.Object] {
	t.mu.Lock()
	t.calls = append(t.calls, Call{Op: OpPage, Kind: kind, Query: q})
	err := t.failures[string(kind)+"/"]
	var items []wire.Object
	for _, r := range t.records[kind] {
		if matches(r.snippet, q) {
			items = append(items, r.snippet)
		}
	}
	t.mu.Unlock()

	t.log.Debug("fetch page",
		zap.String("kind", string(kind)),
		zap.Int("page", q.Page),
		zap.Int("per_page", q.PerPage))
	return promise.New(ctx, func(ctx context.Context) (wire.Object, error) {
		if err != nil {
			return wire.Object{}, err
		}
		if q.Page < 1 || q.PerPage < 1 {
			return wire.Object{}, &transport.TransportError{
				Type:       transport.ErrorTypeClient,
				StatusCode: 400,
				Message:    fmt.Sprintf("invalid page %d/%d", q.Page, q.PerPage),
			}
		}
		sort.SliceStable(items, func(i, j int) bool {
			return published(items[i]) > published(items[j])
		})
		if q.Order == contentapi.Ascending {
			slices.Reverse(items)
		}
		total := len(items)
		start := min((q.Page-1)*q.PerPage, total)
		end := min(start+q.PerPage, total)
		return wire.NewBuilder().
			Set("total", total).
			Set("items", items[start:end]).
			Object(), ctx.Err()
	})
}

func matches(item wire.Object, q transport.PageQuery) bool {
	if q.Type != "" && q.Type != transport.TypeAll && item.Type() != q.Type {
		return false
	}
	if len(q.Subjects) == 0 {
		return true
	}
	raw, _ := item.Get("subjects")
	list, _ := raw.([]any)
	for _, s := range list {
		id, _ := s.(string)
		if m, ok := s.(map[string]any); ok {
			id, _ = m["id"].(string)
		}
		if slices.Contains(q.Subjects, id) {
			return true
		}
	}
	return false
}

func published(o wire.Object) string {
	s, _ := o.Raw()["published"].(string)
	return s
}

// idOf returns the id of a record: its "id", or its "number" for podcast
// episodes.
func idOf(o wire.Object) (string, error) {
	if id, ok := o.Raw()["id"].(string); ok && id != "" {
		return id, nil
	}
	if v, ok := o.Get("number"); ok {
		if n, ok := toInt(v); ok {
			return strconv.Itoa(n), nil
		}
	}
	return "", errors.New("record has no id")
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), float64(int(n)) == n
	case interface{ Int64() (int64, error) }:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
