package transport

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/promise"
	"github.com/reoring/contentapi/wire"
)

// Defaults of an HTTP transport.
const (
	DefaultBaseURL         = "https://api.elifesciences.org"
	DefaultVendor          = "elife"
	DefaultTimeout         = 30 * time.Second
	DefaultCacheSize       = 512
	DefaultInitialInterval = 250 * time.Millisecond
	DefaultMaxElapsed      = 30 * time.Second
)

// HTTP is a Transport over the content API's HTTP interface.
type HTTP struct {
	baseURL    string
	vendor     string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	group      singleflight.Group
	store      *lru.Cache
	metrics    *metrics
	log        *zap.Logger
	decode     func(io.Reader) (wire.Object, error)

	initialInterval time.Duration
	maxElapsed      time.Duration
	maxRetryAfter   time.Duration
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTP) {
		if c != nil {
			t.httpClient = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(t *HTTP) {
		if d > 0 {
			t.httpClient.Timeout = d
		}
	}
}

// WithVendor sets the vendor of the media types sent in Accept headers.
func WithVendor(v string) Option {
	return func(t *HTTP) {
		if v != "" {
			t.vendor = v
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *HTTP) { t.userAgent = ua }
}

// WithRateLimit caps outgoing requests at rps with the given burst. A
// non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(t *HTTP) {
		if rps <= 0 {
			t.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry configures exponential backoff for retryable failures. A zero
// maxElapsed disables retries.
func WithRetry(initial, maxElapsed time.Duration) Option {
	return func(t *HTTP) {
		t.initialInterval = initial
		t.maxElapsed = maxElapsed
	}
}

// WithCacheSize bounds the number of responses kept for revalidation.
func WithCacheSize(n int) Option {
	return func(t *HTTP) {
		if n > 0 {
			store, err := lru.New(n)
			if err == nil {
				t.store = store
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *HTTP) {
		if l != nil {
			t.log = l
		}
	}
}

// WithStrictKeys rejects response bodies that repeat a key within one object.
func WithStrictKeys() Option {
	return func(t *HTTP) { t.decode = wire.DecodeStrict }
}

// WithRegisterer registers the transport's metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(t *HTTP) {
		t.metrics = newMetrics(reg)
	}
}

// NewHTTP returns a transport for the API at baseURL.
func NewHTTP(baseURL string, opts ...Option) (*HTTP, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrap(err, "transport: invalid base url")
	}
	store, err := lru.New(DefaultCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "transport: response store")
	}
	t := &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		vendor:    DefaultVendor,
		userAgent: "contentapi-go",
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          20,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		limiter:         rate.NewLimiter(rate.Inf, 0),
		store:           store,
		metrics:         newMetrics(nil),
		log:             zap.NewNop(),
		decode:          wire.Decode,
		initialInterval: DefaultInitialInterval,
		maxElapsed:      DefaultMaxElapsed,
		maxRetryAfter:   10 * time.Second,
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// FetchOne implements Transport.
func (t *HTTP) FetchOne(ctx context.Context, kind contentapi.Kind, id string) *promise.Promise[wire.Object] {
	u := t.baseURL + "/" + string(kind) + "/" + url.PathEscape(id)
	accept := kind.ItemAccept(t.vendor)
	return promise.New(ctx, func(ctx context.Context) (wire.Object, error) {
		obj, err := t.get(ctx, kind, "item", u, accept)
		if err != nil {
			return wire.Object{}, errors.Wrapf(err, "fetch %s/%s", kind, id)
		}
		return obj, nil
	})
}

// FetchPage implements Transport.
func (t *HTTP) FetchPage(ctx context.Context, kind contentapi.Kind, q PageQuery) *promise.Promise[wire.Object] {
	u := t.baseURL + "/" + string(kind) + "?" + q.Values().Encode()
	accept := kind.ListAccept(t.vendor)
	return promise.New(ctx, func(ctx context.Context) (wire.Object, error) {
		obj, err := t.get(ctx, kind, "list", u, accept)
		if err != nil {
			return wire.Object{}, errors.Wrapf(err, "list %s page %d", kind, q.Page)
		}
		return obj, nil
	})
}

// stored is a response kept for If-None-Match revalidation.
type stored struct {
	etag string
	body []byte
}

// get coalesces identical in-flight requests.
func (t *HTTP) get(ctx context.Context, kind contentapi.Kind, op, u, accept string) (wire.Object, error) {
	key := accept + " " + u
	v, err, shared := t.group.Do(key, func() (any, error) {
		return t.retrying(ctx, kind, op, key, u, accept)
	})
	if shared {
		t.log.Debug("coalesced request", zap.String("url", u))
	}
	if err != nil {
		return wire.Object{}, err
	}
	body := v.([]byte)
	return t.decode(bytes.NewReader(body))
}

func (t *HTTP) retrying(ctx context.Context, kind contentapi.Kind, op, key, u, accept string) ([]byte, error) {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if t.maxElapsed > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = t.initialInterval
		eb.MaxElapsedTime = t.maxElapsed
		b = eb
	}

	var body []byte
	operation := func() error {
		var err error
		body, err = t.do(ctx, kind, op, key, u, accept)
		if err == nil {
			return nil
		}
		var te *TransportError
		if !errors.As(err, &te) || !te.Type.Retryable() {
			return backoff.Permanent(err)
		}
		if te.RetryAfter > 0 {
			if werr := sleep(ctx, min(te.RetryAfter, t.maxRetryAfter)); werr != nil {
				return backoff.Permanent(err)
			}
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		t.log.Warn("retrying request",
			zap.String("url", u),
			zap.Duration("backoff", next),
			zap.Error(err))
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}

func (t *HTTP) do(ctx context.Context, kind contentapi.Kind, op, key, u, accept string) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, networkError("rate limiter", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, networkError("failed to create request", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("X-Request-Id", requestID)

	var cached stored
	if v, ok := t.store.Get(key); ok {
		cached = v.(stored)
		req.Header.Set("If-None-Match", cached.etag)
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.metrics.observe(kind, op, ErrorTypeNetwork.String(), time.Since(start))
		return nil, networkError("request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.metrics.observe(kind, op, ErrorTypeNetwork.String(), time.Since(start))
		return nil, networkError("failed to read response body", err)
	}

	log := t.log.With(
		zap.String("url", u),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotModified && cached.body != nil:
		t.metrics.observe(kind, op, "not_modified", time.Since(start))
		log.Debug("served from store")
		return cached.body, nil
	case resp.StatusCode == http.StatusOK:
		t.metrics.observe(kind, op, "ok", time.Since(start))
		if etag := resp.Header.Get("ETag"); etag != "" {
			t.store.Add(key, stored{etag: etag, body: body})
		}
		log.Debug("fetched")
		return body, nil
	}

	te := newStatusError(resp.StatusCode, body, resp.Header)
	t.metrics.observe(kind, op, te.Type.String(), time.Since(start))
	log.Debug("request failed", zap.Stringer("error_type", te.Type))
	return nil, te
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
