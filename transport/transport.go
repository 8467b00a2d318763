// Package transport fetches raw resources from the content API.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/promise"
	"github.com/reoring/contentapi/wire"
)

// TypeAll is the type filter that selects every type.
const TypeAll = "all"

// Transport is what the resource clients need from the API.
type Transport interface {
	// FetchOne fetches the complete record of (kind, id). A missing record
	// rejects with an error matching contentapi.ErrNotFound.
	FetchOne(ctx context.Context, kind contentapi.Kind, id string) *promise.Promise[wire.Object]
	// FetchPage fetches one page of a listing. The object carries "total"
	// and "items", the items in snippet form.
	FetchPage(ctx context.Context, kind contentapi.Kind, q PageQuery) *promise.Promise[wire.Object]
}

// PageQuery selects one page of a listing.
type PageQuery struct {
	Page     int
	PerPage  int
	Order    contentapi.Order
	Type     string
	Subjects []string
}

// Values renders q as listing query parameters.
func (q PageQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("per-page", strconv.Itoa(q.PerPage))
	v.Set("order", q.Order.String())
	if q.Type != "" && q.Type != TypeAll {
		v.Set("type", q.Type)
	}
	for _, s := range q.Subjects {
		v.Add("subject[]", s)
	}
	return v
}

// ErrorType classifies transport failures for retry decisions.
type ErrorType int

const (
	// ErrorTypeUnknown is an unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork is a connection or I/O failure.
	ErrorTypeNetwork
	// ErrorTypeNotFound is a 404 or 410.
	ErrorTypeNotFound
	// ErrorTypeRateLimit is a 429.
	ErrorTypeRateLimit
	// ErrorTypeServer is a 5xx.
	ErrorTypeServer
	// ErrorTypeClient is any other 4xx.
	ErrorTypeClient
)

// String returns a human-readable name for the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeServer:
		return "server_error"
	case ErrorTypeClient:
		return "client_error"
	default:
		return "unknown"
	}
}

// Retryable reports whether a request failing this way may succeed later.
func (e ErrorType) Retryable() bool {
	switch e {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServer:
		return true
	}
	return false
}

// TransportError is a classified transport failure.
type TransportError struct {
	Err        error
	Message    string
	Type       ErrorType
	StatusCode int
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches contentapi.ErrTransport, contentapi.ErrNotFound for a missing
// record, and any *TransportError of the same type.
func (e *TransportError) Is(target error) bool {
	switch target {
	case contentapi.ErrTransport:
		return true
	case contentapi.ErrNotFound:
		return e.Type == ErrorTypeNotFound
	}
	t, ok := target.(*TransportError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NotFound builds the error for a missing record.
func NotFound(kind contentapi.Kind, id string) *TransportError {
	return &TransportError{
		Type:       ErrorTypeNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s/%s: not found", kind, id),
	}
}

// parseRetryAfter extracts the Retry-After header value (RFC 7231).
// Returns 0 if the header is missing or invalid.
func parseRetryAfter(headers http.Header) time.Duration {
	value := headers.Get("Retry-After")
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(value); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}

// classifyStatus determines the error type of a non-success status.
func classifyStatus(statusCode int) ErrorType {
	switch {
	case statusCode == http.StatusNotFound || statusCode == http.StatusGone:
		return ErrorTypeNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case statusCode >= 500:
		return ErrorTypeServer
	case statusCode >= 400:
		return ErrorTypeClient
	}
	return ErrorTypeUnknown
}

// newStatusError creates a classified error from an HTTP response.
func newStatusError(statusCode int, body []byte, headers http.Header) *TransportError {
	errType := classifyStatus(statusCode)

	msg := fmt.Sprintf("HTTP %d: %s", statusCode, errType.String())
	if len(body) > 0 && len(body) < 200 {
		msg = fmt.Sprintf("HTTP %d (%s): %s", statusCode, errType.String(), string(body))
	}

	return &TransportError{
		Type:       errType,
		StatusCode: statusCode,
		Message:    msg,
		RetryAfter: parseRetryAfter(headers),
	}
}

func networkError(msg string, err error) *TransportError {
	return &TransportError{
		Type:    ErrorTypeNetwork,
		Message: fmt.Sprintf("%s: %v", msg, err),
		Err:     err,
	}
}
