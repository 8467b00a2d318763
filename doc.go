// Package contentapi is a typed client for a paginated, versioned scholarly
// content API (articles, blog articles, collections, events, interviews,
// podcast episodes, people and subjects).
//
// The root package only holds the vocabulary shared by every layer:
//
//   - the error model (Issues with JSON Pointer paths, and the ErrNotFound,
//     ErrDecodeMismatch and ErrTransport sentinels)
//   - Kind, which names a resource family and knows its paths and media types
//   - Order, the sort order of a listing
//
// The moving parts live in subpackages: promise (deferred values),
// collection (lazy sequences), wire (raw JSON objects), model (domain
// variants), codec (polymorphic decode/encode), transport (HTTP and
// in-memory), and client (resource clients and the SDK facade).
//
// Typical usage:
//
//	tr, err := transport.NewHTTP(transport.DefaultBaseURL)
//	sdk := client.New(tr, client.WithLogger(log))
//	first, err := collection.First(ctx, sdk.Interviews.Slice(ctx, 0, 10))
//	content, err := first.Content.ToSlice(ctx)
//
//	n, err := sdk.Events.ForType("viewer-article").Count(ctx)
package contentapi
