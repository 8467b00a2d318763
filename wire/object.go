// Package wire holds raw JSON objects as they travel between the transport and
// the codecs. An Object remembers its JSON Pointer inside the payload it came
// from so decode issues can name the exact offending field.
package wire

import (
	"sort"
	"strconv"
	"strings"
)

// Object is a decoded JSON object plus its location in the enclosing payload.
type Object struct {
	data map[string]any
	path string
}

// NewObject wraps m as a payload root.
func NewObject(m map[string]any) Object {
	if m == nil {
		m = map[string]any{}
	}
	return Object{data: m}
}

// Raw returns the underlying map. Callers must not mutate it.
func (o Object) Raw() map[string]any { return o.data }

// Path returns the JSON Pointer of o, "/" for a root.
func (o Object) Path() string {
	if o.path == "" {
		return "/"
	}
	return o.path
}

// At returns the JSON Pointer of key inside o.
func (o Object) At(key string) string {
	return o.path + "/" + escape(key)
}

// Get returns the raw value for key.
func (o Object) Get(key string) (any, bool) {
	v, ok := o.data[key]
	if ok && v == nil {
		return nil, false
	}
	return v, ok
}

// Has reports whether key is present with a non-null value.
func (o Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Type returns the "type" discriminator, or "" when absent.
func (o Object) Type() string {
	s, _ := o.data["type"].(string)
	return s
}

// Keys returns the keys of o in lexical order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o.data))
	for k := range o.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (o Object) Len() int { return len(o.data) }

// With returns a shallow copy of o with key set to v.
func (o Object) With(key string, v any) Object {
	m := make(map[string]any, len(o.data)+1)
	for k, val := range o.data {
		m[k] = val
	}
	m[key] = v
	return Object{data: m, path: o.path}
}

func (o Object) child(key string, m map[string]any) Object {
	return Object{data: m, path: o.At(key)}
}

func (o Object) element(key string, i int, m map[string]any) Object {
	return Object{data: m, path: o.At(key) + "/" + strconv.Itoa(i)}
}

// escape applies RFC 6901 escaping to a reference token.
func escape(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
