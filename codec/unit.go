package codec

import (
	"context"
	"fmt"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/promise"
	"github.com/reoring/contentapi/wire"
)

// unit is the Unit for a single Go type T.
//
// decode reads fields through a wire.Reader; if the reader collected any
// issue the value is discarded, so a decode never yields a partial model.
type unit[T any] struct {
	target   Target
	families []Target
	matches  func(raw wire.Object) bool
	decode   func(ctx context.Context, r *wire.Reader, c Context) T
	encode   func(e *encoder, v T) *wire.Builder
}

// plain builds a unit addressed only by its exact target.
func plain[T any](target Target, dec func(context.Context, *wire.Reader, Context) T, enc func(*encoder, T) *wire.Builder) *unit[T] {
	return &unit[T]{target: target, decode: dec, encode: enc}
}

// tagged builds a family member selected by "type" == tag.
func tagged[T any](family Target, tag string, dec func(context.Context, *wire.Reader, Context) T, enc func(*encoder, T) *wire.Builder) *unit[T] {
	return &unit[T]{
		target:   family.Variant(tag),
		families: []Target{family},
		matches:  func(raw wire.Object) bool { return raw.Type() == tag },
		decode:   dec,
		encode:   enc,
	}
}

func (u *unit[T]) Target() Target { return u.target }

func (u *unit[T]) Decodes(target Target, raw wire.Object) bool {
	if target == u.target {
		return true
	}
	for _, f := range u.families {
		if f == target {
			return u.matches(raw)
		}
	}
	return false
}

func (u *unit[T]) Encodes(v any) bool {
	_, ok := v.(T)
	return ok
}

func (u *unit[T]) Decode(ctx context.Context, raw wire.Object, c Context) (any, error) {
	r := wire.Read(raw)
	v := u.decode(ctx, r, c)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

func (u *unit[T]) Encode(ctx context.Context, v any, c Context) (wire.Object, error) {
	t, ok := v.(T)
	if !ok {
		return wire.Object{}, contentapi.NewIssue("/", contentapi.CodeUnsupportedValue, fmt.Sprintf("%T", v))
	}
	e := &encoder{ctx: ctx, c: c}
	b := u.encode(e, t)
	if e.err != nil {
		return wire.Object{}, e.err
	}
	return b.Object(), nil
}

// encoder carries the encode context and keeps the first failure.
type encoder struct {
	ctx context.Context
	c   Context
	err error
}

func (e *encoder) fail(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}

// value encodes a nested value through the registry with the same context.
func (e *encoder) value(v any) wire.Object {
	return e.with(e.c, v)
}

func (e *encoder) with(c Context, v any) wire.Object {
	if e.err != nil {
		return wire.Object{}
	}
	o, err := e.c.reg.Encode(e.ctx, v, c)
	e.fail(err)
	return o
}

func encodeAll[T any](e *encoder, vs []T) []wire.Object {
	return encodeAllWith(e, e.c, vs)
}

func encodeAllWith[T any](e *encoder, c Context, vs []T) []wire.Object {
	out := make([]wire.Object, 0, len(vs))
	for _, v := range vs {
		out = append(out, e.with(c, v))
	}
	return out
}

// await forces an optional deferred field.
func await[T any](e *encoder, p *promise.Promise[T]) T {
	v, err := waitPromise(p)
	e.fail(err)
	return v
}

// drain realizes a sequence field; a nil sequence is empty.
func drain[T any](e *encoder, s collection.Sequence[T]) []T {
	if s == nil {
		return nil
	}
	vs, err := s.ToSlice(e.ctx)
	e.fail(err)
	return vs
}

// one decodes a nested object into r's value, recording failures on r.
func one[T any](ctx context.Context, r *wire.Reader, c Context, target Target, raw wire.Object) T {
	v, err := DecodeAs[T](ctx, c.reg, target, raw, c)
	r.Fail(err)
	return v
}

// many decodes every object of raws.
func many[T any](ctx context.Context, r *wire.Reader, c Context, target Target, raws []wire.Object) []T {
	if len(raws) == 0 {
		return nil
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := DecodeAs[T](ctx, c.reg, target, raw, c)
		if err != nil {
			r.Fail(err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// optOne decodes an optional nested object.
func optOne[T any](ctx context.Context, r *wire.Reader, c Context, target Target, key string) *T {
	raw, ok := r.OptChild(key)
	if !ok {
		return nil
	}
	v := one[T](ctx, r, c, target, raw)
	return &v
}
