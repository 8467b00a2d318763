// Package codec converts between wire objects and the domain model.
//
// A Registry holds one Unit per variant. Decoding asks for a Target: either
// an exact variant ("reference:book", "image") or a family ("reference",
// "model"). Exact targets win; family targets are matched against the
// payload's "type" discriminator. Nothing is ever defaulted: a payload no
// unit claims fails with contentapi.ErrDecodeMismatch.
package codec

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/i18n"
	"github.com/reoring/contentapi/wire"
)

// Target names what a decode call should produce.
type Target string

// Families.
const (
	FamilyAuthor    Target = "author"
	FamilyReference Target = "reference"
	FamilyBlock     Target = "block"
	FamilyModel     Target = "model"
	FamilyArticle   Target = "article"
)

// Plain targets.
const (
	TargetImage                 Target = "image"
	TargetFile                  Target = "file"
	TargetAssetFile             Target = "asset-file"
	TargetAddress               Target = "address"
	TargetPlace                 Target = "place"
	TargetPersonDetails         Target = "person-details"
	TargetPerson                Target = "person"
	TargetSubject               Target = "subject"
	TargetIntervieweeCVLine     Target = "interviewee-cv-line"
	TargetPodcastEpisodeSource  Target = "podcast-episode-source"
	TargetPodcastEpisodeChapter Target = "podcast-episode-chapter"
)

// Variant returns the exact target of a tagged member of family t.
func (t Target) Variant(tag string) Target { return t + ":" + Target(tag) }

// IsFamily reports whether t is a family target.
func (t Target) IsFamily() bool {
	switch t {
	case FamilyAuthor, FamilyReference, FamilyBlock, FamilyModel, FamilyArticle:
		return true
	}
	return false
}

// Unit decodes and encodes the variants it owns.
type Unit interface {
	// Target is the exact target of the unit.
	Target() Target
	// Decodes reports whether the unit claims raw when asked for target.
	Decodes(target Target, raw wire.Object) bool
	// Encodes reports whether v is one of the unit's variants.
	Encodes(v any) bool
	Decode(ctx context.Context, raw wire.Object, c Context) (any, error)
	Encode(ctx context.Context, v any, c Context) (wire.Object, error)
}

// Registry dispatches decode and encode calls to units.
type Registry struct {
	units []Unit
	log   *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns a registry of units, consulted in order.
func NewRegistry(units []Unit, opts ...Option) *Registry {
	r := &Registry{units: units, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register appends units.
func (r *Registry) Register(units ...Unit) { r.units = append(r.units, units...) }

// Decode dispatches raw to the unit claiming target.
func (r *Registry) Decode(ctx context.Context, target Target, raw wire.Object, c Context) (any, error) {
	c.reg = r
	for _, u := range r.units {
		if u.Target() == target {
			return u.Decode(ctx, raw, c)
		}
	}
	if !target.IsFamily() {
		return nil, contentapi.NewIssue(raw.Path(), contentapi.CodeUnsupportedValue, "no unit for "+string(target))
	}
	tag := raw.Type()
	if tag == "" {
		return nil, issue(raw.At("type"), contentapi.CodeDiscriminatorMissing, string(target))
	}
	for _, u := range r.units {
		if u.Decodes(target, raw) {
			return u.Decode(ctx, raw, c)
		}
	}
	r.log.Debug("no variant claims payload",
		zap.String("family", string(target)),
		zap.String("type", tag),
		zap.String("path", raw.Path()))
	return nil, issue(raw.At("type"), contentapi.CodeDiscriminatorUnknown, tag)
}

// Encode dispatches v to the unit owning its variant.
func (r *Registry) Encode(ctx context.Context, v any, c Context) (wire.Object, error) {
	c.reg = r
	for _, u := range r.units {
		if u.Encodes(v) {
			return u.Encode(ctx, v, c)
		}
	}
	return wire.Object{}, contentapi.NewIssue("/", contentapi.CodeUnsupportedValue, fmt.Sprintf("%T", v))
}

// DecodeAs decodes raw and asserts the result type.
func DecodeAs[T any](ctx context.Context, r *Registry, target Target, raw wire.Object, c Context) (T, error) {
	var zero T
	v, err := r.Decode(ctx, target, raw, c)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, contentapi.NewIssue(raw.Path(), contentapi.CodeInvalidType, fmt.Sprintf("%s decoded as %T", target, v))
	}
	return t, nil
}

func issue(path, code, tag string) contentapi.Issues {
	return contentapi.Issues{{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, map[string]string{"tag": tag}),
		Hint:    tag,
	}}
}

// tagOf strips the family prefix of an exact variant target.
func tagOf(t Target) string {
	if i := strings.IndexByte(string(t), ':'); i >= 0 {
		return string(t[i+1:])
	}
	return string(t)
}
