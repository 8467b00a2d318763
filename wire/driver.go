package wire

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"
	"github.com/pkg/errors"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/i18n"
)

// Decode reads a single JSON object from r using goccy/go-json. Numbers are
// kept as json.Number so integer fields never pass through float64.
func Decode(r io.Reader) (Object, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Object{}, contentapi.Issues{{
			Path:    "/",
			Code:    contentapi.CodeParseError,
			Message: i18n.T(contentapi.CodeParseError, nil),
			Cause:   err,
		}}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Object{}, contentapi.NewIssue("/", contentapi.CodeInvalidType, "expected object")
	}
	return NewObject(m), nil
}

// Unmarshal decodes b as a JSON object.
func Unmarshal(b []byte) (Object, error) { return Decode(bytes.NewReader(b)) }

// Marshal encodes o as JSON. Keys come out in lexical order.
func Marshal(o Object) ([]byte, error) {
	b, err := j.Marshal(o.data)
	if err != nil {
		return nil, errors.Wrap(err, "marshal wire object")
	}
	return b, nil
}

// MarshalIndent encodes o as indented JSON.
func MarshalIndent(o Object) ([]byte, error) {
	b, err := j.MarshalIndent(o.data, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal wire object")
	}
	return b, nil
}

// MarshalJSON lets an Object be embedded in other JSON documents.
func (o Object) MarshalJSON() ([]byte, error) { return Marshal(o) }
