package wire

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
	"github.com/pkg/errors"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/i18n"
)

type frame struct {
	object       bool
	path         string
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
}

// child returns the pointer of the value the frame is about to read.
func (f *frame) child() string {
	if f.object {
		return f.path + "/" + escape(f.key)
	}
	return f.path + "/" + strconv.Itoa(f.index)
}

// valueDone advances the frame past one value.
func (f *frame) valueDone() {
	if f.object {
		f.expectingKey = true
		return
	}
	f.index++
}

// Duplicates reports every object key that appears twice in the same object
// of data. The last occurrence wins in a decoded Object, so such a payload is
// ambiguous.
func Duplicates(data []byte) contentapi.Issues {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		iss   contentapi.Issues
		stack []frame
	)
	top := func() *frame {
		if len(stack) == 0 {
			return nil
		}
		return &stack[len(stack)-1]
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return iss
		}
		if err != nil {
			return contentapi.AppendIssues(iss, contentapi.Issue{
				Path:    "/",
				Code:    contentapi.CodeParseError,
				Message: i18n.T(contentapi.CodeParseError, nil),
				Cause:   err,
			})
		}

		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{', '[':
				path := ""
				if f := top(); f != nil {
					path = f.child()
				}
				stack = append(stack, frame{
					object:       v == '{',
					path:         path,
					keys:         map[string]struct{}{},
					expectingKey: v == '{',
				})
			case '}', ']':
				stack = stack[:len(stack)-1]
				if f := top(); f != nil {
					f.valueDone()
				}
			}
		case string:
			f := top()
			if f != nil && f.object && f.expectingKey {
				if _, dup := f.keys[v]; dup {
					iss = contentapi.AppendIssues(iss, contentapi.Issue{
						Path:    f.path + "/" + escape(v),
						Code:    contentapi.CodeDuplicateKey,
						Message: i18n.T(contentapi.CodeDuplicateKey, nil),
						Hint:    v,
					})
				}
				f.keys[v] = struct{}{}
				f.key = v
				f.expectingKey = false
				continue
			}
			if f != nil {
				f.valueDone()
			}
		default:
			if f := top(); f != nil {
				f.valueDone()
			}
		}
	}
}

// DecodeStrict is Decode that also rejects payloads with duplicate keys.
func DecodeStrict(r io.Reader) (Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Object{}, errors.Wrap(err, "read payload")
	}
	if iss := Duplicates(data); len(iss) > 0 {
		return Object{}, iss
	}
	return Unmarshal(data)
}
