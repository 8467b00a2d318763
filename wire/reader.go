package wire

import (
	"math"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/i18n"
)

// Reader pulls typed fields out of an Object and accumulates every problem it
// meets as Issues, so a decoder can read all of its fields and check Err once.
type Reader struct {
	obj    Object
	issues contentapi.Issues
	other  error
}

// Read starts reading o.
func Read(o Object) *Reader { return &Reader{obj: o} }

// Object returns the object being read.
func (r *Reader) Object() Object { return r.obj }

// Err returns the accumulated issues, or nil.
func (r *Reader) Err() error {
	if r.other != nil {
		return r.other
	}
	if len(r.issues) == 0 {
		return nil
	}
	return r.issues
}

// Fail records err. Issues are merged; the first error of any other kind
// wins over every issue.
func (r *Reader) Fail(err error) {
	if err == nil {
		return
	}
	if iss, ok := contentapi.AsIssues(err); ok {
		r.issues = contentapi.AppendIssues(r.issues, iss...)
		return
	}
	if r.other == nil {
		r.other = err
	}
}

// Invalid records an invalid_format issue for key.
func (r *Reader) Invalid(key, hint string, cause error) {
	r.issue(key, contentapi.CodeInvalidFormat, hint, cause)
}

func (r *Reader) issue(key, code, hint string, cause error) {
	r.issues = contentapi.AppendIssues(r.issues, contentapi.Issue{
		Path:    r.obj.At(key),
		Code:    code,
		Message: i18n.T(code, nil),
		Hint:    hint,
		Cause:   cause,
	})
}

func (r *Reader) required(key string) (any, bool) {
	v, ok := r.obj.Get(key)
	if !ok {
		r.issue(key, contentapi.CodeRequired, "", nil)
	}
	return v, ok
}

// String reads a required string.
func (r *Reader) String(key string) string {
	v, ok := r.required(key)
	if !ok {
		return ""
	}
	return r.asString(key, v)
}

// OptString reads an optional string; absent is "".
func (r *Reader) OptString(key string) string {
	v, ok := r.obj.Get(key)
	if !ok {
		return ""
	}
	return r.asString(key, v)
}

func (r *Reader) asString(key string, v any) string {
	s, ok := v.(string)
	if !ok {
		r.issue(key, contentapi.CodeInvalidType, "expected string", nil)
	}
	return s
}

// Int reads a required integer.
func (r *Reader) Int(key string) int {
	v, ok := r.required(key)
	if !ok {
		return 0
	}
	return r.asInt(key, v)
}

// OptInt reads an optional integer; absent is 0.
func (r *Reader) OptInt(key string) int {
	v, ok := r.obj.Get(key)
	if !ok {
		return 0
	}
	return r.asInt(key, v)
}

func (r *Reader) asInt(key string, v any) int {
	n, ok := toInt(v)
	if !ok {
		r.issue(key, contentapi.CodeInvalidType, "expected integer", nil)
	}
	return n
}

// Bool reads a required boolean.
func (r *Reader) Bool(key string) bool {
	v, ok := r.required(key)
	if !ok {
		return false
	}
	return r.asBool(key, v)
}

// OptBool reads an optional boolean; absent is false.
func (r *Reader) OptBool(key string) bool {
	v, ok := r.obj.Get(key)
	if !ok {
		return false
	}
	return r.asBool(key, v)
}

func (r *Reader) asBool(key string, v any) bool {
	b, ok := v.(bool)
	if !ok {
		r.issue(key, contentapi.CodeInvalidType, "expected boolean", nil)
	}
	return b
}

// Child reads a required nested object.
func (r *Reader) Child(key string) Object {
	v, ok := r.required(key)
	if !ok {
		return r.obj.child(key, nil)
	}
	m, ok := v.(map[string]any)
	if !ok {
		r.issue(key, contentapi.CodeInvalidType, "expected object", nil)
	}
	return r.obj.child(key, m)
}

// OptChild reads an optional nested object.
func (r *Reader) OptChild(key string) (Object, bool) {
	v, ok := r.obj.Get(key)
	if !ok {
		return Object{}, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		r.issue(key, contentapi.CodeInvalidType, "expected object", nil)
		return Object{}, false
	}
	return r.obj.child(key, m), true
}

// Children reads a required array of objects.
func (r *Reader) Children(key string) []Object {
	v, ok := r.required(key)
	if !ok {
		return nil
	}
	return r.asChildren(key, v)
}

// OptChildren reads an optional array of objects; absent is nil.
func (r *Reader) OptChildren(key string) []Object {
	v, ok := r.obj.Get(key)
	if !ok {
		return nil
	}
	return r.asChildren(key, v)
}

func (r *Reader) asChildren(key string, v any) []Object {
	list, ok := v.([]any)
	if !ok {
		r.issue(key, contentapi.CodeInvalidType, "expected array", nil)
		return nil
	}
	out := make([]Object, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			r.issues = contentapi.AppendIssues(r.issues, contentapi.Issue{
				Path:    r.obj.element(key, i, nil).path,
				Code:    contentapi.CodeInvalidType,
				Message: i18n.T(contentapi.CodeInvalidType, nil),
				Hint:    "expected object",
			})
			continue
		}
		out = append(out, r.obj.element(key, i, m))
	}
	return out
}

// Strings reads a required array of strings.
func (r *Reader) Strings(key string) []string {
	v, ok := r.required(key)
	if !ok {
		return nil
	}
	return r.asStrings(key, v)
}

// OptStrings reads an optional array of strings; absent is nil.
func (r *Reader) OptStrings(key string) []string {
	v, ok := r.obj.Get(key)
	if !ok {
		return nil
	}
	return r.asStrings(key, v)
}

func (r *Reader) asStrings(key string, v any) []string {
	list, ok := v.([]any)
	if !ok {
		r.issue(key, contentapi.CodeInvalidType, "expected array of strings", nil)
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			r.issue(key, contentapi.CodeInvalidType, "expected array of strings", nil)
			return nil
		}
		out = append(out, s)
	}
	return out
}

// OptInts reads an optional array of integers; absent is nil.
func (r *Reader) OptInts(key string) []int {
	v, ok := r.obj.Get(key)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		r.issue(key, contentapi.CodeInvalidType, "expected array of integers", nil)
		return nil
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		n, ok := toInt(item)
		if !ok {
			r.issue(key, contentapi.CodeInvalidType, "expected array of integers", nil)
			return nil
		}
		out = append(out, n)
	}
	return out
}

// toInt accepts the numeric shapes produced by the JSON driver (json.Number),
// by YAML fixtures (int) and by a float64-mode decoder.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case interface{ Int64() (int64, error) }:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
