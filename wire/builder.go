package wire

// Builder assembles an Object for encoding. The Opt* setters omit empty
// values so optional keys never appear as null or "".
//
// Values are stored in the same shapes the JSON driver produces ([]any,
// map[string]any) so a built Object can be read back without a marshal step.
type Builder struct {
	m map[string]any
}

// NewBuilder starts an empty object.
func NewBuilder() *Builder { return &Builder{m: map[string]any{}} }

// Set stores v under key unconditionally. Objects and slices of Objects are
// stored as their raw maps.
func (b *Builder) Set(key string, v any) *Builder {
	b.m[key] = normalize(v)
	return b
}

// OptString stores s unless it is empty.
func (b *Builder) OptString(key, s string) *Builder {
	if s != "" {
		b.m[key] = s
	}
	return b
}

// OptInt stores n unless it is zero.
func (b *Builder) OptInt(key string, n int) *Builder {
	if n != 0 {
		b.m[key] = n
	}
	return b
}

// OptBool stores v only when true.
func (b *Builder) OptBool(key string, v bool) *Builder {
	if v {
		b.m[key] = true
	}
	return b
}

// OptStrings stores ss unless it is empty.
func (b *Builder) OptStrings(key string, ss []string) *Builder {
	if len(ss) > 0 {
		b.m[key] = normalize(ss)
	}
	return b
}

// OptInts stores ns unless it is empty.
func (b *Builder) OptInts(key string, ns []int) *Builder {
	if len(ns) > 0 {
		b.m[key] = normalize(ns)
	}
	return b
}

// OptChild stores o unless it has no keys.
func (b *Builder) OptChild(key string, o Object) *Builder {
	if o.Len() > 0 {
		b.m[key] = o.data
	}
	return b
}

// OptChildren stores os unless it is empty.
func (b *Builder) OptChildren(key string, os []Object) *Builder {
	if len(os) > 0 {
		b.m[key] = normalize(os)
	}
	return b
}

// Merge copies every key of o into the builder.
func (b *Builder) Merge(o Object) *Builder {
	for k, v := range o.data {
		b.m[k] = v
	}
	return b
}

// Object returns the built object as a payload root.
func (b *Builder) Object() Object { return Object{data: b.m} }

func normalize(v any) any {
	switch t := v.(type) {
	case Object:
		return t.data
	case []Object:
		out := make([]any, len(t))
		for i, o := range t {
			out[i] = o.data
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []int:
		out := make([]any, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out
	}
	return v
}
