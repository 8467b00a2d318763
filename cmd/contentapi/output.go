package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/reoring/contentapi/codec"
	"github.com/reoring/contentapi/wire"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// printer writes codec encodings in one output format.
type printer struct {
	format string
	w      io.Writer
}

func newPrinter(format string, w io.Writer) (printer, error) {
	switch format {
	case formatJSON, formatYAML:
		return printer{format: format, w: w}, nil
	}
	return printer{}, errors.Errorf("unknown output format %q (want json or yaml)", format)
}

func (p printer) item(ctx context.Context, reg *codec.Registry, v any) error {
	obj, err := reg.Encode(ctx, v, codec.Context{Type: true})
	if err != nil {
		return err
	}
	return p.write(obj)
}

func (p printer) list(ctx context.Context, reg *codec.Registry, total int, items []any) error {
	objs := make([]wire.Object, 0, len(items))
	for _, v := range items {
		obj, err := reg.Encode(ctx, v, codec.Context{Snippet: true, Type: true})
		if err != nil {
			return err
		}
		objs = append(objs, obj)
	}
	return p.write(wire.NewBuilder().Set("total", total).Set("items", objs).Object())
}

func (p printer) count(n int) error {
	return p.write(wire.NewBuilder().Set("total", n).Object())
}

func (p printer) write(obj wire.Object) error {
	if p.format == formatYAML {
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(plain(obj.Raw())); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	}
	b, err := wire.MarshalIndent(obj)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.w, "%s\n", b)
	return err
}

// plain rewrites JSON numbers so YAML prints them unquoted.
func plain(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plain(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	case interface{ Int64() (int64, error) }:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, ok := x.(interface{ Float64() (float64, error) }); ok {
			if n, err := f.Float64(); err == nil {
				return n
			}
		}
	}
	return v
}
