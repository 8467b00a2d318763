package memory

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/wire"
)

// Fixture is one record of a fixtures file. Snippet defaults to Item.
type Fixture struct {
	Item    map[string]any `yaml:"item"`
	Snippet map[string]any `yaml:"snippet,omitempty"`
}

// Fixtures maps a kind name to its records, in listing order.
type Fixtures map[string][]Fixture

// Load reads YAML fixtures into t.
func (t *Transport) Load(r io.Reader) error {
	var fx Fixtures
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return errors.Wrap(err, "memory: decode fixtures")
	}
	for name, records := range fx {
		kind, err := contentapi.ParseKind(name)
		if err != nil {
			return errors.Wrap(err, "memory")
		}
		for i, f := range records {
			if f.Item == nil {
				return errors.Errorf("memory: %s[%d]: missing item", name, i)
			}
			item := wire.NewObject(normalize(f.Item).(map[string]any))
			snippet := item
			if f.Snippet != nil {
				snippet = wire.NewObject(normalize(f.Snippet).(map[string]any))
			}
			if err := t.AddWithSnippet(kind, item, snippet); err != nil {
				return errors.Wrapf(err, "%s[%d]", name, i)
			}
		}
	}
	return nil
}

// LoadFile reads YAML fixtures from path into a new Transport.
func LoadFile(path string, opts ...Option) (*Transport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "memory")
	}
	defer f.Close()
	t := New(opts...)
	if err := t.Load(f); err != nil {
		return nil, err
	}
	return t, nil
}

// normalize rewrites YAML values into the shapes the JSON driver produces.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	}
	return v
}
