package codec

import (
	"time"

	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/wire"
)

// TimestampLayout is the wire form of every timestamp: UTC, with fractional
// seconds only when they are non-zero.
const TimestampLayout = "2006-01-02T15:04:05.999999999Z"

// ParseTimestamp accepts any RFC3339 timestamp and normalizes it to UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatTimestamp renders t in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func timestamp(r *wire.Reader, key string) time.Time {
	s := r.String(key)
	if s == "" {
		return time.Time{}
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		r.Invalid(key, "RFC3339 timestamp", err)
	}
	return t
}

func optTimestamp(r *wire.Reader, key string) *time.Time {
	s := r.OptString(key)
	if s == "" {
		return nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		r.Invalid(key, "RFC3339 timestamp", err)
		return nil
	}
	return &t
}

func partialDate(r *wire.Reader, key string) model.Date {
	s := r.String(key)
	if s == "" {
		return model.Date{}
	}
	d, err := model.ParseDate(s)
	if err != nil {
		r.Invalid(key, "YYYY[-MM[-DD]]", err)
	}
	return d
}

func optPartialDate(r *wire.Reader, key string) *model.Date {
	s := r.OptString(key)
	if s == "" {
		return nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		r.Invalid(key, "YYYY[-MM[-DD]]", err)
		return nil
	}
	return &d
}

func setTimestamp(b *wire.Builder, key string, t time.Time) {
	b.Set(key, FormatTimestamp(t))
}

func optSetTimestamp(b *wire.Builder, key string, t *time.Time) {
	if t != nil {
		b.Set(key, FormatTimestamp(*t))
	}
}
