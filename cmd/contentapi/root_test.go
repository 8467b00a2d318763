package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const fixtures = `
events:
  - item:
      id: e1
      type: open
      title: Open day
      published: 2017-01-01T00:00:00Z
      starts: 2017-02-01T09:00:00Z
      ends: 2017-02-01T17:00:00Z
      content:
        - type: paragraph
          text: Come along.
    snippet:
      id: e1
      type: open
      title: Open day
      published: 2017-01-01T00:00:00Z
      starts: 2017-02-01T09:00:00Z
      ends: 2017-02-01T17:00:00Z
  - item:
      id: e2
      type: closed
      title: Board meeting
      published: 2017-01-02T00:00:00Z
      starts: 2017-03-01T09:00:00Z
      ends: 2017-03-01T10:00:00Z
  - item:
      id: e3
      type: open
      title: Webinar
      published: 2017-01-03T00:00:00Z
      starts: 2017-04-01T09:00:00Z
      ends: 2017-04-01T10:00:00Z
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtures), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--fixtures", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestListPrintsSnippets(t *testing.T) {
	out, err := run(t, "events", "list", "--per-page", "2")
	require.NoError(t, err)

	var page struct {
		Total int              `json:"total"`
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "e3", page.Items[0]["id"])
	assert.Equal(t, "event", page.Items[0]["type"])
	assert.NotContains(t, page.Items[0], "content")
}

func TestListSecondPageAscending(t *testing.T) {
	out, err := run(t, "events", "list", "--per-page", "2", "--page", "2", "--asc")
	require.NoError(t, err)
	assert.Contains(t, out, `"e3"`)
	assert.NotContains(t, out, `"e1"`)
}

func TestCountByType(t *testing.T) {
	out, err := run(t, "events", "count", "--type", "open")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 2}`, out)
}

func TestGetPrintsCompleteRecord(t *testing.T) {
	out, err := run(t, "events", "get", "e1")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "event",
		"id": "e1",
		"title": "Open day",
		"published": "2017-01-01T00:00:00Z",
		"starts": "2017-02-01T09:00:00Z",
		"ends": "2017-02-01T17:00:00Z",
		"content": [{"type": "paragraph", "text": "Come along."}]
	}`, out)
}

func TestYAMLOutput(t *testing.T) {
	out, err := run(t, "--output", "yaml", "events", "count")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got["total"])
}

func TestErrors(t *testing.T) {
	tests := map[string][]string{
		"missing record":    {"events", "get", "nope"},
		"unknown format":    {"--output", "xml", "events", "count"},
		"type on non-event": {"blog-articles", "list", "--type", "open"},
		"bad page":          {"events", "list", "--page", "0"},
		"oversized page":    {"events", "list", "--per-page", "101"},
		"missing id":        {"events", "get"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestConfigUsage(t *testing.T) {
	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "CONTENTAPI_BASE_URL")
}
