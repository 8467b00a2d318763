package client_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/client"
	"github.com/reoring/contentapi/codec"
	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/transport/memory"
	"github.com/reoring/contentapi/wire"
)

func image(name string) map[string]any {
	return map[string]any{
		"alt":    "",
		"uri":    "https://iiif/" + name,
		"source": map[string]any{"mediaType": "image/jpeg", "uri": "https://cdn/" + name + ".jpg"},
		"size":   map[string]any{"width": 140, "height": 140},
	}
}

func subject(id, name string) wire.Object {
	return wire.NewObject(map[string]any{
		"id":              id,
		"name":            name,
		"impactStatement": "About " + name + ".",
		"image":           map[string]any{"banner": image(id + "-banner"), "thumbnail": image(id + "-thumb")},
	})
}

func blogArticle(i int, subjects ...string) (complete, snippet wire.Object) {
	ids := make([]any, len(subjects))
	for j, s := range subjects {
		ids[j] = s
	}
	m := map[string]any{
		"id":        fmt.Sprintf("b%d", i),
		"title":     fmt.Sprintf("Blog %d", i),
		"published": stamp(i),
		"subjects":  ids,
	}
	s := wire.NewObject(m)
	c := s.With("content", []any{map[string]any{"type": "paragraph", "text": fmt.Sprintf("Post %d.", i)}})
	return c, s
}

func seedBlog(t *testing.T) (*client.SDK, *memory.Transport) {
	t.Helper()
	tr := memory.New()
	require.NoError(t, tr.Add(contentapi.KindSubjects, subject("genomics", "Genomics")))
	require.NoError(t, tr.Add(contentapi.KindSubjects, subject("neuroscience", "Neuroscience")))
	for i, subjects := range [][]string{{"genomics", "neuroscience"}, {"genomics"}} {
		c, s := blogArticle(i+1, subjects...)
		require.NoError(t, tr.AddWithSnippet(contentapi.KindBlogArticles, c, s))
	}
	return client.New(tr), tr
}

func TestCrossReferencesShareItemCache(t *testing.T) {
	sdk, tr := seedBlog(t)
	ctx := context.Background()

	posts, err := sdk.BlogArticles.ToSlice(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Empty(t, tr.CallsOf(memory.OpOne, contentapi.KindSubjects), "subjects resolve on demand")

	var names []string
	for _, p := range posts {
		subjects, err := p.Subjects.ToSlice(ctx)
		require.NoError(t, err)
		for _, s := range subjects {
			names = append(names, s.Name)
		}
	}
	assert.Equal(t, []string{"Genomics", "Genomics", "Neuroscience"}, names)
	assert.Len(t, tr.CallsOf(memory.OpOne, contentapi.KindSubjects), 2, "each subject is fetched once")

	g, err := sdk.Subjects.Get(ctx, "genomics").Wait()
	require.NoError(t, err)
	statement, err := g.ImpactStatement.Wait()
	require.NoError(t, err)
	assert.Equal(t, "About Genomics.", statement)
	assert.Len(t, tr.CallsOf(memory.OpOne, contentapi.KindSubjects), 2)
}

func TestSDKGet(t *testing.T) {
	sdk, _ := seedBlog(t)
	ctx := context.Background()

	v, err := sdk.Get(ctx, contentapi.KindSubjects, "neuroscience").Wait()
	require.NoError(t, err)
	s, ok := v.(model.Subject)
	require.True(t, ok)
	assert.Equal(t, "Neuroscience", s.Name)

	_, err = sdk.Get(ctx, contentapi.KindBlogArticles, "missing").Wait()
	assert.ErrorIs(t, err, contentapi.ErrNotFound)

	_, err = sdk.Get(ctx, contentapi.Kind("widgets"), "x").Wait()
	assert.Error(t, err)
}

func TestCompleteRecordRoundTrip(t *testing.T) {
	sdk, _ := seedBlog(t)
	ctx := context.Background()

	post, err := sdk.BlogArticles.Get(ctx, "b1").Wait()
	require.NoError(t, err)
	out, err := sdk.Registry().Encode(ctx, post, codec.Context{})
	require.NoError(t, err)

	want, _ := blogArticle(1, "genomics", "neuroscience")
	wantJSON, err := wire.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := wire.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
}

func TestSnippetEncodingOmitsHeavyFields(t *testing.T) {
	sdk, tr := seedBlog(t)
	ctx := context.Background()

	post, err := firstPost(ctx, sdk.BlogArticles)
	require.NoError(t, err)
	out, err := sdk.Registry().Encode(ctx, post, codec.Context{Snippet: true, Type: true})
	require.NoError(t, err)
	assert.False(t, out.Has("content"))
	assert.Equal(t, "blog-article", out.Type())
	assert.Empty(t, tr.CallsOf(memory.OpOne, contentapi.KindBlogArticles))
}

func firstPost(ctx context.Context, r client.BlogArticles) (*model.BlogArticle, error) {
	posts, err := r.Slice(ctx, 0, 1).ToSlice(ctx)
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}
