package codec_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/codec"
	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/promise"
	"github.com/reoring/contentapi/wire"
)

// fakeAPI resolves complete records from canned payloads and counts lookups.
type fakeAPI struct {
	reg     *codec.Registry
	records map[string]string
	calls   atomic.Int32
}

func newFakeAPI(records map[string]string) *fakeAPI {
	return &fakeAPI{reg: codec.Default(), records: records}
}

func (f *fakeAPI) Resolve(ctx context.Context, kind contentapi.Kind, id string) *promise.Promise[any] {
	f.calls.Add(1)
	raw, ok := f.records[string(kind)+"/"+id]
	if !ok {
		return promise.Rejected[any](contentapi.ErrNotFound)
	}
	target, err := codec.TargetFor(kind)
	if err != nil {
		return promise.Rejected[any](err)
	}
	obj, err := wire.Unmarshal([]byte(raw))
	if err != nil {
		return promise.Rejected[any](err)
	}
	v, err := f.reg.Decode(ctx, target, obj, codec.Context{Resolver: f})
	return promise.Settle(v, err)
}

func mustObject(t *testing.T, s string) wire.Object {
	t.Helper()
	o, err := wire.Unmarshal([]byte(s))
	require.NoError(t, err)
	return o
}

func mustJSON(t *testing.T, o wire.Object) string {
	t.Helper()
	b, err := wire.Marshal(o)
	require.NoError(t, err)
	return string(b)
}

func issueCodes(t *testing.T, err error) []string {
	t.Helper()
	iss, ok := contentapi.AsIssues(err)
	require.True(t, ok, "want Issues, got %v", err)
	codes := make([]string, 0, len(iss))
	for _, it := range iss {
		codes = append(codes, it.Code)
	}
	return codes
}

const bookReference = `{
	"type": "book",
	"id": "bib1",
	"date": "2013-04",
	"authors": [{"type": "person", "name": {"preferred": "Jane Doe", "index": "Doe, Jane"}}],
	"bookTitle": "Cell Biology",
	"publisher": {"name": ["Academic Press"], "address": {"formatted": ["London", "UK"], "components": {"locality": ["London"], "country": "UK"}}},
	"pmid": 1234
}`

func TestDecodeBookReference(t *testing.T) {
	reg := codec.Default()
	ref, err := codec.DecodeAs[model.Reference](context.Background(), reg, codec.FamilyReference, mustObject(t, bookReference), codec.Context{})
	require.NoError(t, err)

	book, ok := ref.(*model.BookReference)
	require.True(t, ok, "got %T", ref)
	assert.Equal(t, "book", book.ReferenceType())
	assert.Equal(t, "bib1", book.ID)
	assert.Equal(t, model.Date{Year: 2013, Month: 4}, book.Date)
	assert.Equal(t, "Cell Biology", book.BookTitle)
	assert.Equal(t, 1234, book.PMID)
	require.Len(t, book.Authors, 1)
	person, ok := book.Authors[0].(*model.PersonAuthor)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", person.Person.PreferredName)
	require.NotNil(t, book.Publisher.Address)
	assert.Equal(t, "UK", book.Publisher.Address.Country)
	assert.Equal(t, "Academic Press, London, UK", book.Publisher.String())
}

func TestReferenceRoundTrip(t *testing.T) {
	reg := codec.Default()
	ctx := context.Background()
	ref, err := reg.Decode(ctx, codec.FamilyReference, mustObject(t, bookReference), codec.Context{})
	require.NoError(t, err)
	out, err := reg.Encode(ctx, ref, codec.Context{})
	require.NoError(t, err)
	assert.JSONEq(t, bookReference, mustJSON(t, out))
}

func TestVariantRoundTrip(t *testing.T) {
	const person = `{"type": "person", "name": {"preferred": "Ann Lee", "index": "Lee, Ann"}, "orcid": "0000-0002-1825-0097"}`
	const consortium = `{"type": "on-behalf-of", "onBehalfOf": "The Consortium"}`
	const picture = `{
		"alt": "A cell",
		"uri": "https://iiif.example.org/fig1",
		"source": {"mediaType": "image/jpeg", "uri": "https://example.org/fig1.jpg", "filename": "fig1.jpg"},
		"size": {"width": 800, "height": 600},
		"attribution": ["CC-BY"]
	}`

	tests := []struct {
		name    string
		family  codec.Target
		payload string
	}{
		{"journal reference", codec.FamilyReference, `{
			"type": "journal", "id": "bib2", "date": "2010-05-03", "discriminator": "a",
			"authors": [` + person + `], "authorsEtAl": true,
			"articleTitle": "Earlier work", "journal": "Nature",
			"volume": "7", "pages": "1-9", "doi": "10.1038/x", "pmid": 42
		}`},
		{"patent reference", codec.FamilyReference, `{
			"type": "patent", "id": "pat", "date": "1999",
			"inventors": [` + person + `], "inventorsEtAl": true,
			"assignees": [` + consortium + `], "assigneesEtAl": true,
			"title": "Widget", "patentType": "US patent", "country": "United States",
			"number": "US123", "uri": "https://example.org/patent"
		}`},
		{"preprint reference", codec.FamilyReference, `{
			"type": "preprint", "id": "pre", "date": "2019-02",
			"authors": [` + person + `],
			"articleTitle": "Draft", "source": "bioRxiv", "doi": "10.1101/1", "uri": "https://example.org/pre"
		}`},
		{"report reference", codec.FamilyReference, `{
			"type": "report", "id": "rep", "date": "2001",
			"authors": [` + consortium + `], "authorsEtAl": true,
			"title": "Annual report", "publisher": {"name": ["WHO"]},
			"doi": "10.1/rep", "pmid": 7, "isbn": "978-3-16", "uri": "https://example.org/rep"
		}`},
		{"software reference", codec.FamilyReference, `{
			"type": "software", "id": "sw", "date": "2016",
			"authors": [` + person + `],
			"title": "Tool", "publisher": {"name": ["GitHub"]}, "version": "1.2.0", "uri": "https://example.org/sw"
		}`},
		{"thesis reference", codec.FamilyReference, `{
			"type": "thesis", "id": "th", "date": "2008",
			"author": {"name": {"preferred": "Cy Doe", "index": "Doe, Cy"}},
			"title": "On cells",
			"publisher": {"name": ["MIT"], "address": {"formatted": ["Cambridge"], "components": {"locality": ["Cambridge"]}}},
			"doi": "10.1/th", "uri": "https://example.org/th"
		}`},
		{"web reference", codec.FamilyReference, `{
			"type": "web", "id": "web", "date": "2020",
			"authors": [` + person + `],
			"title": "A page", "uri": "https://example.org", "website": "Example", "accessed": "2021-02-03"
		}`},
		{"unknown reference", codec.FamilyReference, `{
			"type": "unknown", "id": "unk", "date": "2000",
			"authors": [` + consortium + `],
			"title": "Misc", "details": "Somewhere", "uri": "https://example.org/unk"
		}`},
		{"person author", codec.FamilyAuthor, `{
			"type": "person", "name": {"preferred": "Ann Lee", "index": "Lee, Ann"}, "deceased": true,
			"additionalInformation": ["Joint first"], "affiliations": [{"name": ["Lab", "University"]}],
			"competingInterests": "None", "contribution": "Wrote it",
			"emailAddresses": ["ann@example.org"], "equalContributionGroups": [1, 2],
			"phoneNumbers": ["+1 555"], "postalAddresses": [{"formatted": ["1 Road", "Town"]}]
		}`},
		{"group author", codec.FamilyAuthor, `{
			"type": "group", "name": "Dinaledi team",
			"people": [` + person + `],
			"affiliations": [{"name": ["Museum"]}], "contribution": "Fieldwork"
		}`},
		{"on-behalf-of author", codec.FamilyAuthor, consortium},
		{"section block", codec.FamilyBlock, `{
			"type": "section", "id": "s1", "title": "Methods",
			"content": [{"type": "paragraph", "text": "We did."}]
		}`},
		{"quote block", codec.FamilyBlock, `{"type": "quote", "text": [{"type": "paragraph", "text": "Quoted."}], "cite": "Someone"}`},
		{"code block", codec.FamilyBlock, `{"type": "code", "code": "x := 1", "language": "go"}`},
		{"list block", codec.FamilyBlock, `{"type": "list", "prefix": "bullet", "items": ["one", "two"]}`},
		{"youtube block", codec.FamilyBlock, `{"type": "youtube", "id": "dQw4w9WgXcQ", "width": 640, "height": 360}`},
		{"image block", codec.FamilyBlock, `{
			"type": "image", "doi": "10.1/fig1", "id": "fig1", "label": "Figure 1", "title": "A figure",
			"caption": [{"type": "paragraph", "text": "Caption."}],
			"image": ` + picture + `,
			"attribution": ["Lab photo"],
			"supplements": [{"label": "Figure 1, supplement 1", "image": ` + picture + `}]
		}`},
	}
	reg := codec.Default()
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := reg.Decode(ctx, tt.family, mustObject(t, tt.payload), codec.Context{})
			require.NoError(t, err)
			out, err := reg.Encode(ctx, v, codec.Context{})
			require.NoError(t, err)
			assert.JSONEq(t, tt.payload, mustJSON(t, out))
		})
	}
}

func TestTimestampKeepsFraction(t *testing.T) {
	tests := map[string]string{
		"2017-01-01T00:00:00Z":      "2017-01-01T00:00:00Z",
		"2017-01-01T00:00:00.5Z":    "2017-01-01T00:00:00.5Z",
		"2017-01-01T09:30:00+09:00": "2017-01-01T00:30:00Z",
		"2017-01-01T00:00:00.250Z":  "2017-01-01T00:00:00.25Z",
	}
	for in, want := range tests {
		ts, err := codec.ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, codec.FormatTimestamp(ts), in)
	}

	_, err := codec.ParseTimestamp("2017-01-01")
	assert.Error(t, err)
}

func TestDecodeDiscriminators(t *testing.T) {
	reg := codec.Default()
	ctx := context.Background()

	tests := []struct {
		name    string
		payload string
		code    string
		path    string
	}{
		{"unknown variant still needs its fields", `{"type":"unknown"}`, contentapi.CodeRequired, "/id"},
		{"unclaimed tag", `{"type":"foo","id":"x"}`, contentapi.CodeDiscriminatorUnknown, "/type"},
		{"missing tag", `{"id":"x"}`, contentapi.CodeDiscriminatorMissing, "/type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := reg.Decode(ctx, codec.FamilyReference, mustObject(t, tt.payload), codec.Context{})
			require.Error(t, err)
			assert.Nil(t, v)
			assert.True(t, errors.Is(err, contentapi.ErrDecodeMismatch))
			iss, _ := contentapi.AsIssues(err)
			require.NotEmpty(t, iss)
			assert.Equal(t, tt.code, iss[0].Code)
			assert.Equal(t, tt.path, iss[0].Path)
		})
	}
}

func TestDecodeNeverYieldsPartialModel(t *testing.T) {
	reg := codec.Default()
	raw := mustObject(t, `{"type":"book","id":"b","date":"2001","authors":[{"type":"person","name":{"preferred":"A"}}],"publisher":{"name":["P"]}}`)
	v, err := reg.Decode(context.Background(), codec.FamilyReference, raw, codec.Context{})
	require.Error(t, err)
	assert.Nil(t, v)

	iss, ok := contentapi.AsIssues(err)
	require.True(t, ok)
	paths := make([]string, 0, len(iss))
	for _, it := range iss {
		paths = append(paths, it.Path)
	}
	assert.Contains(t, paths, "/authors/0/name/index")
	assert.Contains(t, paths, "/bookTitle")
}

func TestDecodeRejectsBadFormats(t *testing.T) {
	reg := codec.Default()
	_, err := reg.Decode(context.Background(), codec.FamilyBlock, mustObject(t, `{"type":"youtube","id":"x","width":"wide","height":1}`), codec.Context{})
	assert.Equal(t, []string{contentapi.CodeInvalidType}, issueCodes(t, err))

	_, err = reg.Decode(context.Background(), codec.FamilyReference,
		mustObject(t, `{"type":"web","id":"w","date":"2020-13","authors":[],"title":"T","uri":"https://example.org"}`), codec.Context{})
	assert.Equal(t, []string{contentapi.CodeInvalidFormat}, issueCodes(t, err))
}

func TestUnsupportedTargets(t *testing.T) {
	reg := codec.Default()
	_, err := reg.Decode(context.Background(), codec.Target("nothing"), mustObject(t, `{}`), codec.Context{})
	assert.Equal(t, []string{contentapi.CodeUnsupportedValue}, issueCodes(t, err))

	_, err = reg.Encode(context.Background(), struct{}{}, codec.Context{})
	assert.Equal(t, []string{contentapi.CodeUnsupportedValue}, issueCodes(t, err))
}

const researchArticle = `{
	"id": "09560",
	"stage": "published",
	"version": 2,
	"type": "research-article",
	"doi": "10.7554/eLife.09560",
	"title": "A new species",
	"published": "2015-09-10T00:00:00Z",
	"versionDate": "2015-09-12T00:00:00Z",
	"statusDate": "2015-09-10T00:00:00Z",
	"volume": 4,
	"elocationId": "e09560",
	"status": "vor",
	"subjects": [{"id": "genomics", "name": "Genomics"}],
	"abstract": {"content": [{"type": "paragraph", "text": "Abstract text."}]},
	"keywords": ["Homo naledi"],
	"authors": [{"type": "group", "name": "Dinaledi team", "people": [{"type": "person", "name": {"preferred": "Lee Berger", "index": "Berger, Lee"}}]}],
	"content": [{"type": "section", "title": "Introduction", "content": [{"type": "paragraph", "text": "Intro."}]}],
	"references": [{"type": "journal", "id": "bib2", "date": "2010", "authors": [{"type": "on-behalf-of", "onBehalfOf": "Consortium"}], "articleTitle": "Earlier", "journal": "Nature"}]
}`

func TestArticleFamily(t *testing.T) {
	reg := codec.Default()
	ctx := context.Background()

	v, err := codec.DecodeAs[model.Article](ctx, reg, codec.FamilyArticle, mustObject(t, researchArticle), codec.Context{})
	require.NoError(t, err)
	vor, ok := v.(*model.ArticleVoR)
	require.True(t, ok, "got %T", v)
	assert.Equal(t, "vor", vor.Status())
	assert.Equal(t, "research-article", vor.ModelType())
	assert.Equal(t, 2, vor.Version)
	assert.Equal(t, time.Date(2015, 9, 10, 0, 0, 0, 0, time.UTC), *vor.Published)

	refs, err := vor.References.ToSlice(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "journal", refs[0].ReferenceType())

	out, err := reg.Encode(ctx, vor, codec.Context{})
	require.NoError(t, err)
	assert.JSONEq(t, researchArticle, mustJSON(t, out))

	poa := `{"id":"1","stage":"preview","version":1,"type":"short-report","doi":"d","title":"t","volume":1,"elocationId":"e1","status":"poa"}`
	v, err = codec.DecodeAs[model.Article](ctx, reg, codec.FamilyArticle, mustObject(t, poa), codec.Context{})
	require.NoError(t, err)
	assert.IsType(t, &model.ArticlePoA{}, v)

	bad := `{"id":"1","stage":"preview","version":1,"type":"research-article","doi":"d","title":"t","volume":1,"elocationId":"e1","status":"draft"}`
	_, err = reg.Decode(ctx, codec.FamilyArticle, mustObject(t, bad), codec.Context{})
	assert.Equal(t, []string{contentapi.CodeDiscriminatorUnknown}, issueCodes(t, err))
}

const eventSnippet = `{
	"id": "e1",
	"title": "Webinar",
	"published": "2017-01-01T10:00:00Z",
	"starts": "2017-02-01T10:00:00Z",
	"ends": "2017-02-01T12:00:00Z",
	"timezone": "Europe/London"
}`

const eventComplete = `{
	"id": "e1",
	"title": "Webinar",
	"published": "2017-01-01T10:00:00Z",
	"starts": "2017-02-01T10:00:00Z",
	"ends": "2017-02-01T12:00:00Z",
	"timezone": "Europe/London",
	"content": [{"type": "paragraph", "text": "Join us."}, {"type": "code", "code": "x := 1", "language": "go"}]
}`

func TestSnippetDefersHeavyFields(t *testing.T) {
	api := newFakeAPI(map[string]string{"events/e1": eventComplete})
	reg := codec.Default()
	ctx := context.Background()

	ev, err := codec.DecodeAs[*model.Event](ctx, reg, codec.FamilyModel.Variant("event"), mustObject(t, eventSnippet),
		codec.Context{Snippet: true, Resolver: api})
	require.NoError(t, err)
	assert.Equal(t, int32(0), api.calls.Load(), "decode must not fetch deferred fields")

	out, err := reg.Encode(ctx, ev, codec.Context{Snippet: true})
	require.NoError(t, err)
	assert.JSONEq(t, eventSnippet, mustJSON(t, out))
	assert.Equal(t, int32(0), api.calls.Load(), "snippet encode must not force deferred fields")

	content, err := ev.Content.ToSlice(ctx)
	require.NoError(t, err)
	require.Len(t, content, 2)
	assert.Equal(t, int32(1), api.calls.Load())

	_, err = ev.Content.ToSlice(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.calls.Load(), "deferred field resolves once")

	out, err = reg.Encode(ctx, ev, codec.Context{})
	require.NoError(t, err)
	assert.JSONEq(t, eventComplete, mustJSON(t, out))
}

func TestDeferredFieldWithoutResolver(t *testing.T) {
	reg := codec.Default()
	ctx := context.Background()
	ev, err := codec.DecodeAs[*model.Event](ctx, reg, codec.FamilyModel.Variant("event"), mustObject(t, eventSnippet),
		codec.Context{Snippet: true})
	require.NoError(t, err)
	_, err = ev.Content.ToSlice(ctx)
	assert.ErrorIs(t, err, codec.ErrNoResolver)
}

func TestCompleteRecordWithoutOptionalList(t *testing.T) {
	reg := codec.Default()
	ctx := context.Background()
	ev, err := codec.DecodeAs[*model.Event](ctx, reg, codec.FamilyModel.Variant("event"), mustObject(t, eventSnippet), codec.Context{})
	require.NoError(t, err)
	n, err := ev.Content.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

const subjectComplete = `{
	"id": "neuroscience",
	"name": "Neuroscience",
	"impactStatement": "Brains.",
	"image": {
		"banner": {"alt": "", "uri": "https://iiif/banner.jpg", "source": {"mediaType": "image/jpeg", "uri": "https://cdn/banner.jpg", "filename": "banner.jpg"}, "size": {"width": 1800, "height": 900}},
		"thumbnail": {"alt": "", "uri": "https://iiif/thumb.jpg", "source": {"mediaType": "image/jpeg", "uri": "https://cdn/thumb.jpg"}, "size": {"width": 140, "height": 140}, "attribution": ["Someone"]}
	}
}`

const blogArticleComplete = `{
	"id": "b1",
	"title": "Inside eLife",
	"published": "2016-07-01T08:30:15Z",
	"updated": "2016-07-02T08:30:15Z",
	"subjects": ["neuroscience"],
	"content": [{"type": "quote", "text": [{"type": "paragraph", "text": "Quoted."}], "cite": "Someone"}, {"type": "list", "prefix": "bullet", "items": ["one", "two"]}]
}`

func TestBlogArticleSubjectsResolveByID(t *testing.T) {
	api := newFakeAPI(map[string]string{"subjects/neuroscience": subjectComplete})
	reg := codec.Default()
	ctx := context.Background()

	b, err := codec.DecodeAs[*model.BlogArticle](ctx, reg, codec.FamilyModel.Variant("blog-article"),
		mustObject(t, blogArticleComplete), codec.Context{Resolver: api})
	require.NoError(t, err)
	assert.Equal(t, int32(0), api.calls.Load())

	subjects, err := b.Subjects.ToSlice(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Neuroscience", subjects[0].Name)
	thumb, err := subjects[0].Thumbnail.Wait()
	require.NoError(t, err)
	assert.Equal(t, 140, thumb.Width)

	out, err := reg.Encode(ctx, b, codec.Context{})
	require.NoError(t, err)
	assert.JSONEq(t, blogArticleComplete, mustJSON(t, out))
}

func TestBlogArticleMissingSubject(t *testing.T) {
	api := newFakeAPI(nil)
	reg := codec.Default()
	ctx := context.Background()
	b, err := codec.DecodeAs[*model.BlogArticle](ctx, reg, codec.FamilyModel.Variant("blog-article"),
		mustObject(t, blogArticleComplete), codec.Context{Resolver: api})
	require.NoError(t, err)
	_, err = b.Subjects.ToSlice(ctx)
	assert.ErrorIs(t, err, contentapi.ErrNotFound)
}

const collectionComplete = `{
	"id": "tropical-disease",
	"title": "Tropical disease",
	"subTitle": "Highlights",
	"published": "2015-09-16T11:19:26Z",
	"image": {
		"banner": {"alt": "", "uri": "https://iiif/c-banner.jpg", "source": {"mediaType": "image/jpeg", "uri": "https://cdn/c-banner.jpg"}, "size": {"width": 1800, "height": 900}},
		"thumbnail": {"alt": "", "uri": "https://iiif/c-thumb.jpg", "source": {"mediaType": "image/jpeg", "uri": "https://cdn/c-thumb.jpg"}, "size": {"width": 140, "height": 140}}
	},
	"subjects": [{"id": "epidemiology", "name": "Epidemiology"}],
	"selectedCurator": {"id": "pjanuary", "type": "senior-editor", "name": {"preferred": "Prabhat Jha", "index": "Jha, Prabhat"}},
	"selectedCuratorEtAl": true,
	"curators": [{"id": "pjanuary", "type": "senior-editor", "name": {"preferred": "Prabhat Jha", "index": "Jha, Prabhat"}}],
	"summary": [{"type": "paragraph", "text": "Summary."}],
	"content": [
		{"type": "blog-article", "id": "b2", "title": "Post", "published": "2016-01-01T00:00:00Z"},
		{"type": "research-article", "status": "poa", "id": "09561", "stage": "published", "version": 1, "doi": "10.7554/eLife.09561", "title": "Paper", "volume": 4, "elocationId": "e09561"},
		{"type": "interview", "id": "i1", "title": "Chat", "published": "2016-01-01T00:00:00Z", "interviewee": {"name": {"preferred": "Ada", "index": "Ada"}}}
	],
	"podcastEpisodes": [{
		"type": "podcast-episode", "number": 29, "title": "Episode 29", "published": "2016-07-01T00:00:00Z",
		"image": {"thumbnail": {"alt": "", "uri": "https://iiif/p.jpg", "source": {"mediaType": "image/jpeg", "uri": "https://cdn/p.jpg"}, "size": {"width": 140, "height": 140}}},
		"sources": [{"mediaType": "audio/mpeg", "uri": "https://cdn/29.mp3"}]
	}]
}`

func TestCollectionRoundTrip(t *testing.T) {
	reg := codec.Default()
	ctx := context.Background()
	api := newFakeAPI(nil)

	c, err := codec.DecodeAs[*model.Collection](ctx, reg, codec.FamilyModel.Variant("collection"),
		mustObject(t, collectionComplete), codec.Context{Resolver: api})
	require.NoError(t, err)

	title, err := c.FullTitle()
	require.NoError(t, err)
	assert.Equal(t, "Tropical disease: Highlights", title)

	content, err := c.Content.ToSlice(ctx)
	require.NoError(t, err)
	require.Len(t, content, 3)
	assert.IsType(t, &model.BlogArticle{}, content[0])
	assert.IsType(t, &model.ArticlePoA{}, content[1])
	assert.IsType(t, &model.Interview{}, content[2])

	episodes, err := c.PodcastEpisodes.ToSlice(ctx)
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, "29", episodes[0].ModelID())

	out, err := reg.Encode(ctx, c, codec.Context{})
	require.NoError(t, err)
	assert.JSONEq(t, collectionComplete, mustJSON(t, out))
	assert.Equal(t, int32(0), api.calls.Load(), "embedded snippets encode without their heavy fields")
}

const interviewComplete = `{
	"id": "i1",
	"title": "Chat",
	"published": "2016-01-01T00:00:00Z",
	"interviewee": {
		"name": {"preferred": "Ada", "index": "Ada"},
		"orcid": "0000-0002-1825-0097",
		"cv": [{"date": "2010", "text": "PhD"}]
	},
	"content": [{"type": "youtube", "id": "abc", "width": 640, "height": 360}]
}`

func TestInterviewSnippetResolvesCV(t *testing.T) {
	api := newFakeAPI(map[string]string{"interviews/i1": interviewComplete})
	reg := codec.Default()
	ctx := context.Background()

	snippet := `{"id":"i1","title":"Chat","published":"2016-01-01T00:00:00Z","interviewee":{"name":{"preferred":"Ada","index":"Ada"},"orcid":"0000-0002-1825-0097"}}`
	iv, err := codec.DecodeAs[*model.Interview](ctx, reg, codec.FamilyModel.Variant("interview"),
		mustObject(t, snippet), codec.Context{Snippet: true, Resolver: api})
	require.NoError(t, err)

	cv, err := iv.Interviewee.CV.ToSlice(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.IntervieweeCVLine{{Date: "2010", Text: "PhD"}}, cv)

	out, err := reg.Encode(ctx, iv, codec.Context{})
	require.NoError(t, err)
	assert.JSONEq(t, interviewComplete, mustJSON(t, out))
}

func TestPersonSnippetDefersProfile(t *testing.T) {
	complete := `{"id":"p1","type":"reviewing-editor","name":{"preferred":"Ed","index":"Ed"},"profile":[{"type":"paragraph","text":"Bio."}],"competingInterests":"None."}`
	api := newFakeAPI(map[string]string{"people/p1": complete})
	reg := codec.Default()
	ctx := context.Background()

	p, err := codec.DecodeAs[*model.Person](ctx, reg, codec.TargetPerson,
		mustObject(t, `{"id":"p1","type":"reviewing-editor","name":{"preferred":"Ed","index":"Ed"}}`),
		codec.Context{Snippet: true, Resolver: api})
	require.NoError(t, err)

	ci, err := p.CompetingInterests.Wait()
	require.NoError(t, err)
	assert.Equal(t, "None.", ci)

	out, err := reg.Encode(ctx, p, codec.Context{})
	require.NoError(t, err)
	assert.JSONEq(t, complete, mustJSON(t, out))
}

func TestTargetFor(t *testing.T) {
	for _, k := range contentapi.Kinds() {
		target, err := codec.TargetFor(k)
		require.NoError(t, err, k)
		assert.NotEmpty(t, target)
	}
	_, err := codec.TargetFor("widgets")
	assert.Error(t, err)
}
