package codec

import (
	"context"
	"strconv"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/promise"
	"github.com/reoring/contentapi/wire"
)

func contentUnits() []Unit {
	return []Unit{
		tagged(FamilyModel, "blog-article", decodeBlogArticle, encodeBlogArticle),
		tagged(FamilyModel, "collection", decodeCollection, encodeCollection),
		tagged(FamilyModel, "event", decodeEvent, encodeEvent),
		tagged(FamilyModel, "interview", decodeInterview, encodeInterview),
		tagged(FamilyModel, "podcast-episode", decodePodcastEpisode, encodePodcastEpisode),
	}
}

// ref addresses the complete record a snippet's heavy fields come from.
type ref struct {
	kind contentapi.Kind
	id   string
}

// heavy decodes a list field eagerly when the payload carries it or the
// context is complete. A snippet without it defers the field to the
// complete record at.
func heavy[M, E any](ctx context.Context, r *wire.Reader, c, dc Context, at ref, key string, target Target, pick func(M) collection.Sequence[E]) collection.Sequence[E] {
	if c.Snippet && !r.Object().Has(key) {
		return laterSeq(ctx, c, at.kind, at.id, pick)
	}
	return collection.FromSlice(many[E](ctx, r, dc, target, r.OptChildren(key)))
}

func typed(e *encoder, tag string) *wire.Builder {
	b := wire.NewBuilder()
	if e.c.Type {
		b.Set("type", tag)
	}
	return b
}

func decodeBlogArticle(ctx context.Context, r *wire.Reader, c Context) *model.BlogArticle {
	b := &model.BlogArticle{
		ID:              r.String("id"),
		Title:           r.String("title"),
		ImpactStatement: r.OptString("impactStatement"),
		Published:       timestamp(r, "published"),
		Updated:         optTimestamp(r, "updated"),
		Subjects:        subjectsByID(ctx, c, r.OptStrings("subjects")),
	}
	b.Content = heavy(ctx, r, c, c, ref{contentapi.KindBlogArticles, b.ID}, "content", FamilyBlock,
		func(m *model.BlogArticle) collection.Sequence[model.Block] { return m.Content })
	return b
}

func encodeBlogArticle(e *encoder, b *model.BlogArticle) *wire.Builder {
	out := typed(e, "blog-article").
		Set("id", b.ID).
		Set("title", b.Title).
		OptString("impactStatement", b.ImpactStatement)
	setTimestamp(out, "published", b.Published)
	optSetTimestamp(out, "updated", b.Updated)
	subjects := drain(e, b.Subjects)
	ids := make([]string, 0, len(subjects))
	for _, s := range subjects {
		ids = append(ids, s.ID)
	}
	out.OptStrings("subjects", ids)
	if !e.c.Snippet {
		out.OptChildren("content", encodeAll(e, drain(e, b.Content)))
	}
	return out
}

// subjectsByID cross-references subjects listed by id. Each lookup goes
// through the resolver when the sequence is first forced.
func subjectsByID(ctx context.Context, c Context, ids []string) collection.Sequence[model.Subject] {
	if len(ids) == 0 {
		return collection.Empty[model.Subject]()
	}
	ps := make([]*promise.Promise[model.Subject], len(ids))
	for i, id := range ids {
		ps[i] = lookup[model.Subject](ctx, c, contentapi.KindSubjects, id)
	}
	return collection.FromPromise(promise.All(ps...))
}

func decodeCollection(ctx context.Context, r *wire.Reader, c Context) *model.Collection {
	m := &model.Collection{
		ID:                  r.String("id"),
		Title:               r.String("title"),
		ImpactStatement:     r.OptString("impactStatement"),
		Published:           timestamp(r, "published"),
		Updated:             optTimestamp(r, "updated"),
		Subjects:            many[model.Subject](ctx, r, c.embedded(), TargetSubject, r.OptChildren("subjects")),
		SelectedCurator:     one[*model.Person](ctx, r, c.embedded(), TargetPerson, r.Child("selectedCurator")),
		SelectedCuratorEtAl: r.OptBool("selectedCuratorEtAl"),
	}
	at := ref{contentapi.KindCollections, m.ID}

	img := wire.Read(r.Child("image"))
	m.Thumbnail = one[model.Image](ctx, img, c, TargetImage, img.Child("thumbnail"))
	if c.Snippet && !img.Object().Has("banner") {
		m.Banner = laterValue(ctx, c, at.kind, at.id, func(full *model.Collection) (model.Image, error) {
			return waitPromise(full.Banner)
		})
	} else {
		m.Banner = promise.Resolved(one[model.Image](ctx, img, c, TargetImage, img.Child("banner")))
	}
	r.Fail(img.Err())

	if c.Snippet && !r.Object().Has("subTitle") {
		m.SubTitle = laterValue(ctx, c, at.kind, at.id, func(full *model.Collection) (string, error) {
			return waitPromise(full.SubTitle)
		})
	} else {
		m.SubTitle = promise.Resolved(r.OptString("subTitle"))
	}

	m.Curators = heavy(ctx, r, c, c.embedded(), at, "curators", TargetPerson,
		func(full *model.Collection) collection.Sequence[*model.Person] { return full.Curators })
	m.Summary = heavy(ctx, r, c, c, at, "summary", FamilyBlock,
		func(full *model.Collection) collection.Sequence[model.Block] { return full.Summary })
	m.Content = heavy(ctx, r, c, c.embedded(), at, "content", FamilyModel,
		func(full *model.Collection) collection.Sequence[model.Model] { return full.Content })
	m.RelatedContent = heavy(ctx, r, c, c.embedded(), at, "relatedContent", FamilyModel,
		func(full *model.Collection) collection.Sequence[model.Model] { return full.RelatedContent })
	m.PodcastEpisodes = heavy(ctx, r, c, c.embedded(), at, "podcastEpisodes", FamilyModel.Variant("podcast-episode"),
		func(full *model.Collection) collection.Sequence[*model.PodcastEpisode] { return full.PodcastEpisodes })
	return m
}

func encodeCollection(e *encoder, m *model.Collection) *wire.Builder {
	b := typed(e, "collection").
		Set("id", m.ID).
		Set("title", m.Title).
		OptString("impactStatement", m.ImpactStatement).
		OptChildren("subjects", encodeAllWith(e, e.c.embedded(), m.Subjects)).
		OptBool("selectedCuratorEtAl", m.SelectedCuratorEtAl)
	setTimestamp(b, "published", m.Published)
	optSetTimestamp(b, "updated", m.Updated)
	if m.SelectedCurator != nil {
		b.Set("selectedCurator", e.with(e.c.embedded(), m.SelectedCurator))
	}
	img := wire.NewBuilder().Set("thumbnail", e.value(m.Thumbnail))
	if !e.c.Snippet {
		img.Set("banner", e.value(await(e, m.Banner)))
		b.OptString("subTitle", await(e, m.SubTitle))
		b.OptChildren("curators", encodeAllWith(e, e.c.embedded(), drain(e, m.Curators)))
		b.OptChildren("summary", encodeAll(e, drain(e, m.Summary)))
		b.OptChildren("content", encodeAllWith(e, e.c.embedded(), drain(e, m.Content)))
		b.OptChildren("relatedContent", encodeAllWith(e, e.c.embedded(), drain(e, m.RelatedContent)))
		b.OptChildren("podcastEpisodes", encodeAllWith(e, e.c.embedded(), drain(e, m.PodcastEpisodes)))
	}
	return b.Set("image", img.Object())
}

func decodeEvent(ctx context.Context, r *wire.Reader, c Context) *model.Event {
	ev := &model.Event{
		ID:              r.String("id"),
		Title:           r.String("title"),
		ImpactStatement: r.OptString("impactStatement"),
		Published:       timestamp(r, "published"),
		Updated:         optTimestamp(r, "updated"),
		Starts:          timestamp(r, "starts"),
		Ends:            timestamp(r, "ends"),
		TimeZone:        r.OptString("timezone"),
		URI:             r.OptString("uri"),
	}
	ev.Content = heavy(ctx, r, c, c, ref{contentapi.KindEvents, ev.ID}, "content", FamilyBlock,
		func(m *model.Event) collection.Sequence[model.Block] { return m.Content })
	return ev
}

func encodeEvent(e *encoder, ev *model.Event) *wire.Builder {
	b := typed(e, "event").
		Set("id", ev.ID).
		Set("title", ev.Title).
		OptString("impactStatement", ev.ImpactStatement).
		OptString("timezone", ev.TimeZone).
		OptString("uri", ev.URI)
	setTimestamp(b, "published", ev.Published)
	optSetTimestamp(b, "updated", ev.Updated)
	setTimestamp(b, "starts", ev.Starts)
	setTimestamp(b, "ends", ev.Ends)
	if !e.c.Snippet {
		b.OptChildren("content", encodeAll(e, drain(e, ev.Content)))
	}
	return b
}

func decodeInterview(ctx context.Context, r *wire.Reader, c Context) *model.Interview {
	iv := &model.Interview{
		ID:              r.String("id"),
		Title:           r.String("title"),
		ImpactStatement: r.OptString("impactStatement"),
		Published:       timestamp(r, "published"),
		Updated:         optTimestamp(r, "updated"),
	}
	at := ref{contentapi.KindInterviews, iv.ID}

	ir := wire.Read(r.Child("interviewee"))
	iv.Interviewee.Person = decodePersonDetails(ctx, ir, c)
	iv.Interviewee.CV = heavy(ctx, ir, c, c, at, "cv", TargetIntervieweeCVLine,
		func(m *model.Interview) collection.Sequence[model.IntervieweeCVLine] { return m.Interviewee.CV })
	r.Fail(ir.Err())

	iv.Content = heavy(ctx, r, c, c, at, "content", FamilyBlock,
		func(m *model.Interview) collection.Sequence[model.Block] { return m.Content })
	return iv
}

func encodeInterview(e *encoder, iv *model.Interview) *wire.Builder {
	who := wire.NewBuilder().Merge(e.value(iv.Interviewee.Person))
	b := typed(e, "interview").
		Set("id", iv.ID).
		Set("title", iv.Title).
		OptString("impactStatement", iv.ImpactStatement)
	setTimestamp(b, "published", iv.Published)
	optSetTimestamp(b, "updated", iv.Updated)
	if !e.c.Snippet {
		who.OptChildren("cv", encodeAll(e, drain(e, iv.Interviewee.CV)))
		b.OptChildren("content", encodeAll(e, drain(e, iv.Content)))
	}
	return b.Set("interviewee", who.Object())
}

func decodePodcastEpisode(ctx context.Context, r *wire.Reader, c Context) *model.PodcastEpisode {
	ep := &model.PodcastEpisode{
		Number:          r.Int("number"),
		Title:           r.String("title"),
		ImpactStatement: r.OptString("impactStatement"),
		Published:       timestamp(r, "published"),
		Updated:         optTimestamp(r, "updated"),
		Sources:         many[model.PodcastEpisodeSource](ctx, r, c, TargetPodcastEpisodeSource, r.Children("sources")),
		Subjects:        many[model.Subject](ctx, r, c.embedded(), TargetSubject, r.OptChildren("subjects")),
	}
	at := ref{contentapi.KindPodcastEpisodes, strconv.Itoa(ep.Number)}

	img := wire.Read(r.Child("image"))
	ep.Thumbnail = one[model.Image](ctx, img, c, TargetImage, img.Child("thumbnail"))
	if c.Snippet && !img.Object().Has("banner") {
		ep.Banner = laterValue(ctx, c, at.kind, at.id, func(full *model.PodcastEpisode) (model.Image, error) {
			return waitPromise(full.Banner)
		})
	} else {
		ep.Banner = promise.Resolved(one[model.Image](ctx, img, c, TargetImage, img.Child("banner")))
	}
	r.Fail(img.Err())

	ep.Chapters = heavy(ctx, r, c, c, at, "chapters", TargetPodcastEpisodeChapter,
		func(full *model.PodcastEpisode) collection.Sequence[model.PodcastEpisodeChapter] {
			return full.Chapters
		})
	return ep
}

func encodePodcastEpisode(e *encoder, ep *model.PodcastEpisode) *wire.Builder {
	b := typed(e, "podcast-episode").
		Set("number", ep.Number).
		Set("title", ep.Title).
		OptString("impactStatement", ep.ImpactStatement).
		Set("sources", encodeAll(e, ep.Sources)).
		OptChildren("subjects", encodeAllWith(e, e.c.embedded(), ep.Subjects))
	setTimestamp(b, "published", ep.Published)
	optSetTimestamp(b, "updated", ep.Updated)
	img := wire.NewBuilder().Set("thumbnail", e.value(ep.Thumbnail))
	if !e.c.Snippet {
		img.Set("banner", e.value(await(e, ep.Banner)))
		b.OptChildren("chapters", encodeAll(e, drain(e, ep.Chapters)))
	}
	return b.Set("image", img.Object())
}
