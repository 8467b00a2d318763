package codec

import (
	"context"
	"slices"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/wire"
)

func articleUnits() []Unit {
	return []Unit{
		&unit[*model.ArticlePoA]{
			target:   FamilyModel.Variant("article-poa"),
			families: []Target{FamilyModel, FamilyArticle},
			matches:  isArticle("poa"),
			decode:   decodeArticlePoA,
			encode:   encodeArticlePoA,
		},
		&unit[*model.ArticleVoR]{
			target:   FamilyModel.Variant("article-vor"),
			families: []Target{FamilyModel, FamilyArticle},
			matches:  isArticle("vor"),
			decode:   decodeArticleVoR,
			encode:   encodeArticleVoR,
		},
	}
}

// isArticle matches an article type in the given publication state.
func isArticle(status string) func(wire.Object) bool {
	return func(raw wire.Object) bool {
		s, _ := raw.Raw()["status"].(string)
		return s == status && slices.Contains(model.ArticleTypes, raw.Type())
	}
}

func decodeArticleCommon(ctx context.Context, r *wire.Reader, c Context) model.ArticleCommon {
	a := model.ArticleCommon{
		ID:                r.String("id"),
		Stage:             r.String("stage"),
		Version:           r.Int("version"),
		Type:              r.String("type"),
		DOI:               r.String("doi"),
		AuthorLine:        r.OptString("authorLine"),
		TitlePrefix:       r.OptString("titlePrefix"),
		Title:             r.String("title"),
		Published:         optTimestamp(r, "published"),
		VersionDate:       optTimestamp(r, "versionDate"),
		StatusDate:        optTimestamp(r, "statusDate"),
		Volume:            r.Int("volume"),
		ELocationID:       r.String("elocationId"),
		PDF:               r.OptString("pdf"),
		Subjects:          many[model.Subject](ctx, r, c.embedded(), TargetSubject, r.OptChildren("subjects")),
		ResearchOrganisms: r.OptStrings("researchOrganisms"),
	}
	if abs, ok := r.OptChild("abstract"); ok {
		ar := wire.Read(abs)
		a.Abstract = blocks(ctx, ar, c, "content")
		r.Fail(ar.Err())
	}
	a.Authors = heavy(ctx, r, c, c, article(a.ID), "authors", FamilyAuthor,
		func(m model.Article) collection.Sequence[model.Author] { return m.Base().Authors })
	return a
}

func encodeArticleCommon(e *encoder, a model.ArticleCommon, status string) *wire.Builder {
	b := wire.NewBuilder().
		Set("id", a.ID).
		Set("stage", a.Stage).
		Set("version", a.Version).
		Set("type", a.Type).
		Set("doi", a.DOI).
		OptString("authorLine", a.AuthorLine).
		OptString("titlePrefix", a.TitlePrefix).
		Set("title", a.Title).
		Set("volume", a.Volume).
		Set("elocationId", a.ELocationID).
		OptString("pdf", a.PDF).
		OptChildren("subjects", encodeAllWith(e, e.c.embedded(), a.Subjects)).
		OptStrings("researchOrganisms", a.ResearchOrganisms).
		Set("status", status)
	optSetTimestamp(b, "published", a.Published)
	optSetTimestamp(b, "versionDate", a.VersionDate)
	optSetTimestamp(b, "statusDate", a.StatusDate)
	if len(a.Abstract) > 0 {
		b.Set("abstract", wire.NewBuilder().Set("content", encodeAll(e, a.Abstract)).Object())
	}
	if !e.c.Snippet {
		b.OptChildren("authors", encodeAll(e, drain(e, a.Authors)))
	}
	return b
}

func decodeArticlePoA(ctx context.Context, r *wire.Reader, c Context) *model.ArticlePoA {
	return &model.ArticlePoA{ArticleCommon: decodeArticleCommon(ctx, r, c)}
}

func encodeArticlePoA(e *encoder, a *model.ArticlePoA) *wire.Builder {
	return encodeArticleCommon(e, a.ArticleCommon, a.Status())
}

func decodeArticleVoR(ctx context.Context, r *wire.Reader, c Context) *model.ArticleVoR {
	a := &model.ArticleVoR{
		ArticleCommon:   decodeArticleCommon(ctx, r, c),
		ImpactStatement: r.OptString("impactStatement"),
		Thumbnail:       thumbnailOf(ctx, r, c),
		Keywords:        r.OptStrings("keywords"),
	}
	if dig, ok := r.OptChild("digest"); ok {
		dr := wire.Read(dig)
		a.Digest = blocks(ctx, dr, c, "content")
		r.Fail(dr.Err())
	}
	at := article(a.ID)
	a.Content = heavy(ctx, r, c, c, at, "content", FamilyBlock,
		func(m model.Article) collection.Sequence[model.Block] { return vor(m).Content })
	a.References = heavy(ctx, r, c, c, at, "references", FamilyReference,
		func(m model.Article) collection.Sequence[model.Reference] { return vor(m).References })
	return a
}

func encodeArticleVoR(e *encoder, a *model.ArticleVoR) *wire.Builder {
	b := encodeArticleCommon(e, a.ArticleCommon, a.Status()).
		OptString("impactStatement", a.ImpactStatement).
		OptStrings("keywords", a.Keywords)
	if a.Thumbnail != nil {
		b.Set("image", wire.NewBuilder().Set("thumbnail", e.value(*a.Thumbnail)).Object())
	}
	if len(a.Digest) > 0 {
		b.Set("digest", wire.NewBuilder().Set("content", encodeAll(e, a.Digest)).Object())
	}
	if !e.c.Snippet {
		b.OptChildren("content", encodeAll(e, drain(e, a.Content)))
		b.OptChildren("references", encodeAll(e, drain(e, a.References)))
	}
	return b
}

func article(id string) ref { return ref{kind: contentapi.KindArticles, id: id} }

// vor narrows a resolved article; a PoA has no body, so it yields an empty
// VoR.
func vor(m model.Article) *model.ArticleVoR {
	if v, ok := m.(*model.ArticleVoR); ok {
		return v
	}
	return &model.ArticleVoR{}
}
