package codec

import (
	"context"

	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/wire"
)

func referenceUnits() []Unit {
	return []Unit{
		tagged(FamilyReference, "book", decodeBookReference, encodeBookReference),
		tagged(FamilyReference, "journal", decodeJournalReference, encodeJournalReference),
		tagged(FamilyReference, "patent", decodePatentReference, encodePatentReference),
		tagged(FamilyReference, "preprint", decodePreprintReference, encodePreprintReference),
		tagged(FamilyReference, "report", decodeReportReference, encodeReportReference),
		tagged(FamilyReference, "software", decodeSoftwareReference, encodeSoftwareReference),
		tagged(FamilyReference, "thesis", decodeThesisReference, encodeThesisReference),
		tagged(FamilyReference, "web", decodeWebReference, encodeWebReference),
		tagged(FamilyReference, "unknown", decodeUnknownReference, encodeUnknownReference),
	}
}

func decodeReferenceCommon(r *wire.Reader) model.ReferenceCommon {
	return model.ReferenceCommon{
		ID:            r.String("id"),
		Date:          partialDate(r, "date"),
		Discriminator: r.OptString("discriminator"),
	}
}

func encodeReferenceCommon(tag string, c model.ReferenceCommon) *wire.Builder {
	return wire.NewBuilder().
		Set("type", tag).
		Set("id", c.ID).
		Set("date", c.Date.String()).
		OptString("discriminator", c.Discriminator)
}

func authors(ctx context.Context, r *wire.Reader, c Context, key string) []model.Author {
	return many[model.Author](ctx, r, c, FamilyAuthor, r.Children(key))
}

func optAuthors(ctx context.Context, r *wire.Reader, c Context, key string) []model.Author {
	return many[model.Author](ctx, r, c, FamilyAuthor, r.OptChildren(key))
}

func decodeBookReference(ctx context.Context, r *wire.Reader, c Context) *model.BookReference {
	return &model.BookReference{
		ReferenceCommon: decodeReferenceCommon(r),
		Authors:         authors(ctx, r, c, "authors"),
		AuthorsEtAl:     r.OptBool("authorsEtAl"),
		Editors:         optAuthors(ctx, r, c, "editors"),
		EditorsEtAl:     r.OptBool("editorsEtAl"),
		BookTitle:       r.String("bookTitle"),
		Publisher:       one[model.Place](ctx, r, c, TargetPlace, r.Child("publisher")),
		Volume:          r.OptString("volume"),
		Edition:         r.OptString("edition"),
		DOI:             r.OptString("doi"),
		PMID:            r.OptInt("pmid"),
		ISBN:            r.OptString("isbn"),
	}
}

func encodeBookReference(e *encoder, ref *model.BookReference) *wire.Builder {
	return encodeReferenceCommon("book", ref.ReferenceCommon).
		Set("authors", encodeAll(e, ref.Authors)).
		OptBool("authorsEtAl", ref.AuthorsEtAl).
		OptChildren("editors", encodeAll(e, ref.Editors)).
		OptBool("editorsEtAl", ref.EditorsEtAl).
		Set("bookTitle", ref.BookTitle).
		Set("publisher", e.value(ref.Publisher)).
		OptString("volume", ref.Volume).
		OptString("edition", ref.Edition).
		OptString("doi", ref.DOI).
		OptInt("pmid", ref.PMID).
		OptString("isbn", ref.ISBN)
}

func decodeJournalReference(ctx context.Context, r *wire.Reader, c Context) *model.JournalReference {
	return &model.JournalReference{
		ReferenceCommon: decodeReferenceCommon(r),
		Authors:         authors(ctx, r, c, "authors"),
		AuthorsEtAl:     r.OptBool("authorsEtAl"),
		ArticleTitle:    r.String("articleTitle"),
		Journal:         r.String("journal"),
		Volume:          r.OptString("volume"),
		Pages:           r.OptString("pages"),
		DOI:             r.OptString("doi"),
		PMID:            r.OptInt("pmid"),
	}
}

func encodeJournalReference(e *encoder, ref *model.JournalReference) *wire.Builder {
	return encodeReferenceCommon("journal", ref.ReferenceCommon).
		Set("authors", encodeAll(e, ref.Authors)).
		OptBool("authorsEtAl", ref.AuthorsEtAl).
		Set("articleTitle", ref.ArticleTitle).
		Set("journal", ref.Journal).
		OptString("volume", ref.Volume).
		OptString("pages", ref.Pages).
		OptString("doi", ref.DOI).
		OptInt("pmid", ref.PMID)
}

func decodePatentReference(ctx context.Context, r *wire.Reader, c Context) *model.PatentReference {
	return &model.PatentReference{
		ReferenceCommon: decodeReferenceCommon(r),
		Inventors:       authors(ctx, r, c, "inventors"),
		InventorsEtAl:   r.OptBool("inventorsEtAl"),
		Assignees:       optAuthors(ctx, r, c, "assignees"),
		AssigneesEtAl:   r.OptBool("assigneesEtAl"),
		Title:           r.String("title"),
		PatentType:      r.String("patentType"),
		Country:         r.String("country"),
		Number:          r.OptString("number"),
		URI:             r.OptString("uri"),
	}
}

func encodePatentReference(e *encoder, ref *model.PatentReference) *wire.Builder {
	return encodeReferenceCommon("patent", ref.ReferenceCommon).
		Set("inventors", encodeAll(e, ref.Inventors)).
		OptBool("inventorsEtAl", ref.InventorsEtAl).
		OptChildren("assignees", encodeAll(e, ref.Assignees)).
		OptBool("assigneesEtAl", ref.AssigneesEtAl).
		Set("title", ref.Title).
		Set("patentType", ref.PatentType).
		Set("country", ref.Country).
		OptString("number", ref.Number).
		OptString("uri", ref.URI)
}

func decodePreprintReference(ctx context.Context, r *wire.Reader, c Context) *model.PreprintReference {
	return &model.PreprintReference{
		ReferenceCommon: decodeReferenceCommon(r),
		Authors:         authors(ctx, r, c, "authors"),
		AuthorsEtAl:     r.OptBool("authorsEtAl"),
		ArticleTitle:    r.String("articleTitle"),
		Source:          r.String("source"),
		DOI:             r.OptString("doi"),
		URI:             r.OptString("uri"),
	}
}

func encodePreprintReference(e *encoder, ref *model.PreprintReference) *wire.Builder {
	return encodeReferenceCommon("preprint", ref.ReferenceCommon).
		Set("authors", encodeAll(e, ref.Authors)).
		OptBool("authorsEtAl", ref.AuthorsEtAl).
		Set("articleTitle", ref.ArticleTitle).
		Set("source", ref.Source).
		OptString("doi", ref.DOI).
		OptString("uri", ref.URI)
}

func decodeReportReference(ctx context.Context, r *wire.Reader, c Context) *model.ReportReference {
	return &model.ReportReference{
		ReferenceCommon: decodeReferenceCommon(r),
		Authors:         authors(ctx, r, c, "authors"),
		AuthorsEtAl:     r.OptBool("authorsEtAl"),
		Title:           r.String("title"),
		Publisher:       one[model.Place](ctx, r, c, TargetPlace, r.Child("publisher")),
		DOI:             r.OptString("doi"),
		PMID:            r.OptInt("pmid"),
		ISBN:            r.OptString("isbn"),
		URI:             r.OptString("uri"),
	}
}

func encodeReportReference(e *encoder, ref *model.ReportReference) *wire.Builder {
	return encodeReferenceCommon("report", ref.ReferenceCommon).
		Set("authors", encodeAll(e, ref.Authors)).
		OptBool("authorsEtAl", ref.AuthorsEtAl).
		Set("title", ref.Title).
		Set("publisher", e.value(ref.Publisher)).
		OptString("doi", ref.DOI).
		OptInt("pmid", ref.PMID).
		OptString("isbn", ref.ISBN).
		OptString("uri", ref.URI)
}

func decodeSoftwareReference(ctx context.Context, r *wire.Reader, c Context) *model.SoftwareReference {
	return &model.SoftwareReference{
		ReferenceCommon: decodeReferenceCommon(r),
		Authors:         authors(ctx, r, c, "authors"),
		AuthorsEtAl:     r.OptBool("authorsEtAl"),
		Title:           r.String("title"),
		Publisher:       one[model.Place](ctx, r, c, TargetPlace, r.Child("publisher")),
		Version:         r.OptString("version"),
		URI:             r.OptString("uri"),
	}
}

func encodeSoftwareReference(e *encoder, ref *model.SoftwareReference) *wire.Builder {
	return encodeReferenceCommon("software", ref.ReferenceCommon).
		Set("authors", encodeAll(e, ref.Authors)).
		OptBool("authorsEtAl", ref.AuthorsEtAl).
		Set("title", ref.Title).
		Set("publisher", e.value(ref.Publisher)).
		OptString("version", ref.Version).
		OptString("uri", ref.URI)
}

func decodeThesisReference(ctx context.Context, r *wire.Reader, c Context) *model.ThesisReference {
	return &model.ThesisReference{
		ReferenceCommon: decodeReferenceCommon(r),
		Author:          one[model.PersonDetails](ctx, r, c, TargetPersonDetails, r.Child("author")),
		Title:           r.String("title"),
		Publisher:       one[model.Place](ctx, r, c, TargetPlace, r.Child("publisher")),
		DOI:             r.OptString("doi"),
		URI:             r.OptString("uri"),
	}
}

func encodeThesisReference(e *encoder, ref *model.ThesisReference) *wire.Builder {
	return encodeReferenceCommon("thesis", ref.ReferenceCommon).
		Set("author", e.value(ref.Author)).
		Set("title", ref.Title).
		Set("publisher", e.value(ref.Publisher)).
		OptString("doi", ref.DOI).
		OptString("uri", ref.URI)
}

func decodeWebReference(ctx context.Context, r *wire.Reader, c Context) *model.WebReference {
	return &model.WebReference{
		ReferenceCommon: decodeReferenceCommon(r),
		Authors:         authors(ctx, r, c, "authors"),
		AuthorsEtAl:     r.OptBool("authorsEtAl"),
		Title:           r.String("title"),
		URI:             r.String("uri"),
		Website:         r.OptString("website"),
		Accessed:        optPartialDate(r, "accessed"),
	}
}

func encodeWebReference(e *encoder, ref *model.WebReference) *wire.Builder {
	b := encodeReferenceCommon("web", ref.ReferenceCommon).
		Set("authors", encodeAll(e, ref.Authors)).
		OptBool("authorsEtAl", ref.AuthorsEtAl).
		Set("title", ref.Title).
		Set("uri", ref.URI).
		OptString("website", ref.Website)
	if ref.Accessed != nil {
		b.Set("accessed", ref.Accessed.String())
	}
	return b
}

func decodeUnknownReference(ctx context.Context, r *wire.Reader, c Context) *model.UnknownReference {
	return &model.UnknownReference{
		ReferenceCommon: decodeReferenceCommon(r),
		Authors:         authors(ctx, r, c, "authors"),
		AuthorsEtAl:     r.OptBool("authorsEtAl"),
		Title:           r.String("title"),
		Details:         r.OptString("details"),
		URI:             r.OptString("uri"),
	}
}

func encodeUnknownReference(e *encoder, ref *model.UnknownReference) *wire.Builder {
	return encodeReferenceCommon("unknown", ref.ReferenceCommon).
		Set("authors", encodeAll(e, ref.Authors)).
		OptBool("authorsEtAl", ref.AuthorsEtAl).
		Set("title", ref.Title).
		OptString("details", ref.Details).
		OptString("uri", ref.URI)
}
