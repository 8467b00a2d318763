package codec

import (
	"context"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/promise"
	"github.com/reoring/contentapi/wire"
)

func plainUnits() []Unit {
	return []Unit{
		plain(TargetFile, decodeFile, encodeFile),
		plain(TargetImage, decodeImage, encodeImage),
		plain(TargetAssetFile, decodeAssetFile, encodeAssetFile),
		plain(TargetAddress, decodeAddress, encodeAddress),
		plain(TargetPlace, decodePlace, encodePlace),
		plain(TargetPersonDetails, decodePersonDetails, encodePersonDetails),
		plain(TargetPerson, decodePerson, encodePerson),
		plain(TargetSubject, decodeSubject, encodeSubject),
		plain(TargetIntervieweeCVLine, decodeCVLine, encodeCVLine),
		plain(TargetPodcastEpisodeSource, decodeEpisodeSource, encodeEpisodeSource),
		plain(TargetPodcastEpisodeChapter, decodeEpisodeChapter, encodeEpisodeChapter),
	}
}

func decodeFile(_ context.Context, r *wire.Reader, _ Context) model.File {
	return model.File{
		MediaType: r.String("mediaType"),
		URI:       r.String("uri"),
		Filename:  r.OptString("filename"),
	}
}

func encodeFile(_ *encoder, f model.File) *wire.Builder {
	return wire.NewBuilder().
		Set("mediaType", f.MediaType).
		Set("uri", f.URI).
		OptString("filename", f.Filename)
}

func decodeImage(ctx context.Context, r *wire.Reader, c Context) model.Image {
	img := model.Image{
		Alt:         r.String("alt"),
		URI:         r.String("uri"),
		Source:      one[model.File](ctx, r, c, TargetFile, r.Child("source")),
		Attribution: r.OptStrings("attribution"),
	}
	size := wire.Read(r.Child("size"))
	img.Width = size.Int("width")
	img.Height = size.Int("height")
	r.Fail(size.Err())
	return img
}

func encodeImage(e *encoder, img model.Image) *wire.Builder {
	return wire.NewBuilder().
		Set("alt", img.Alt).
		Set("uri", img.URI).
		Set("source", e.value(img.Source)).
		Set("size", wire.NewBuilder().Set("width", img.Width).Set("height", img.Height).Object()).
		OptStrings("attribution", img.Attribution)
}

func decodeAssetFile(ctx context.Context, r *wire.Reader, c Context) model.AssetFile {
	return model.AssetFile{
		DOI:     r.OptString("doi"),
		ID:      r.String("id"),
		Label:   r.String("label"),
		Title:   r.OptString("title"),
		Caption: many[model.Block](ctx, r, c, FamilyBlock, r.OptChildren("caption")),
		File: model.File{
			MediaType: r.String("mediaType"),
			URI:       r.String("uri"),
			Filename:  r.OptString("filename"),
		},
	}
}

func encodeAssetFile(e *encoder, a model.AssetFile) *wire.Builder {
	return wire.NewBuilder().
		OptString("doi", a.DOI).
		Set("id", a.ID).
		Set("label", a.Label).
		OptString("title", a.Title).
		OptChildren("caption", encodeAll(e, a.Caption)).
		Merge(e.value(a.File))
}

func decodeAddress(_ context.Context, r *wire.Reader, _ Context) model.Address {
	a := model.Address{Formatted: r.Strings("formatted")}
	if comp, ok := r.OptChild("components"); ok {
		cr := wire.Read(comp)
		a.StreetAddress = cr.OptStrings("streetAddress")
		a.Locality = cr.OptStrings("locality")
		a.Area = cr.OptStrings("area")
		a.Country = cr.OptString("country")
		a.PostalCode = cr.OptString("postalCode")
		r.Fail(cr.Err())
	}
	return a
}

func encodeAddress(_ *encoder, a model.Address) *wire.Builder {
	comp := wire.NewBuilder().
		OptStrings("streetAddress", a.StreetAddress).
		OptStrings("locality", a.Locality).
		OptStrings("area", a.Area).
		OptString("country", a.Country).
		OptString("postalCode", a.PostalCode).
		Object()
	return wire.NewBuilder().
		Set("formatted", a.Formatted).
		OptChild("components", comp)
}

func decodePlace(ctx context.Context, r *wire.Reader, c Context) model.Place {
	return model.Place{
		Name:    r.Strings("name"),
		Address: optOne[model.Address](ctx, r, c, TargetAddress, "address"),
	}
}

func encodePlace(e *encoder, p model.Place) *wire.Builder {
	b := wire.NewBuilder().Set("name", p.Name)
	if p.Address != nil {
		b.Set("address", e.value(*p.Address))
	}
	return b
}

func decodePersonDetails(_ context.Context, r *wire.Reader, _ Context) model.PersonDetails {
	name := wire.Read(r.Child("name"))
	d := model.PersonDetails{
		PreferredName: name.String("preferred"),
		IndexName:     name.String("index"),
		ORCID:         r.OptString("orcid"),
	}
	r.Fail(name.Err())
	return d
}

func encodePersonDetails(_ *encoder, d model.PersonDetails) *wire.Builder {
	return wire.NewBuilder().
		Set("name", wire.NewBuilder().
			Set("preferred", d.PreferredName).
			Set("index", d.IndexName).
			Object()).
		OptString("orcid", d.ORCID)
}

// thumbnailOf reads image.thumbnail when present.
func thumbnailOf(ctx context.Context, r *wire.Reader, c Context) *model.Image {
	img, ok := r.OptChild("image")
	if !ok {
		return nil
	}
	ir := wire.Read(img)
	thumb := optOne[model.Image](ctx, ir, c, TargetImage, "thumbnail")
	r.Fail(ir.Err())
	return thumb
}

func decodePerson(ctx context.Context, r *wire.Reader, c Context) *model.Person {
	p := &model.Person{
		ID:        r.String("id"),
		Details:   decodePersonDetails(ctx, r, c),
		Type:      r.String("type"),
		Thumbnail: thumbnailOf(ctx, r, c),
	}
	if c.Snippet && !r.Object().Has("profile") {
		p.Profile = laterSeq(ctx, c, contentapi.KindPeople, p.ID, func(m *model.Person) collection.Sequence[model.Block] { return m.Profile })
	} else {
		p.Profile = collection.FromSlice(many[model.Block](ctx, r, c, FamilyBlock, r.OptChildren("profile")))
	}
	if c.Snippet && !r.Object().Has("competingInterests") {
		p.CompetingInterests = laterValue(ctx, c, contentapi.KindPeople, p.ID, func(m *model.Person) (string, error) {
			return waitPromise(m.CompetingInterests)
		})
	} else {
		p.CompetingInterests = promise.Resolved(r.OptString("competingInterests"))
	}
	return p
}

func encodePerson(e *encoder, p *model.Person) *wire.Builder {
	b := wire.NewBuilder().
		Set("id", p.ID).
		Merge(e.value(p.Details)).
		Set("type", p.Type)
	if p.Thumbnail != nil {
		b.Set("image", wire.NewBuilder().Set("thumbnail", e.value(*p.Thumbnail)).Object())
	}
	if !e.c.Snippet {
		b.OptChildren("profile", encodeAll(e, drain(e, p.Profile)))
		b.OptString("competingInterests", await(e, p.CompetingInterests))
	}
	return b
}

func decodeSubject(ctx context.Context, r *wire.Reader, c Context) model.Subject {
	s := model.Subject{
		ID:   r.String("id"),
		Name: r.String("name"),
	}
	switch img, ok := r.OptChild("image"); {
	case ok:
		ir := wire.Read(img)
		s.Banner = promise.Resolved(one[model.Image](ctx, ir, c, TargetImage, ir.Child("banner")))
		s.Thumbnail = promise.Resolved(one[model.Image](ctx, ir, c, TargetImage, ir.Child("thumbnail")))
		r.Fail(ir.Err())
	case c.Snippet:
		pick := func(f func(model.Subject) *promise.Promise[model.Image]) *promise.Promise[model.Image] {
			return laterValue(ctx, c, contentapi.KindSubjects, s.ID, func(m model.Subject) (model.Image, error) {
				return waitPromise(f(m))
			})
		}
		s.Banner = pick(func(m model.Subject) *promise.Promise[model.Image] { return m.Banner })
		s.Thumbnail = pick(func(m model.Subject) *promise.Promise[model.Image] { return m.Thumbnail })
	default:
		r.Child("image")
	}
	if c.Snippet && !r.Object().Has("impactStatement") {
		s.ImpactStatement = laterValue(ctx, c, contentapi.KindSubjects, s.ID, func(m model.Subject) (string, error) {
			return waitPromise(m.ImpactStatement)
		})
	} else {
		s.ImpactStatement = promise.Resolved(r.OptString("impactStatement"))
	}
	return s
}

func encodeSubject(e *encoder, s model.Subject) *wire.Builder {
	b := wire.NewBuilder().
		Set("id", s.ID).
		Set("name", s.Name)
	if !e.c.Snippet {
		b.OptString("impactStatement", await(e, s.ImpactStatement))
		b.Set("image", wire.NewBuilder().
			Set("banner", e.value(await(e, s.Banner))).
			Set("thumbnail", e.value(await(e, s.Thumbnail))).
			Object())
	}
	return b
}

func decodeCVLine(_ context.Context, r *wire.Reader, _ Context) model.IntervieweeCVLine {
	return model.IntervieweeCVLine{Date: r.String("date"), Text: r.String("text")}
}

func encodeCVLine(_ *encoder, l model.IntervieweeCVLine) *wire.Builder {
	return wire.NewBuilder().Set("date", l.Date).Set("text", l.Text)
}

func decodeEpisodeSource(_ context.Context, r *wire.Reader, _ Context) model.PodcastEpisodeSource {
	return model.PodcastEpisodeSource{MediaType: r.String("mediaType"), URI: r.String("uri")}
}

func encodeEpisodeSource(_ *encoder, s model.PodcastEpisodeSource) *wire.Builder {
	return wire.NewBuilder().Set("mediaType", s.MediaType).Set("uri", s.URI)
}

func decodeEpisodeChapter(ctx context.Context, r *wire.Reader, c Context) model.PodcastEpisodeChapter {
	return model.PodcastEpisodeChapter{
		Number:          r.Int("number"),
		Title:           r.String("title"),
		Time:            r.Int("time"),
		ImpactStatement: r.OptString("impactStatement"),
		Content:         collection.FromSlice(many[model.Model](ctx, r, c.embedded(), FamilyModel, r.OptChildren("content"))),
	}
}

func encodeEpisodeChapter(e *encoder, ch model.PodcastEpisodeChapter) *wire.Builder {
	return wire.NewBuilder().
		Set("number", ch.Number).
		Set("title", ch.Title).
		Set("time", ch.Time).
		OptString("impactStatement", ch.ImpactStatement).
		OptChildren("content", encodeAllWith(e, e.c.embedded(), drain(e, ch.Content)))
}
