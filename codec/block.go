package codec

import (
	"context"

	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/wire"
)

func blockUnits() []Unit {
	return []Unit{
		tagged(FamilyBlock, "paragraph", decodeParagraph, encodeParagraph),
		tagged(FamilyBlock, "section", decodeSection, encodeSection),
		tagged(FamilyBlock, "quote", decodeQuote, encodeQuote),
		tagged(FamilyBlock, "image", decodeImageBlock, encodeImageBlock),
		tagged(FamilyBlock, "code", decodeCode, encodeCode),
		tagged(FamilyBlock, "list", decodeList, encodeList),
		tagged(FamilyBlock, "youtube", decodeYouTube, encodeYouTube),
	}
}

func blocks(ctx context.Context, r *wire.Reader, c Context, key string) []model.Block {
	return many[model.Block](ctx, r, c, FamilyBlock, r.Children(key))
}

func optBlocks(ctx context.Context, r *wire.Reader, c Context, key string) []model.Block {
	return many[model.Block](ctx, r, c, FamilyBlock, r.OptChildren(key))
}

func decodeParagraph(_ context.Context, r *wire.Reader, _ Context) *model.Paragraph {
	return &model.Paragraph{Text: r.String("text")}
}

func encodeParagraph(_ *encoder, p *model.Paragraph) *wire.Builder {
	return wire.NewBuilder().Set("type", "paragraph").Set("text", p.Text)
}

func decodeSection(ctx context.Context, r *wire.Reader, c Context) *model.Section {
	return &model.Section{
		ID:      r.OptString("id"),
		Title:   r.String("title"),
		Content: blocks(ctx, r, c, "content"),
	}
}

func encodeSection(e *encoder, s *model.Section) *wire.Builder {
	return wire.NewBuilder().
		Set("type", "section").
		OptString("id", s.ID).
		Set("title", s.Title).
		Set("content", encodeAll(e, s.Content))
}

func decodeQuote(ctx context.Context, r *wire.Reader, c Context) *model.Quote {
	return &model.Quote{
		Text: blocks(ctx, r, c, "text"),
		Cite: r.OptString("cite"),
	}
}

func encodeQuote(e *encoder, q *model.Quote) *wire.Builder {
	return wire.NewBuilder().
		Set("type", "quote").
		Set("text", encodeAll(e, q.Text)).
		OptString("cite", q.Cite)
}

func decodeImageFile(ctx context.Context, r *wire.Reader, c Context) model.ImageFile {
	return model.ImageFile{
		DOI:         r.OptString("doi"),
		ID:          r.OptString("id"),
		Label:       r.OptString("label"),
		Title:       r.OptString("title"),
		Caption:     optBlocks(ctx, r, c, "caption"),
		Image:       one[model.Image](ctx, r, c, TargetImage, r.Child("image")),
		Attribution: r.OptStrings("attribution"),
		SourceData:  many[model.AssetFile](ctx, r, c, TargetAssetFile, r.OptChildren("sourceData")),
	}
}

func encodeImageFile(e *encoder, f model.ImageFile) *wire.Builder {
	return wire.NewBuilder().
		OptString("doi", f.DOI).
		OptString("id", f.ID).
		OptString("label", f.Label).
		OptString("title", f.Title).
		OptChildren("caption", encodeAll(e, f.Caption)).
		Set("image", e.value(f.Image)).
		OptStrings("attribution", f.Attribution).
		OptChildren("sourceData", encodeAll(e, f.SourceData))
}

func decodeImageBlock(ctx context.Context, r *wire.Reader, c Context) *model.ImageBlock {
	b := &model.ImageBlock{Image: decodeImageFile(ctx, r, c)}
	for _, raw := range r.OptChildren("supplements") {
		sr := wire.Read(raw)
		b.Supplements = append(b.Supplements, decodeImageFile(ctx, sr, c))
		r.Fail(sr.Err())
	}
	return b
}

func encodeImageBlock(e *encoder, b *model.ImageBlock) *wire.Builder {
	out := wire.NewBuilder().
		Set("type", "image").
		Merge(encodeImageFile(e, b.Image).Object())
	supplements := make([]wire.Object, 0, len(b.Supplements))
	for _, s := range b.Supplements {
		supplements = append(supplements, encodeImageFile(e, s).Object())
	}
	return out.OptChildren("supplements", supplements)
}

func decodeCode(_ context.Context, r *wire.Reader, _ Context) *model.Code {
	return &model.Code{Code: r.String("code"), Language: r.OptString("language")}
}

func encodeCode(_ *encoder, c *model.Code) *wire.Builder {
	return wire.NewBuilder().
		Set("type", "code").
		Set("code", c.Code).
		OptString("language", c.Language)
}

func decodeList(_ context.Context, r *wire.Reader, _ Context) *model.List {
	return &model.List{Prefix: r.String("prefix"), Items: r.Strings("items")}
}

func encodeList(_ *encoder, l *model.List) *wire.Builder {
	return wire.NewBuilder().
		Set("type", "list").
		Set("prefix", l.Prefix).
		Set("items", l.Items)
}

func decodeYouTube(_ context.Context, r *wire.Reader, _ Context) *model.YouTube {
	return &model.YouTube{ID: r.String("id"), Width: r.Int("width"), Height: r.Int("height")}
}

func encodeYouTube(_ *encoder, y *model.YouTube) *wire.Builder {
	return wire.NewBuilder().
		Set("type", "youtube").
		Set("id", y.ID).
		Set("width", y.Width).
		Set("height", y.Height)
}
