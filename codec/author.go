package codec

import (
	"context"

	"github.com/reoring/contentapi/model"
	"github.com/reoring/contentapi/wire"
)

func authorUnits() []Unit {
	return []Unit{
		tagged(FamilyAuthor, "person", decodePersonAuthor, encodePersonAuthor),
		tagged(FamilyAuthor, "group", decodeGroupAuthor, encodeGroupAuthor),
		tagged(FamilyAuthor, "on-behalf-of", decodeOnBehalfOf, encodeOnBehalfOf),
	}
}

func decodeAuthorDetails(ctx context.Context, r *wire.Reader, c Context) model.AuthorDetails {
	return model.AuthorDetails{
		AdditionalInformation:   r.OptStrings("additionalInformation"),
		Affiliations:            many[model.Place](ctx, r, c, TargetPlace, r.OptChildren("affiliations")),
		CompetingInterests:      r.OptString("competingInterests"),
		Contribution:            r.OptString("contribution"),
		EmailAddresses:          r.OptStrings("emailAddresses"),
		EqualContributionGroups: r.OptInts("equalContributionGroups"),
		PhoneNumbers:            r.OptStrings("phoneNumbers"),
		PostalAddresses:         many[model.Address](ctx, r, c, TargetAddress, r.OptChildren("postalAddresses")),
	}
}

func encodeAuthorDetails(e *encoder, b *wire.Builder, d model.AuthorDetails) *wire.Builder {
	return b.
		OptStrings("additionalInformation", d.AdditionalInformation).
		OptChildren("affiliations", encodeAll(e, d.Affiliations)).
		OptString("competingInterests", d.CompetingInterests).
		OptString("contribution", d.Contribution).
		OptStrings("emailAddresses", d.EmailAddresses).
		OptInts("equalContributionGroups", d.EqualContributionGroups).
		OptStrings("phoneNumbers", d.PhoneNumbers).
		OptChildren("postalAddresses", encodeAll(e, d.PostalAddresses))
}

func decodePersonAuthor(ctx context.Context, r *wire.Reader, c Context) *model.PersonAuthor {
	return &model.PersonAuthor{
		AuthorDetails: decodeAuthorDetails(ctx, r, c),
		Person:        decodePersonDetails(ctx, r, c),
		Deceased:      r.OptBool("deceased"),
	}
}

func encodePersonAuthor(e *encoder, a *model.PersonAuthor) *wire.Builder {
	b := wire.NewBuilder().
		Set("type", "person").
		Merge(e.value(a.Person)).
		OptBool("deceased", a.Deceased)
	return encodeAuthorDetails(e, b, a.AuthorDetails)
}

func decodeGroupAuthor(ctx context.Context, r *wire.Reader, c Context) *model.GroupAuthor {
	return &model.GroupAuthor{
		AuthorDetails: decodeAuthorDetails(ctx, r, c),
		Name:          r.String("name"),
		People:        many[*model.PersonAuthor](ctx, r, c, FamilyAuthor.Variant("person"), r.OptChildren("people")),
	}
}

func encodeGroupAuthor(e *encoder, a *model.GroupAuthor) *wire.Builder {
	b := wire.NewBuilder().
		Set("type", "group").
		Set("name", a.Name).
		OptChildren("people", encodeAll(e, a.People))
	return encodeAuthorDetails(e, b, a.AuthorDetails)
}

func decodeOnBehalfOf(_ context.Context, r *wire.Reader, _ Context) *model.OnBehalfOfAuthor {
	return &model.OnBehalfOfAuthor{OnBehalfOf: r.String("onBehalfOf")}
}

func encodeOnBehalfOf(_ *encoder, a *model.OnBehalfOfAuthor) *wire.Builder {
	return wire.NewBuilder().
		Set("type", "on-behalf-of").
		Set("onBehalfOf", a.OnBehalfOf)
}
