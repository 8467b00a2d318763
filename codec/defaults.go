package codec

import (
	"github.com/pkg/errors"

	contentapi "github.com/reoring/contentapi"
)

// Default returns a registry with every unit of the content model.
func Default(opts ...Option) *Registry {
	var units []Unit
	units = append(units, plainUnits()...)
	units = append(units, authorUnits()...)
	units = append(units, referenceUnits()...)
	units = append(units, blockUnits()...)
	units = append(units, articleUnits()...)
	units = append(units, contentUnits()...)
	return NewRegistry(units, opts...)
}

// TargetFor returns the decode target of the items of a resource kind.
func TargetFor(k contentapi.Kind) (Target, error) {
	switch k {
	case contentapi.KindArticles:
		return FamilyArticle, nil
	case contentapi.KindBlogArticles:
		return FamilyModel.Variant("blog-article"), nil
	case contentapi.KindCollections:
		return FamilyModel.Variant("collection"), nil
	case contentapi.KindEvents:
		return FamilyModel.Variant("event"), nil
	case contentapi.KindInterviews:
		return FamilyModel.Variant("interview"), nil
	case contentapi.KindPeople:
		return TargetPerson, nil
	case contentapi.KindPodcastEpisodes:
		return FamilyModel.Variant("podcast-episode"), nil
	case contentapi.KindSubjects:
		return TargetSubject, nil
	}
	return "", errors.Errorf("codec: unknown kind %q", k)
}
