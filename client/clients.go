package client

import (
	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/model"
)

// Articles lists research content in either publication state.
type Articles = Resource[model.Article]

// BlogArticles lists blog articles.
type BlogArticles = Resource[*model.BlogArticle]

// Collections lists curated collections.
type Collections = Resource[*model.Collection]

// People lists editors and staff.
type People = Resource[*model.Person]

// PodcastEpisodes lists podcast episodes, addressed by episode number.
type PodcastEpisodes = Resource[*model.PodcastEpisode]

// Subjects lists subject areas.
type Subjects = Resource[model.Subject]

var (
	_ collection.Collection[model.Article]         = Articles{}
	_ collection.Collection[*model.BlogArticle]    = BlogArticles{}
	_ collection.Collection[*model.Collection]     = Collections{}
	_ collection.Collection[*model.Person]         = People{}
	_ collection.Collection[*model.PodcastEpisode] = PodcastEpisodes{}
	_ collection.Collection[model.Subject]         = Subjects{}
	_ collection.Collection[*model.Event]          = Events{}
)

// Events lists events, optionally restricted to one type.
type Events struct {
	Resource[*model.Event]
}

func newEvents(d deps) Events {
	return Events{newResource[*model.Event](contentapi.KindEvents, d)}
}

// ForType returns the view restricted to events of type t; "all" or "" lifts
// the restriction.
func (c Events) ForType(t string) Events {
	return Events{c.Resource.withType(t)}
}

// Type returns the type filter of the view.
func (c Events) Type() string { return c.view.Type }

// WithOrder returns the view sorted by o.
func (c Events) WithOrder(o contentapi.Order) Events {
	return Events{c.Resource.WithOrder(o)}
}

// Reverse returns the view in the opposite order.
func (c Events) Reverse() collection.Sequence[*model.Event] {
	return c.WithOrder(c.view.Order.Reverse())
}

// WithSubjects returns the view restricted to events in any of the subjects.
func (c Events) WithSubjects(ids ...string) Events {
	return Events{c.Resource.WithSubjects(ids...)}
}

// WithPageSize sets the page size used to walk the whole view.
func (c Events) WithPageSize(n int) Events {
	return Events{c.Resource.WithPageSize(n)}
}
