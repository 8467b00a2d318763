// Package model holds the immutable domain variants decoded from the API.
//
// Each polymorphic family (Author, Reference, Block, Model) is a closed sum:
// an interface with an unexported marker method, implemented only by the
// pointer types of this package. Optional scalars use their zero value for
// "absent"; optional structs and timestamps are pointers.
//
// Fields typed as *promise.Promise or collection.Sequence may be deferred: a
// snippet only carries what the listing returned, and the rest resolves from
// the complete record the first time it is forced.
package model

import (
	"strconv"
	"time"

	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/promise"
)

// Model is a top-level content item that can appear in mixed listings
// (collection content, podcast chapter content, related content).
type Model interface {
	ModelType() string
	ModelID() string
	model()
}

// ArticleTypes lists the article types the API publishes.
var ArticleTypes = []string{
	"correction", "editorial", "feature", "insight", "research-advance",
	"research-article", "registered-report", "replication-study", "retraction",
	"review-article", "scientific-correspondence", "short-report",
	"tools-resources",
}

// Article is an article in either of its publication states.
type Article interface {
	Model
	Base() ArticleCommon
	Status() string
}

// ArticleCommon carries what both publication states have.
type ArticleCommon struct {
	ID                string
	Stage             string
	Version           int
	Type              string
	DOI               string
	AuthorLine        string
	TitlePrefix       string
	Title             string
	Published         *time.Time
	VersionDate       *time.Time
	StatusDate        *time.Time
	Volume            int
	ELocationID       string
	PDF               string
	Subjects          []Subject
	ResearchOrganisms []string
	Abstract          []Block
	Authors           collection.Sequence[Author]
}

// Base returns the shared fields.
func (c ArticleCommon) Base() ArticleCommon { return c }

// ArticlePoA is a publish-on-accept article: accepted, not yet typeset.
type ArticlePoA struct {
	ArticleCommon
}

// ArticleVoR is a version-of-record article.
type ArticleVoR struct {
	ArticleCommon
	ImpactStatement string
	Thumbnail       *Image
	Keywords        []string
	Digest          []Block
	Content         collection.Sequence[Block]
	References      collection.Sequence[Reference]
}

type BlogArticle struct {
	ID              string
	Title           string
	ImpactStatement string
	Published       time.Time
	Updated         *time.Time
	Content         collection.Sequence[Block]
	Subjects        collection.Sequence[Subject]
}

type Collection struct {
	ID                  string
	Title               string
	SubTitle            *promise.Promise[string]
	ImpactStatement     string
	Published           time.Time
	Updated             *time.Time
	Banner              *promise.Promise[Image]
	Thumbnail           Image
	Subjects            []Subject
	SelectedCurator     *Person
	SelectedCuratorEtAl bool
	Curators            collection.Sequence[*Person]
	Summary             collection.Sequence[Block]
	Content             collection.Sequence[Model]
	RelatedContent      collection.Sequence[Model]
	PodcastEpisodes     collection.Sequence[*PodcastEpisode]
}

type Event struct {
	ID              string
	Title           string
	ImpactStatement string
	Published       time.Time
	Updated         *time.Time
	Starts          time.Time
	Ends            time.Time
	TimeZone        string
	URI             string
	Content         collection.Sequence[Block]
}

type Interview struct {
	ID              string
	Interviewee     Interviewee
	Title           string
	ImpactStatement string
	Published       time.Time
	Updated         *time.Time
	Content         collection.Sequence[Block]
}

type PodcastEpisode struct {
	Number          int
	Title           string
	ImpactStatement string
	Published       time.Time
	Updated         *time.Time
	Banner          *promise.Promise[Image]
	Thumbnail       Image
	Sources         []PodcastEpisodeSource
	Subjects        []Subject
	Chapters        collection.Sequence[PodcastEpisodeChapter]
}

func (a *ArticlePoA) ModelType() string   { return a.Type }
func (a *ArticleVoR) ModelType() string   { return a.Type }
func (*BlogArticle) ModelType() string    { return "blog-article" }
func (*Collection) ModelType() string     { return "collection" }
func (*Event) ModelType() string          { return "event" }
func (*Interview) ModelType() string      { return "interview" }
func (*PodcastEpisode) ModelType() string { return "podcast-episode" }

func (a *ArticlePoA) ModelID() string     { return a.ID }
func (a *ArticleVoR) ModelID() string     { return a.ID }
func (b *BlogArticle) ModelID() string    { return b.ID }
func (c *Collection) ModelID() string     { return c.ID }
func (e *Event) ModelID() string          { return e.ID }
func (i *Interview) ModelID() string      { return i.ID }
func (p *PodcastEpisode) ModelID() string { return strconv.Itoa(p.Number) }

func (*ArticlePoA) model()     {}
func (*ArticleVoR) model()     {}
func (*BlogArticle) model()    {}
func (*Collection) model()     {}
func (*Event) model()          {}
func (*Interview) model()      {}
func (*PodcastEpisode) model() {}

// Status is the publication state: "poa" or "vor".
func (*ArticlePoA) Status() string { return "poa" }
func (*ArticleVoR) Status() string { return "vor" }

// FullTitle joins the title and the sub-title, forcing the sub-title.
func (c *Collection) FullTitle() (string, error) {
	if c.SubTitle == nil {
		return c.Title, nil
	}
	sub, err := c.SubTitle.Wait()
	if err != nil || sub == "" {
		return c.Title, err
	}
	return c.Title + ": " + sub, nil
}
