package contentapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Kind names a resource family exposed by the API. Its value is also the
// URL path segment of the family.
type Kind string

const (
	KindArticles        Kind = "articles"
	KindBlogArticles    Kind = "blog-articles"
	KindCollections     Kind = "collections"
	KindEvents          Kind = "events"
	KindInterviews      Kind = "interviews"
	KindPeople          Kind = "people"
	KindPodcastEpisodes Kind = "podcast-episodes"
	KindSubjects        Kind = "subjects"
)

// MediaType is a versioned vendor media type such as
// application/vnd.elife.event+json; version=1.
type MediaType struct {
	Type    string
	Version int
}

// Format renders the media type for the given vendor.
func (m MediaType) Format(vendor string) string {
	return fmt.Sprintf("application/vnd.%s.%s+json; version=%d", vendor, m.Type, m.Version)
}

// Descriptor is the static description of a Kind: which media types a single
// item may come back as, and the media type of a listing page.
type Descriptor struct {
	Kind  Kind
	Items []MediaType
	List  MediaType
}

var descriptors = map[Kind]Descriptor{
	KindArticles: {
		Kind:  KindArticles,
		Items: []MediaType{{"article-poa", 1}, {"article-vor", 1}},
		List:  MediaType{"article-list", 1},
	},
	KindBlogArticles:    single(KindBlogArticles, "blog-article"),
	KindCollections:     single(KindCollections, "collection"),
	KindEvents:          single(KindEvents, "event"),
	KindInterviews:      single(KindInterviews, "interview"),
	KindPeople:          single(KindPeople, "person"),
	KindPodcastEpisodes: single(KindPodcastEpisodes, "podcast-episode"),
	KindSubjects:        single(KindSubjects, "subject"),
}

func single(k Kind, item string) Descriptor {
	return Descriptor{Kind: k, Items: []MediaType{{item, 1}}, List: MediaType{item + "-list", 1}}
}

// Descriptor returns the static description of k. Unknown kinds return a
// zero Descriptor and false.
func (k Kind) Descriptor() (Descriptor, bool) {
	d, ok := descriptors[k]
	return d, ok
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := descriptors[k]
	return ok
}

// ItemAccept renders the Accept header value for a single item of k.
func (k Kind) ItemAccept(vendor string) string {
	d := descriptors[k]
	parts := make([]string, 0, len(d.Items))
	for _, m := range d.Items {
		parts = append(parts, m.Format(vendor))
	}
	return strings.Join(parts, ", ")
}

// ListAccept renders the Accept header value for a listing page of k.
func (k Kind) ListAccept(vendor string) string {
	d, ok := descriptors[k]
	if !ok {
		return ""
	}
	return d.List.Format(vendor)
}

// Kinds returns every known kind in lexical order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(descriptors))
	for k := range descriptors {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseKind maps a name onto a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", errors.Errorf("unknown resource kind %q", s)
	}
	return k, nil
}
