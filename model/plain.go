package model

import (
	"strings"

	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/promise"
)

// File is a downloadable resource.
type File struct {
	MediaType string
	URI       string
	Filename  string
}

// Image is an IIIF image with its source file and intrinsic size.
type Image struct {
	Alt         string
	URI         string
	Source      File
	Width       int
	Height      int
	Attribution []string
}

// AssetFile is a supplementary file attached to an article or figure.
type AssetFile struct {
	DOI     string
	ID      string
	Label   string
	Title   string
	Caption []Block
	File    File
}

// Address is a postal address, formatted and in components.
type Address struct {
	Formatted     []string
	StreetAddress []string
	Locality      []string
	Area          []string
	Country       string
	PostalCode    string
}

// String joins the formatted lines.
func (a Address) String() string { return strings.Join(a.Formatted, ", ") }

// Place is a named location such as a publisher or an affiliation.
type Place struct {
	Name    []string
	Address *Address
}

// String joins the name lines and the address.
func (p Place) String() string {
	parts := append([]string{}, p.Name...)
	if p.Address != nil {
		parts = append(parts, p.Address.String())
	}
	return strings.Join(parts, ", ")
}

// PersonDetails is a person's name and ORCID.
type PersonDetails struct {
	PreferredName string
	IndexName     string
	ORCID         string
}

// Subject is a subject area. Snippets carry only ID and Name; the other
// fields resolve from the complete record.
type Subject struct {
	ID              string
	Name            string
	ImpactStatement *promise.Promise[string]
	Banner          *promise.Promise[Image]
	Thumbnail       *promise.Promise[Image]
}

// Person is a member of staff or of the editorial board.
type Person struct {
	ID                 string
	Details            PersonDetails
	Type               string
	Thumbnail          *Image
	Profile            collection.Sequence[Block]
	CompetingInterests *promise.Promise[string]
}

// IntervieweeCVLine is a single dated line of an interviewee's CV.
type IntervieweeCVLine struct {
	Date string
	Text string
}

// Interviewee is the subject of an interview.
type Interviewee struct {
	Person PersonDetails
	CV     collection.Sequence[IntervieweeCVLine]
}

// PodcastEpisodeSource is one encoding of a podcast episode's audio.
type PodcastEpisodeSource struct {
	MediaType string
	URI       string
}

// PodcastEpisodeChapter is a chapter of a podcast episode. Its content is
// the items it discusses, as snippets.
type PodcastEpisodeChapter struct {
	Number          int
	Title           string
	Time            int
	ImpactStatement string
	Content         collection.Sequence[Model]
}
