package model

// Reference is an entry in an article's reference list. It is a closed sum
// over the Reference* types of this package.
type Reference interface {
	ReferenceType() string
	Common() ReferenceCommon
	reference()
}

// ReferenceCommon carries what every reference has.
type ReferenceCommon struct {
	ID            string
	Date          Date
	Discriminator string
}

// Common returns the shared fields.
func (c ReferenceCommon) Common() ReferenceCommon { return c }

func (ReferenceCommon) reference() {}

type BookReference struct {
	ReferenceCommon
	Authors     []Author
	AuthorsEtAl bool
	Editors     []Author
	EditorsEtAl bool
	BookTitle   string
	Publisher   Place
	Volume      string
	Edition     string
	DOI         string
	PMID        int
	ISBN        string
}

type JournalReference struct {
	ReferenceCommon
	Authors      []Author
	AuthorsEtAl  bool
	ArticleTitle string
	Journal      string
	Volume       string
	Pages        string
	DOI          string
	PMID         int
}

type PatentReference struct {
	ReferenceCommon
	Inventors     []Author
	InventorsEtAl bool
	Assignees     []Author
	AssigneesEtAl bool
	Title         string
	PatentType    string
	Country       string
	Number        string
	URI           string
}

type PreprintReference struct {
	ReferenceCommon
	Authors      []Author
	AuthorsEtAl  bool
	ArticleTitle string
	Source       string
	DOI          string
	URI          string
}

type ReportReference struct {
	ReferenceCommon
	Authors     []Author
	AuthorsEtAl bool
	Title       string
	Publisher   Place
	DOI         string
	PMID        int
	ISBN        string
	URI         string
}

type SoftwareReference struct {
	ReferenceCommon
	Authors     []Author
	AuthorsEtAl bool
	Title       string
	Publisher   Place
	Version     string
	URI         string
}

type ThesisReference struct {
	ReferenceCommon
	Author    PersonDetails
	Title     string
	Publisher Place
	DOI       string
	URI       string
}

type WebReference struct {
	ReferenceCommon
	Authors     []Author
	AuthorsEtAl bool
	Title       string
	URI         string
	Website     string
	Accessed    *Date
}

// UnknownReference is a reference the publisher could not classify.
type UnknownReference struct {
	ReferenceCommon
	Authors     []Author
	AuthorsEtAl bool
	Title       string
	Details     string
	URI         string
}

func (*BookReference) ReferenceType() string     { return "book" }
func (*JournalReference) ReferenceType() string  { return "journal" }
func (*PatentReference) ReferenceType() string   { return "patent" }
func (*PreprintReference) ReferenceType() string { return "preprint" }
func (*ReportReference) ReferenceType() string   { return "report" }
func (*SoftwareReference) ReferenceType() string { return "software" }
func (*ThesisReference) ReferenceType() string   { return "thesis" }
func (*WebReference) ReferenceType() string      { return "web" }
func (*UnknownReference) ReferenceType() string  { return "unknown" }
