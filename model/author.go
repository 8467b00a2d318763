package model

// Author is an entry in an author, editor, inventor or assignee list. It is a
// closed sum: *PersonAuthor, *GroupAuthor or *OnBehalfOfAuthor.
type Author interface {
	AuthorType() string
	author()
}

// AuthorDetails is the information shared by person and group authors.
type AuthorDetails struct {
	AdditionalInformation   []string
	Affiliations            []Place
	CompetingInterests      string
	Contribution            string
	EmailAddresses          []string
	EqualContributionGroups []int
	PhoneNumbers            []string
	PostalAddresses         []Address
}

type PersonAuthor struct {
	AuthorDetails
	Person   PersonDetails
	Deceased bool
}

type GroupAuthor struct {
	AuthorDetails
	Name   string
	People []*PersonAuthor
}

type OnBehalfOfAuthor struct {
	OnBehalfOf string
}

func (*PersonAuthor) AuthorType() string     { return "person" }
func (*GroupAuthor) AuthorType() string      { return "group" }
func (*OnBehalfOfAuthor) AuthorType() string { return "on-behalf-of" }

func (*PersonAuthor) author()     {}
func (*GroupAuthor) author()      {}
func (*OnBehalfOfAuthor) author() {}

// String returns the preferred name.
func (a *PersonAuthor) String() string { return a.Person.PreferredName }

// String returns the group name.
func (a *GroupAuthor) String() string { return a.Name }

// String returns the on-behalf-of line.
func (a *OnBehalfOfAuthor) String() string { return a.OnBehalfOf }
