package contentapi

import "github.com/pkg/errors"

// Order is the sort order of a listing. The zero value is Descending, which
// is what the API defaults to.
type Order int

const (
	Descending Order = iota
	Ascending
)

// Reverse returns the opposite order.
func (o Order) Reverse() Order {
	if o == Ascending {
		return Descending
	}
	return Ascending
}

// String renders the order as the API's order query value.
func (o Order) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseOrder parses "asc" or "desc".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "asc":
		return Ascending, nil
	case "desc", "":
		return Descending, nil
	}
	return Descending, errors.Errorf("unknown order %q", s)
}
