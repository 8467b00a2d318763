package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Date is a possibly partial calendar date as used by references: a year,
// optionally with a month, optionally with a day.
type Date struct {
	Year  int
	Month int // 0 when absent
	Day   int // 0 when absent
}

// ParseDate parses YYYY, YYYY-MM or YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, "-")
	if len(parts) == 0 || len(parts) > 3 {
		return Date{}, errors.Errorf("date %q: want YYYY[-MM[-DD]]", s)
	}
	var nums [3]int
	for i, p := range parts {
		want := 2
		if i == 0 {
			want = 4
		}
		if len(p) != want {
			return Date{}, errors.Errorf("date %q: want YYYY[-MM[-DD]]", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, errors.Wrapf(err, "date %q", s)
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if len(parts) > 1 && (d.Month < 1 || d.Month > 12) {
		return Date{}, errors.Errorf("date %q: month out of range", s)
	}
	if len(parts) > 2 && (d.Day < 1 || d.Day > 31) {
		return Date{}, errors.Errorf("date %q: day out of range", s)
	}
	return d, nil
}

// String renders the date at its own precision.
func (d Date) String() string {
	switch {
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
