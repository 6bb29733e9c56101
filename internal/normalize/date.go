package normalize

import (
	"errors"
	"strings"

	"github.com/araddon/dateparse"

	"weightduel/internal/domain"
)

var (
	errEmptyDate = errors.New("empty date")
	errNoDate    = errors.New("no calendar date in input")
)

// ParseDate leniently parses s and returns it in canonical YYYY-MM-DD form.
// Ambiguous numeric dates are read month first. The calendar day is taken in
// whatever offset the input carries, without conversion.
//
// A bare 10 digit integer is taken as Unix seconds in local time, so
// "1700000000" yields a day in November 2023. Month-year forms without a
// day, such as "Jan 2025", are rejected.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmptyDate
	}
	if !strings.ContainsAny(s, "0123456789") {
		return "", errNoDate
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return "", err
	}
	if t.Year() < 1000 {
		return "", errNoDate
	}
	return domain.FormatDay(t), nil
}
