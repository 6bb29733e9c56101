package normalize

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"weightduel/internal/domain"
)

// Table is a header row plus data rows. Rows may be shorter than the header;
// missing cells read as empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// Result summarizes a normalization pass.
type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Normalizer validates rows against the configured user set.
type Normalizer struct {
	users domain.Users
}

// New creates a Normalizer accepting only the given users.
func New(users domain.Users) *Normalizer {
	return &Normalizer{users: users}
}

// Normalize classifies the table columns and converts every valid row.
// It fails only when a role cannot be mapped to a column; in that case no
// entries are returned.
func (n *Normalizer) Normalize(t Table) ([]domain.Entry, Result, error) {
	cols := ClassifyColumns(t.Header)
	if err := cols.Require(t.Header); err != nil {
		return nil, Result{}, err
	}

	entries := make([]domain.Entry, 0, len(t.Rows))
	for _, row := range t.Rows {
		e, ok := n.Row(cell(row, *cols.User), cell(row, *cols.Date), cell(row, *cols.Weight))
		if !ok {
			continue
		}
		entries = append(entries, e)
	}

	return entries, Result{
		Imported: len(entries),
		Skipped:  len(t.Rows) - len(entries),
	}, nil
}

// Row validates a single (user, date, weight) triple of raw text.
func (n *Normalizer) Row(user, date, weight string) (domain.Entry, bool) {
	if user == "" || !n.users.Contains(user) {
		return domain.Entry{}, false
	}
	day, err := ParseDate(date)
	if err != nil {
		return domain.Entry{}, false
	}
	w, err := ParseWeight(weight)
	if err != nil {
		return domain.Entry{}, false
	}
	return domain.Entry{User: user, Date: day, Weight: w}, true
}

var errBadWeight = errors.New("weight must be a positive number")

// ParseWeight parses a finite, positive real number.
func ParseWeight(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errBadWeight
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 0, errBadWeight
	}
	return w, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
