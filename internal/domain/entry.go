// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"sort"
	"time"
)

// DayLayout is the canonical textual form of an entry date.
const DayLayout = "2006-01-02"

// Entry is one weight observation for a user on a calendar day.
// (User, Date) is the natural key.
type Entry struct {
	User   string  `json:"user"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// Key identifies an entry in the store.
type Key struct {
	User string
	Date string
}

// Key returns the natural key of the entry.
func (e Entry) Key() Key {
	return Key{User: e.User, Date: e.Date}
}

// Day parses the entry date. Dates are stored canonical, so the error is
// only non-nil for entries that bypassed normalization.
func (e Entry) Day() (time.Time, error) {
	return time.Parse(DayLayout, e.Date)
}

// FormatDay renders t as a canonical entry date in t's own location.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// EntryRepository is the port for entry persistence. Implementations upsert
// by key; ListEntries returns entries in no particular order.
type EntryRepository interface {
	UpsertEntry(ctx context.Context, e Entry) error
	UpsertEntries(ctx context.Context, entries []Entry) error
	ListEntries(ctx context.Context) ([]Entry, error)
	DeleteEntry(ctx context.Context, user, date string) (bool, error)
}

// SortByDate sorts entries ascending by date, then by user. Canonical dates
// order lexically.
func SortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].User < entries[j].User
	})
}

// ForUser returns the entries belonging to user, preserving order.
func ForUser(entries []Entry, user string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.User == user {
			out = append(out, e)
		}
	}
	return out
}
