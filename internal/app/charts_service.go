package app

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"weightduel/internal/analytics"
	"weightduel/internal/domain"
)

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	repo  domain.EntryRepository
	users domain.Users
	clock clockwork.Clock
}

// NewChartsService creates a ChartsService backed by the given repository.
func NewChartsService(repo domain.EntryRepository, users domain.Users, clock clockwork.Clock) *ChartsService {
	return &ChartsService{repo: repo, users: users, clock: clock}
}

// Point is a single chart data point.
type Point struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// Series is one user's date-ordered points within a window.
type Series struct {
	User   string  `json:"user"`
	Unit   string  `json:"unit"`
	Points []Point `json:"points"`
}

// Series returns the windowed series of each selected user, with weights
// converted to unit. No selection means every configured user.
func (s *ChartsService) Series(ctx context.Context, window analytics.Window, users []string, unit string) ([]Series, error) {
	if unit != domain.UnitLb && unit != domain.UnitKg {
		return nil, ErrInvalidUnit
	}
	if len(users) == 0 {
		users = s.users
	}
	for _, u := range users {
		if !s.users.Contains(u) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownUser, u)
		}
	}

	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	domain.SortByDate(entries)
	entries = window.Filter(entries, s.clock.Now())

	out := make([]Series, 0, len(users))
	for _, u := range users {
		mine := domain.ForUser(entries, u)
		points := make([]Point, 0, len(mine))
		for _, e := range mine {
			points = append(points, Point{Date: e.Date, Weight: domain.ConvertWeight(e.Weight, domain.UnitLb, unit)})
		}
		out = append(out, Series{User: u, Unit: unit, Points: points})
	}
	return out, nil
}
