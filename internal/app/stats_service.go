package app

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"weightduel/internal/analytics"
	"weightduel/internal/domain"
)

// UserStats pairs a user with the statistics of their full series.
type UserStats struct {
	User     string             `json:"user"`
	Stats    analytics.Stats    `json:"stats"`
	Rendered analytics.Rendered `json:"rendered"`
}

// StatsService computes per-user trend statistics.
type StatsService struct {
	repo   domain.EntryRepository
	users  domain.Users
	clock  clockwork.Clock
	policy analytics.RatePolicy
}

// NewStatsService creates a StatsService backed by the given repository.
func NewStatsService(repo domain.EntryRepository, users domain.Users, clock clockwork.Clock, policy analytics.RatePolicy) *StatsService {
	return &StatsService{repo: repo, users: users, clock: clock, policy: policy}
}

// All returns statistics for every configured user, in configuration order.
// Statistics always cover the full series, never a display window.
func (s *StatsService) All(ctx context.Context) ([]UserStats, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	now := s.clock.Now()
	out := make([]UserStats, 0, len(s.users))
	for _, u := range s.users {
		st := analytics.Compute(domain.ForUser(entries, u), now, s.policy)
		out = append(out, UserStats{User: u, Stats: st, Rendered: st.Render()})
	}
	return out, nil
}
