package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"weightduel/internal/domain"
	"weightduel/internal/metrics"
	"weightduel/internal/normalize"
)

// EntryService encapsulates logging, importing and exporting weight entries.
type EntryService struct {
	repo       domain.EntryRepository
	users      domain.Users
	normalizer *normalize.Normalizer
	clock      clockwork.Clock
	metrics    *metrics.Manager
}

// NewEntryService creates an EntryService backed by the given repository.
func NewEntryService(repo domain.EntryRepository, users domain.Users, clock clockwork.Clock, m *metrics.Manager) *EntryService {
	return &EntryService{
		repo:       repo,
		users:      users,
		normalizer: normalize.New(users),
		clock:      clock,
		metrics:    m,
	}
}

// Today returns the current local calendar day in canonical form.
func (s *EntryService) Today() string {
	return domain.FormatDay(s.clock.Now())
}

// LogWeight stores or overwrites user's weight for date. An empty date means
// today.
func (s *EntryService) LogWeight(ctx context.Context, user, date string, weight float64) (domain.Entry, error) {
	if !s.users.Contains(user) {
		return domain.Entry{}, fmt.Errorf("%w: %q", ErrUnknownUser, user)
	}
	if !(weight >= MinWeight && weight <= MaxWeight) {
		return domain.Entry{}, fmt.Errorf("%w: %.1f not in [%.0f, %.0f]", ErrWeightOutOfRange, weight, MinWeight, MaxWeight)
	}

	day := s.Today()
	if date != "" {
		var err error
		if day, err = normalize.ParseDate(date); err != nil {
			return domain.Entry{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
	}

	e := domain.Entry{User: user, Date: day, Weight: weight}
	if err := s.repo.UpsertEntry(ctx, e); err != nil {
		return domain.Entry{}, fmt.Errorf("upsert entry: %w", err)
	}
	s.metrics.CounterEntriesLogged.WithLabelValues(user).Inc()
	return e, nil
}

// Delete removes user's entry for date, reporting whether one existed.
func (s *EntryService) Delete(ctx context.Context, user, date string) (bool, error) {
	if !s.users.Contains(user) {
		return false, fmt.Errorf("%w: %q", ErrUnknownUser, user)
	}
	day, err := normalize.ParseDate(date)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	deleted, err := s.repo.DeleteEntry(ctx, user, day)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	if deleted {
		s.metrics.CounterEntriesDeleted.Inc()
	}
	return deleted, nil
}

// List returns every stored entry sorted by date, then user.
func (s *EntryService) List(ctx context.Context) ([]domain.Entry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	domain.SortByDate(entries)
	return entries, nil
}

// Recent returns up to limit entries of all users, most recent date first.
func (s *EntryService) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Import reads a CSV document and upserts every valid row. A *normalize.SchemaError
// is returned, and nothing stored, when a column role cannot be identified.
// Stream and CSV syntax failures are wrapped in ErrBadUpload.
func (s *EntryService) Import(ctx context.Context, r io.Reader) (normalize.Result, error) {
	table, err := normalize.ReadCSV(r)
	if err != nil {
		return normalize.Result{}, fmt.Errorf("%w: %w", ErrBadUpload, err)
	}

	entries, res, err := s.normalizer.Normalize(table)
	if err != nil {
		if errors.Is(err, normalize.ErrSchema) {
			s.metrics.CounterSchemaErrors.Inc()
		}
		return normalize.Result{}, err
	}

	if len(entries) > 0 {
		if err := s.repo.UpsertEntries(ctx, entries); err != nil {
			return normalize.Result{}, fmt.Errorf("upsert entries: %w", err)
		}
	}

	s.metrics.CounterImportRows.WithLabelValues("imported").Add(float64(res.Imported))
	s.metrics.CounterImportRows.WithLabelValues("skipped").Add(float64(res.Skipped))
	logrus.WithFields(logrus.Fields{
		"imported": res.Imported,
		"skipped":  res.Skipped,
	}).Info("csv import finished")
	return res, nil
}

// Export writes every entry as CSV, sorted by date then user.
func (s *EntryService) Export(ctx context.Context, w io.Writer) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	return normalize.WriteCSV(w, entries)
}

// ExportFilename is the suggested backup file name for today.
func (s *EntryService) ExportFilename() string {
	return "weight_duel_backup_" + s.Today() + ".csv"
}
