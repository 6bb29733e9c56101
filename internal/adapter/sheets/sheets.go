// Package sheets stores entries in a Google Sheets worksheet, one row per
// entry under a user,date,weight header. Every write rewrites the sheet in a
// single update, blanking rows left over from the previous contents.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"weightduel/internal/domain"
	"weightduel/internal/normalize"
)

// DefaultSheet is the worksheet used when none is configured.
const DefaultSheet = "Sheet1"

// NewService builds a Sheets client from a service account or OAuth
// credentials JSON document.
func NewService(ctx context.Context, credentialsJSON []byte, opts ...option.ClientOption) (*gsheets.Service, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	opts = append([]option.ClientOption{option.WithTokenSource(creds.TokenSource)}, opts...)
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets client: %w", err)
	}
	return svc, nil
}

// Store is an EntryRepository on one worksheet. Writes are serialized
// in-process; the sheet itself offers no per-key upsert.
type Store struct {
	mu            sync.Mutex
	svc           *gsheets.Service
	spreadsheetID string
	sheet         string
}

var _ domain.EntryRepository = (*Store)(nil)

// New creates a Store on the given spreadsheet and worksheet.
func New(svc *gsheets.Service, spreadsheetID, sheet string) *Store {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}
}

func (s *Store) dataRange() string {
	return "'" + strings.ReplaceAll(s.sheet, "'", "''") + "'!A:C"
}

// ListEntries reads the whole worksheet. Rows whose date or weight do not
// parse are left out; the header row is skipped.
func (s *Store) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, _, err := s.readAll(ctx)
	return entries, err
}

// UpsertEntry merges e into the sheet.
func (s *Store) UpsertEntry(ctx context.Context, e domain.Entry) error {
	return s.UpsertEntries(ctx, []domain.Entry{e})
}

// UpsertEntries merges entries into the sheet with a single rewrite.
func (s *Store) UpsertEntries(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, rows, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	return s.writeAll(ctx, merge(current, entries), rows)
}

// DeleteEntry removes the row at (user, date) if present.
func (s *Store) DeleteEntry(ctx context.Context, user, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, rows, err := s.readAll(ctx)
	if err != nil {
		return false, err
	}
	k := domain.Key{User: user, Date: date}
	kept := current[:0]
	for _, e := range current {
		if e.Key() != k {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(current) {
		return false, nil
	}
	return true, s.writeAll(ctx, kept, rows)
}

// readAll returns the valid entries and the number of rows the sheet holds,
// header and unparseable rows included.
func (s *Store) readAll(ctx context.Context) ([]domain.Entry, int, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.dataRange()).Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet: %w", err)
	}
	if len(resp.Values) <= 1 {
		return nil, len(resp.Values), nil
	}

	out := make([]domain.Entry, 0, len(resp.Values)-1)
	for i, row := range resp.Values[1:] {
		e, ok := rowToEntry(row)
		if !ok {
			log.Debugf("sheets: ignoring row %d: %v", i+2, row)
			continue
		}
		out = append(out, e)
	}
	return out, len(resp.Values), nil
}

// writeAll replaces the sheet contents with entries in one request. Rows past
// the new end, up to prevRows, are overwritten with blanks, so a failed
// write leaves the previous contents in place.
func (s *Store) writeAll(ctx context.Context, entries []domain.Entry, prevRows int) error {
	domain.SortByDate(entries)

	n := len(entries) + 1
	values := make([][]interface{}, 0, max(n, prevRows))
	values = append(values, []interface{}{"user", "date", "weight"})
	for _, e := range entries {
		values = append(values, []interface{}{e.User, e.Date, strconv.FormatFloat(e.Weight, 'f', -1, 64)})
	}
	for len(values) < prevRows {
		values = append(values, []interface{}{"", "", ""})
	}

	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, s.dataRange(), &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}
	return nil
}

func rowToEntry(row []interface{}) (domain.Entry, bool) {
	if len(row) < 3 {
		return domain.Entry{}, false
	}
	date, err := normalize.ParseDate(fmt.Sprint(row[1]))
	if err != nil {
		return domain.Entry{}, false
	}
	w, err := normalize.ParseWeight(fmt.Sprint(row[2]))
	if err != nil {
		return domain.Entry{}, false
	}
	return domain.Entry{User: fmt.Sprint(row[0]), Date: date, Weight: w}, true
}

// merge applies updates over current by key, last write winning.
func merge(current, updates []domain.Entry) []domain.Entry {
	byKey := make(map[domain.Key]int, len(current))
	out := make([]domain.Entry, 0, len(current)+len(updates))
	for _, e := range append(current, updates...) {
		if i, ok := byKey[e.Key()]; ok {
			out[i] = e
			continue
		}
		byKey[e.Key()] = len(out)
		out = append(out, e)
	}
	return out
}
