package sheets_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"weightduel/internal/adapter/sheets"
	"weightduel/internal/domain"
)

// fakeSheet serves the values endpoints. Like the real API it drops blank
// trailing rows from what it stores.
type fakeSheet struct {
	mu      sync.Mutex
	rows    [][]string
	writes  int
	clears  int
	failPut bool
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !strings.Contains(r.URL.Path, "/v4/spreadsheets/sheet-id/values/") {
		http.NotFound(w, r)
		return
	}

	switch {
	case r.Method == http.MethodGet:
		values := make([][]string, len(f.rows))
		copy(values, f.rows)
		_ = json.NewEncoder(w).Encode(map[string]any{"range": "Sheet1!A1:C", "majorDimension": "ROWS", "values": values})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		f.rows = nil
		f.clears++
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-id"})
	case r.Method == http.MethodPut:
		if f.failPut {
			http.Error(w, `{"error":{"code":403,"message":"quota exceeded"}}`, http.StatusForbidden)
			return
		}
		if r.URL.Query().Get("valueInputOption") != "RAW" {
			http.Error(w, "missing valueInputOption", http.StatusBadRequest)
			return
		}
		var body struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.rows = nil
		for _, row := range body.Values {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = fmt.Sprint(c)
			}
			f.rows = append(f.rows, cells)
		}
		for len(f.rows) > 0 && blank(f.rows[len(f.rows)-1]) {
			f.rows = f.rows[:len(f.rows)-1]
		}
		f.writes++
		_ = json.NewEncoder(w).Encode(map[string]any{"updatedRows": len(f.rows)})
	default:
		http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusMethodNotAllowed)
	}
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

func newStore(t *testing.T, f *fakeSheet) *sheets.Store {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	svc, err := gsheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return sheets.New(svc, "sheet-id", "")
}

func TestStore_ListEntries(t *testing.T) {
	f := &fakeSheet{rows: [][]string{
		{"user", "date", "weight"},
		{"Matthew", "2025-01-01", "160"},
		{"Jasmine", "1/2/2025", "130.5"},
		{"Jasmine", "2025-01-03"},
		{"Matthew", "2025-01-04", "abc"},
	}}
	store := newStore(t, f)

	entries, err := store.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Entry{
		{User: "Matthew", Date: "2025-01-01", Weight: 160},
		{User: "Jasmine", Date: "2025-01-02", Weight: 130.5},
	}, entries)
}

func TestStore_ListEntries_EmptySheet(t *testing.T) {
	store := newStore(t, &fakeSheet{})
	entries, err := store.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_Upsert(t *testing.T) {
	f := &fakeSheet{rows: [][]string{
		{"user", "date", "weight"},
		{"Matthew", "2025-01-02", "159"},
	}}
	store := newStore(t, f)
	ctx := context.Background()

	require.NoError(t, store.UpsertEntry(ctx, domain.Entry{User: "Matthew", Date: "2025-01-02", Weight: 158.6}))
	require.NoError(t, store.UpsertEntries(ctx, []domain.Entry{
		{User: "Jasmine", Date: "2025-01-01", Weight: 131},
		{User: "Matthew", Date: "2025-01-03", Weight: 158},
	}))

	assert.Equal(t, [][]string{
		{"user", "date", "weight"},
		{"Jasmine", "2025-01-01", "131"},
		{"Matthew", "2025-01-02", "158.6"},
		{"Matthew", "2025-01-03", "158"},
	}, f.rows)
	assert.Equal(t, 2, f.writes)
}

func TestStore_Delete(t *testing.T) {
	f := &fakeSheet{rows: [][]string{
		{"user", "date", "weight"},
		{"Matthew", "2025-01-02", "159"},
		{"Jasmine", "2025-01-02", "130"},
	}}
	store := newStore(t, f)
	ctx := context.Background()

	ok, err := store.DeleteEntry(ctx, "Matthew", "2025-01-02")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, [][]string{{"user", "date", "weight"}, {"Jasmine", "2025-01-02", "130"}}, f.rows)

	ok, err = store.DeleteEntry(ctx, "Matthew", "2025-01-02")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, f.writes)
	assert.Zero(t, f.clears)
}

func TestStore_FailedWriteKeepsRows(t *testing.T) {
	f := &fakeSheet{rows: [][]string{
		{"user", "date", "weight"},
		{"Matthew", "2025-01-02", "159"},
		{"Jasmine", "2025-01-02", "130"},
	}}
	store := newStore(t, f)
	ctx := context.Background()

	f.failPut = true
	err := store.UpsertEntry(ctx, domain.Entry{User: "Matthew", Date: "2025-01-03", Weight: 158})
	require.Error(t, err)
	_, err = store.DeleteEntry(ctx, "Jasmine", "2025-01-02")
	require.Error(t, err)

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Zero(t, f.clears)
}

func TestStore_ShrinkBlanksLeftoverRows(t *testing.T) {
	f := &fakeSheet{rows: [][]string{
		{"user", "date", "weight"},
		{"Matthew", "2025-01-01", "160"},
		{"Matthew", "2025-01-02", "159"},
		{"Matthew", "2025-01-03", "not a weight"},
	}}
	store := newStore(t, f)
	ctx := context.Background()

	ok, err := store.DeleteEntry(ctx, "Matthew", "2025-01-01")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, [][]string{{"user", "date", "weight"}, {"Matthew", "2025-01-02", "159"}}, f.rows)
}

func TestNewService_BadCredentials(t *testing.T) {
	_, err := sheets.NewService(context.Background(), []byte("{not json"))
	assert.Error(t, err)
}
