package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weightduel/internal/adapter/postgres"
	"weightduel/internal/domain"
)

// openTestDB connects to WEIGHTDUEL_TEST_DATABASE_URL or skips.
func openTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	connStr := os.Getenv("WEIGHTDUEL_TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("WEIGHTDUEL_TEST_DATABASE_URL not set")
	}
	db, err := postgres.Open(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEntries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := "Matthew"
	date := "1999-01-01"
	t.Cleanup(func() { _, _ = db.DeleteEntry(ctx, user, date) })

	require.NoError(t, db.UpsertEntry(ctx, domain.Entry{User: user, Date: date, Weight: 160}))
	require.NoError(t, db.UpsertEntries(ctx, []domain.Entry{{User: user, Date: date, Weight: 158.5}}))

	entries, err := db.ListEntries(ctx)
	require.NoError(t, err)
	var found []domain.Entry
	for _, e := range entries {
		if e.Key() == (domain.Key{User: user, Date: date}) {
			found = append(found, e)
		}
	}
	require.Len(t, found, 1)
	assert.Equal(t, 158.5, found[0].Weight)

	ok, err := db.DeleteEntry(ctx, user, date)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.CreateSession(ctx, domain.Session{Token: "pg-test", User: "Jasmine", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	s, err := db.GetSession(ctx, "pg-test")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "Jasmine", s.User)

	require.NoError(t, db.DeleteSession(ctx, "pg-test"))
	s, err = db.GetSession(ctx, "pg-test")
	require.NoError(t, err)
	assert.Nil(t, s)
}
