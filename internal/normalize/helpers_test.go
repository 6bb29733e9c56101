package normalize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"weightduel/internal/domain"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DayLayout, s)
	require.NoError(t, err)
	return d
}
