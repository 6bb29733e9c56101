package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"weightduel/internal/analytics"
	"weightduel/internal/app"
	"weightduel/internal/domain"
)

func chartEntries() []domain.Entry {
	return []domain.Entry{
		{User: "Jasmine", Date: "2025-03-19", Weight: 140},
		{User: "Matthew", Date: "2025-02-18", Weight: 165},
		{User: "Matthew", Date: "2025-02-19", Weight: 164},
		{User: "Matthew", Date: "2025-03-20", Weight: 160},
	}
}

func TestSeries_Window(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockEntryRepository(ctrl)
	repo.EXPECT().ListEntries(gomock.Any()).Return(chartEntries(), nil)

	svc := app.NewChartsService(repo, testUsers, newTestClock())
	series, err := svc.Series(context.Background(), analytics.Window30D, nil, domain.UnitLb)
	require.NoError(t, err)
	require.Len(t, series, 2)

	// cutoff is 2025-02-18, inclusive
	assert.Equal(t, "Matthew", series[0].User)
	assert.Equal(t, []app.Point{
		{Date: "2025-02-18", Weight: 165},
		{Date: "2025-02-19", Weight: 164},
		{Date: "2025-03-20", Weight: 160},
	}, series[0].Points)
	assert.Equal(t, []app.Point{{Date: "2025-03-19", Weight: 140}}, series[1].Points)
}

func TestSeries_SelectedUserInKg(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockEntryRepository(ctrl)
	repo.EXPECT().ListEntries(gomock.Any()).Return(chartEntries(), nil)

	svc := app.NewChartsService(repo, testUsers, newTestClock())
	series, err := svc.Series(context.Background(), analytics.WindowWeek, []string{"Jasmine"}, domain.UnitKg)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "kg", series[0].Unit)
	require.Len(t, series[0].Points, 1)
	assert.InDelta(t, 63.5, series[0].Points[0].Weight, 0.01)
}

func TestSeries_BadInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockEntryRepository(ctrl)
	svc := app.NewChartsService(repo, testUsers, newTestClock())

	_, err := svc.Series(context.Background(), analytics.WindowAll, nil, "stones")
	assert.ErrorIs(t, err, app.ErrInvalidUnit)

	_, err = svc.Series(context.Background(), analytics.WindowAll, []string{"Bob"}, domain.UnitLb)
	assert.ErrorIs(t, err, app.ErrUnknownUser)
}
