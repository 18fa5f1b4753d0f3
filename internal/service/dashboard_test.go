package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"reservation-backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Wednesday
var fixedNow = time.Date(2026, 5, 20, 10, 30, 0, 0, time.UTC)

func at(want time.Time) any {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newDashboard(stats *MockStatsRepo, commissions *MockCommissionRepo, cache DashboardCache) *dashboardService {
	svc := NewDashboardService(stats, commissions, cache, time.UTC).(*dashboardService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func expectTemporal(stats *MockStatsRepo, ctx context.Context, scope *int32, today, week, month, last int32) {
	stats.On("CountCreatedBetween", ctx, at(day(2026, 5, 20)), at(day(2026, 5, 21)), scope).Return(today, nil).Once()
	stats.On("CountCreatedBetween", ctx, at(day(2026, 5, 18)), at(day(2026, 5, 25)), scope).Return(week, nil).Once()
	stats.On("CountCreatedBetween", ctx, at(day(2026, 5, 1)), at(day(2026, 6, 1)), scope).Return(month, nil).Once()
	stats.On("CountCreatedBetween", ctx, at(day(2026, 4, 1)), at(day(2026, 5, 1)), scope).Return(last, nil).Once()
}

func TestDashboardService_Admin(t *testing.T) {
	ctx := context.Background()
	stats := new(MockStatsRepo)
	svc := newDashboard(stats, nil, nil)

	stats.On("CountByStatus", ctx, (*int32)(nil)).Return(domain.StatusCounts{Total: 9, Pending: 2, Accepted: 5, Rejected: 1}, nil).Once()
	expectTemporal(stats, ctx, nil, 1, 3, 5, 0)
	stats.On("CountByLocation", ctx, (*int32)(nil)).Return([]domain.LocationCount{
		{ID: 1, Name: "A", Count: 3},
		{ID: 2, Name: "B", Count: 5},
		{ID: 3, Name: "C", Count: 3},
	}, nil).Once()
	stats.On("CountByCommission", ctx).Return([]domain.CommissionCount{
		{ID: 1, Name: "Sport", StatusCounts: domain.StatusCounts{Total: 2}},
		{ID: 2, Name: "Culture", StatusCounts: domain.StatusCounts{Total: 7}},
	}, nil).Once()

	d, err := svc.AdminDashboard(ctx, adminActor)
	require.NoError(t, err)

	assert.Equal(t, int32(9), d.Overview.Total)
	assert.Equal(t, int32(5), d.Temporal.ThisMonth)
	assert.Zero(t, d.Temporal.MonthGrowth)
	require.Len(t, d.TopLocations, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{d.TopLocations[0].Name, d.TopLocations[1].Name, d.TopLocations[2].Name})
	assert.Equal(t, "Culture", d.Commissions[0].Name)
	stats.AssertExpectations(t)

	_, err = svc.AdminDashboard(ctx, ceeActor)
	assert.ErrorIs(t, err, domain.ErrPermission)
}

func TestDashboardService_CEE(t *testing.T) {
	ctx := context.Background()

	t.Run("Without commission", func(t *testing.T) {
		svc := newDashboard(new(MockStatsRepo), nil, nil)
		orphan := ceeActor
		orphan.CommissionID = nil
		_, err := svc.CEEDashboard(ctx, orphan)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Scoped", func(t *testing.T) {
		stats := new(MockStatsRepo)
		commissions := new(MockCommissionRepo)
		svc := newDashboard(stats, commissions, nil)
		scope := int32Ptr(10)

		commissions.On("GetByID", ctx, int32(10)).Return(&domain.Commission{ID: 10, Name: "Culture"}, nil).Once()
		stats.On("CountByStatus", ctx, scope).Return(domain.StatusCounts{Total: 4}, nil).Once()
		stats.On("CountValidatedBy", ctx, ceeActor.UserID, scope).Return(domain.MyActions{Validated: 2, Rejected: 1, Total: 3}, nil).Once()
		expectTemporal(stats, ctx, scope, 0, 1, 6, 4)
		stats.On("CountByLocation", ctx, scope).Return([]domain.LocationCount{{ID: 5, Name: "Salle B12", Count: 4}}, nil).Once()

		d, err := svc.CEEDashboard(ctx, ceeActor)
		require.NoError(t, err)
		assert.Equal(t, "Culture", d.Commission.Name)
		assert.Equal(t, int32(3), d.MyActions.Total)
		assert.InDelta(t, 50.0, d.Temporal.MonthGrowth, 0.001)
		stats.AssertExpectations(t)
	})
}

// mapCache is an in-memory DashboardCache keeping values by identity
type mapCache struct {
	values map[string]any
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *[]domain.DailyPoint:
		*d = *(v.(*[]domain.DailyPoint))
	default:
		return false, errors.New("unsupported type")
	}
	return true, nil
}

func (c *mapCache) Set(_ context.Context, key string, value any) error {
	c.values[key] = value
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	clear(c.values)
	return nil
}

func TestDashboardService_TimeSeries(t *testing.T) {
	ctx := context.Background()
	stats := new(MockStatsRepo)
	cache := &mapCache{values: map[string]any{}}
	svc := newDashboard(stats, nil, cache)

	created := time.Date(2026, 5, 19, 15, 0, 0, 0, time.UTC)
	stats.On("ListCreatedBetween", ctx, at(day(2026, 2, 19)), at(day(2026, 5, 21)), int32Ptr(10)).Return([]domain.Reservation{
		{ID: 1, Status: domain.ReservationStatusAccepted, CreatedAt: created},
		{ID: 2, Status: domain.ReservationStatusPending, CreatedAt: created},
	}, nil).Once()

	points, err := svc.TimeSeries(ctx, ceeActor)
	require.NoError(t, err)
	require.Len(t, points, 91)
	assert.Equal(t, "2026-02-19", points[0].Date)
	assert.Equal(t, "2026-05-20", points[90].Date)
	assert.Equal(t, int32(2), points[89].Total)

	// served from cache
	again, err := svc.TimeSeries(ctx, ceeActor)
	require.NoError(t, err)
	assert.Equal(t, points, again)
	stats.AssertNumberOfCalls(t, "ListCreatedBetween", 1)

	_, err = svc.TimeSeries(ctx, student)
	assert.ErrorIs(t, err, domain.ErrPermission)
}
