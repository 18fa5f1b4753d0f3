package service

import (
	"context"
	"fmt"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/repository"
	"reservation-backoffice/internal/utils"
)

const (
	topDashboardLocations = 5
	seriesWindowDays      = 90
)

type dashboardService struct {
	statsRepo      repository.StatsRepository
	commissionRepo repository.CommissionRepository
	cache          DashboardCache
	loc            *time.Location
	now            func() time.Time
}

func NewDashboardService(
	statsRepo repository.StatsRepository,
	commissionRepo repository.CommissionRepository,
	cache DashboardCache,
	loc *time.Location,
) DashboardService {
	if cache == nil {
		cache = NopCache()
	}
	if loc == nil {
		loc = time.Local
	}
	return &dashboardService{
		statsRepo:      statsRepo,
		commissionRepo: commissionRepo,
		cache:          cache,
		loc:            loc,
		now:            time.Now,
	}
}

// cached serves key from the cache or computes and stores it. Cache errors only cost a
// recomputation.
func cached[T any](ctx context.Context, cache DashboardCache, key string, compute func() (*T, error)) (*T, error) {
	var hit T
	ok, err := cache.Get(ctx, key, &hit)
	if err != nil {
		logger.WarnContext(ctx, "Dashboard cache read failed", "key", key, "error", err)
	}
	if ok {
		return &hit, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, key, v); err != nil {
		logger.WarnContext(ctx, "Dashboard cache write failed", "key", key, "error", err)
	}
	return v, nil
}

func scopeKey(scope *int32) string {
	if scope == nil {
		return "all"
	}
	return fmt.Sprintf("c%d", *scope)
}

// temporal counts reservations created today, this week, this month and last month
func (s *dashboardService) temporal(ctx context.Context, now time.Time, scope *int32) (domain.TemporalStats, error) {
	var t domain.TemporalStats
	windows := []struct {
		period domain.Period
		dest   *int32
	}{
		{utils.TodayRange(now, s.loc), &t.Today},
		{utils.WeekRange(now, s.loc), &t.ThisWeek},
		{utils.MonthRange(now, s.loc), &t.ThisMonth},
		{utils.LastMonthRange(now, s.loc), &t.LastMonth},
	}
	for _, w := range windows {
		n, err := s.statsRepo.CountCreatedBetween(ctx, w.period.Start, w.period.End, scope)
		if err != nil {
			return t, err
		}
		*w.dest = n
	}
	t.MonthGrowth = utils.GrowthPercentage(t.ThisMonth, t.LastMonth)
	return t, nil
}

func (s *dashboardService) AdminDashboard(ctx context.Context, actor domain.ActorContext) (*domain.AdminDashboard, error) {
	const method = "DashboardService.AdminDashboard"
	if err := requireAdmin(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	now := s.now()
	key := "admin:" + utils.DayKey(now, s.loc)
	d, err := cached(ctx, s.cache, key, func() (*domain.AdminDashboard, error) {
		var d domain.AdminDashboard
		var err error
		if d.Overview, err = s.statsRepo.CountByStatus(ctx, nil); err != nil {
			return nil, err
		}
		if d.Temporal, err = s.temporal(ctx, now, nil); err != nil {
			return nil, err
		}
		byLocation, err := s.statsRepo.CountByLocation(ctx, nil)
		if err != nil {
			return nil, err
		}
		d.TopLocations = utils.RankLocations(byLocation, topDashboardLocations)
		byCommission, err := s.statsRepo.CountByCommission(ctx)
		if err != nil {
			return nil, err
		}
		d.Commissions = utils.RankCommissions(byCommission)
		return &d, nil
	})
	if err != nil {
		return nil, fail(ctx, method, err)
	}
	return d, nil
}

func (s *dashboardService) CEEDashboard(ctx context.Context, actor domain.ActorContext) (*domain.CEEDashboard, error) {
	const method = "DashboardService.CEEDashboard"
	if err := requireValidator(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	if actor.CommissionID == nil {
		return nil, fail(ctx, method, domain.NewNotFoundError("you are not assigned to a commission"))
	}
	commissionID := *actor.CommissionID
	scope := &commissionID

	now := s.now()
	key := fmt.Sprintf("cee:%s:u%d:%s", scopeKey(scope), actor.UserID, utils.DayKey(now, s.loc))
	d, err := cached(ctx, s.cache, key, func() (*domain.CEEDashboard, error) {
		var d domain.CEEDashboard
		var err error
		if d.Commission, err = s.commissionRepo.GetByID(ctx, commissionID); err != nil {
			return nil, err
		}
		if d.Overview, err = s.statsRepo.CountByStatus(ctx, scope); err != nil {
			return nil, err
		}
		if d.MyActions, err = s.statsRepo.CountValidatedBy(ctx, actor.UserID, scope); err != nil {
			return nil, err
		}
		if d.Temporal, err = s.temporal(ctx, now, scope); err != nil {
			return nil, err
		}
		byLocation, err := s.statsRepo.CountByLocation(ctx, scope)
		if err != nil {
			return nil, err
		}
		d.Locations = utils.RankLocations(byLocation, 0)
		return &d, nil
	})
	if err != nil {
		return nil, fail(ctx, method, err, "commission_id", commissionID)
	}
	return d, nil
}

func (s *dashboardService) TimeSeries(ctx context.Context, actor domain.ActorContext) ([]domain.DailyPoint, error) {
	const method = "DashboardService.TimeSeries"
	if err := requireValidator(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	scope := actor.Scope()
	now := s.now()
	key := fmt.Sprintf("series:%s:%s", scopeKey(scope), utils.DayKey(now, s.loc))
	points, err := cached(ctx, s.cache, key, func() (*[]domain.DailyPoint, error) {
		today := utils.StartOfDay(now, s.loc)
		from := today.AddDate(0, 0, -seriesWindowDays)
		to := today.AddDate(0, 0, 1)
		reservations, err := s.statsRepo.ListCreatedBetween(ctx, from, to, scope)
		if err != nil {
			return nil, err
		}
		series := utils.DailySeries(reservations, now, seriesWindowDays, s.loc)
		return &series, nil
	})
	if err != nil {
		return nil, fail(ctx, method, err)
	}
	return *points, nil
}
