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

const topReportLocations = 10

type reportService struct {
	statsRepo      repository.StatsRepository
	commissionRepo repository.CommissionRepository
	locationRepo   repository.LocationRepository
	userRepo       repository.UserRepository
	emailSvc       EmailService
	loc            *time.Location
	now            func() time.Time
}

func NewReportService(
	statsRepo repository.StatsRepository,
	commissionRepo repository.CommissionRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	loc *time.Location,
) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{
		statsRepo:      statsRepo,
		commissionRepo: commissionRepo,
		locationRepo:   locationRepo,
		userRepo:       userRepo,
		emailSvc:       emailSvc,
		loc:            loc,
		now:            time.Now,
	}
}

func validPeriod(p domain.Period) error {
	if p.Start.IsZero() || p.End.IsZero() || !p.Start.Before(p.End) {
		return domain.NewValidationError("invalid report period")
	}
	return nil
}

func (s *reportService) aggregateMonth(ctx context.Context, period domain.Period) (*domain.MonthlyReport, error) {
	reservations, err := s.statsRepo.ListCreatedBetween(ctx, period.Start, period.End, nil)
	if err != nil {
		return nil, err
	}
	return &domain.MonthlyReport{
		Period:       period,
		Stats:        utils.CountStatuses(reservations),
		ByCommission: utils.RollupByCommission(reservations),
		TopLocations: utils.RankLocations(utils.RollupByLocation(reservations, nil), topReportLocations),
		Reservations: utils.ReportRows(reservations),
	}, nil
}

func (s *reportService) MonthlyReport(ctx context.Context, actor domain.ActorContext, period domain.Period) (*domain.MonthlyReport, error) {
	const method = "ReportService.MonthlyReport"
	logger.EnterMethod(ctx, method, "start", period.Start, "end", period.End)
	if err := requireAdmin(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	if err := validPeriod(period); err != nil {
		return nil, fail(ctx, method, err)
	}
	report, err := s.aggregateMonth(ctx, period)
	if err != nil {
		return nil, fail(ctx, method, err)
	}
	logger.ExitMethod(ctx, method, "reservations", len(report.Reservations))
	return report, nil
}

func (s *reportService) CommissionReport(ctx context.Context, actor domain.ActorContext, commissionID int32, period domain.Period) (*domain.CommissionReport, error) {
	const method = "ReportService.CommissionReport"
	logger.EnterMethod(ctx, method, "commission_id", commissionID)
	if err := requireValidator(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	if !canAccessCommission(actor, commissionID) {
		return nil, fail(ctx, method, domain.NewPermissionError("you can only view reports of your own commission"))
	}
	if err := validPeriod(period); err != nil {
		return nil, fail(ctx, method, err)
	}

	commission, err := s.commissionRepo.GetByID(ctx, commissionID)
	if err != nil {
		return nil, fail(ctx, method, err, "commission_id", commissionID)
	}
	locations, err := s.locationRepo.ListForSelect(ctx, &commissionID)
	if err != nil {
		return nil, fail(ctx, method, err)
	}
	reservations, err := s.statsRepo.ListCreatedBetween(ctx, period.Start, period.End, &commissionID)
	if err != nil {
		return nil, fail(ctx, method, err)
	}

	report := &domain.CommissionReport{
		Commission:   commission,
		Period:       period,
		Stats:        utils.CountStatuses(reservations),
		ByLocation:   utils.RankLocations(utils.RollupByLocation(reservations, locations), 0),
		ByValidator:  utils.RollupByValidator(reservations),
		Reservations: utils.ReportRows(reservations),
	}
	logger.ExitMethod(ctx, method, "reservations", len(report.Reservations))
	return report, nil
}

func (s *reportService) SendMonthlyReport(ctx context.Context, period domain.ReportPeriod) (*domain.MonthlyReportSummary, error) {
	const method = "ReportService.SendMonthlyReport"
	if period != domain.ReportPeriodCurrent {
		period = domain.ReportPeriodPrevious
	}
	logger.EnterMethod(ctx, method, "period", period)

	rng := utils.ReportRange(period, s.now(), s.loc)
	report, err := s.aggregateMonth(ctx, rng)
	if err != nil {
		return nil, fail(ctx, method, err)
	}
	summary := &domain.MonthlyReportSummary{
		Success:   true,
		Stats:     report.Stats,
		Period:    period,
		DateRange: utils.DisplayRange(rng),
	}

	admins, err := s.userRepo.ListByRole(ctx, domain.UserRoleAdmin)
	if err != nil {
		return nil, fail(ctx, method, err)
	}
	if len(admins) == 0 {
		logger.WarnContext(ctx, "No admin to send the monthly report to", "period", period)
		summary.Message = "No administrator found to receive the report"
		return summary, nil
	}
	recipients := make([]string, 0, len(admins))
	for _, a := range admins {
		recipients = append(recipients, a.Email)
	}

	month, year := utils.MonthLabel(rng)
	payload := domain.MonthlyReportEmail{
		Month:        month,
		Year:         year,
		Period:       period,
		Stats:        report.Stats,
		ByCommission: report.ByCommission,
		TopLocations: report.TopLocations,
	}
	if err := s.emailSvc.SendMonthlyReport(ctx, recipients, payload); err != nil {
		return nil, fail(ctx, method, fmt.Errorf("failed to send monthly report: %w", err))
	}

	summary.Recipients = len(recipients)
	summary.Message = fmt.Sprintf("Monthly report sent to %d administrator(s)", len(recipients))
	logger.ExitMethod(ctx, method, "recipients", summary.Recipients, "total", report.Stats.Total)
	return summary, nil
}
