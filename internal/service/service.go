package service

import (
	"context"
	"time"

	"reservation-backoffice/internal/domain"
)

// Every operation receives the caller as an explicit ActorContext resolved at the
// transport boundary.

type AuthService interface {
	// Login verifies credentials and returns a signed session token
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type CommissionService interface {
	List(ctx context.Context, actor domain.ActorContext, filter domain.CommissionFilter) (*domain.PaginatedResult[domain.Commission], error)
	Get(ctx context.Context, actor domain.ActorContext, id int32) (*domain.Commission, error)
	ListForSelect(ctx context.Context, actor domain.ActorContext) ([]domain.Commission, error)
	Create(ctx context.Context, actor domain.ActorContext, input domain.CommissionInput) (*domain.Commission, error)
	Update(ctx context.Context, actor domain.ActorContext, id int32, input domain.CommissionInput) (*domain.Commission, error)
	Delete(ctx context.Context, actor domain.ActorContext, id int32) error
}

type LocationService interface {
	List(ctx context.Context, actor domain.ActorContext, filter domain.LocationFilter) (*domain.PaginatedResult[domain.Location], error)
	Get(ctx context.Context, actor domain.ActorContext, id int32) (*domain.Location, error)
	// ListForSelect returns every location for admins, only their commission's for CEE
	ListForSelect(ctx context.Context, actor domain.ActorContext) ([]domain.Location, error)
	Create(ctx context.Context, actor domain.ActorContext, input domain.LocationInput) (*domain.Location, error)
	Update(ctx context.Context, actor domain.ActorContext, id int32, input domain.LocationInput) (*domain.Location, error)
	Delete(ctx context.Context, actor domain.ActorContext, id int32) error
}

type UserService interface {
	List(ctx context.Context, actor domain.ActorContext, filter domain.UserFilter) (*domain.PaginatedResult[domain.User], error)
	Get(ctx context.Context, actor domain.ActorContext, id int32) (*domain.User, error)
	// Create returns the new user and its generated password
	Create(ctx context.Context, actor domain.ActorContext, input domain.CreateUserInput) (*domain.User, string, error)
	Update(ctx context.Context, actor domain.ActorContext, id int32, input domain.UpdateUserInput) (*domain.User, error)
	UpdateCommission(ctx context.Context, actor domain.ActorContext, userID, commissionID int32) error
	Delete(ctx context.Context, actor domain.ActorContext, id int32) error
}

type ReservationService interface {
	HasConflict(ctx context.Context, locationID int32, start, end time.Time, excludeID *int32) (bool, error)
	Create(ctx context.Context, actor domain.ActorContext, input domain.CreateReservationInput) (*domain.Reservation, error)
	Accept(ctx context.Context, actor domain.ActorContext, id int32) (*domain.Reservation, error)
	Reject(ctx context.Context, actor domain.ActorContext, id int32, reason string) (*domain.Reservation, error)
	Delete(ctx context.Context, actor domain.ActorContext, id int32) error
	List(ctx context.Context, actor domain.ActorContext, filter domain.ReservationFilter) (*domain.PaginatedResult[domain.Reservation], error)
	Get(ctx context.Context, actor domain.ActorContext, id int32) (*domain.Reservation, error)
	Recent(ctx context.Context, actor domain.ActorContext) ([]domain.Reservation, error)
}

type DashboardService interface {
	AdminDashboard(ctx context.Context, actor domain.ActorContext) (*domain.AdminDashboard, error)
	CEEDashboard(ctx context.Context, actor domain.ActorContext) (*domain.CEEDashboard, error)
	TimeSeries(ctx context.Context, actor domain.ActorContext) ([]domain.DailyPoint, error)
}

type ReportService interface {
	MonthlyReport(ctx context.Context, actor domain.ActorContext, period domain.Period) (*domain.MonthlyReport, error)
	CommissionReport(ctx context.Context, actor domain.ActorContext, commissionID int32, period domain.Period) (*domain.CommissionReport, error)
	// SendMonthlyReport aggregates the selected month and emails it to every admin
	SendMonthlyReport(ctx context.Context, period domain.ReportPeriod) (*domain.MonthlyReportSummary, error)
}

type EmailService interface {
	SendReservationAccepted(ctx context.Context, to string, notice domain.ReservationNotice) error
	SendReservationRejected(ctx context.Context, to string, notice domain.ReservationNotice) error
	SendWelcome(ctx context.Context, notice domain.WelcomeNotice) error
	SendMonthlyReport(ctx context.Context, to []string, report domain.MonthlyReportEmail) error
}

// DashboardCache stores computed dashboards. Invalidate is the signal emitted after
// every reservation, location or commission mutation.
type DashboardCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

type nopCache struct{}

// NopCache is used when no cache backend is configured
func NopCache() DashboardCache { return nopCache{} }

func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, any) error         { return nil }
func (nopCache) Invalidate(context.Context) error               { return nil }
