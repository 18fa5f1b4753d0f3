package service

import (
	"context"
	"time"

	"reservation-backoffice/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockCommissionRepo
type MockCommissionRepo struct {
	mock.Mock
}

func (m *MockCommissionRepo) Create(ctx context.Context, c *domain.Commission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCommissionRepo) GetByID(ctx context.Context, id int32) (*domain.Commission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commission), args.Error(1)
}
func (m *MockCommissionRepo) GetWithRelations(ctx context.Context, id int32) (*domain.Commission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commission), args.Error(1)
}
func (m *MockCommissionRepo) List(ctx context.Context, filter domain.CommissionFilter) ([]domain.Commission, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Commission), args.Get(1).(int32), args.Error(2)
}
func (m *MockCommissionRepo) ListForSelect(ctx context.Context) ([]domain.Commission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Commission), args.Error(1)
}
func (m *MockCommissionRepo) Update(ctx context.Context, c *domain.Commission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCommissionRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCommissionRepo) CountDependents(ctx context.Context, id int32) (int32, int32, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Get(1).(int32), args.Error(2)
}

// MockLocationRepo
type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) Create(ctx context.Context, l *domain.Location) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockLocationRepo) GetByID(ctx context.Context, id int32) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}
func (m *MockLocationRepo) List(ctx context.Context, filter domain.LocationFilter) ([]domain.Location, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Location), args.Get(1).(int32), args.Error(2)
}
func (m *MockLocationRepo) ListForSelect(ctx context.Context, commissionID *int32) ([]domain.Location, error) {
	args := m.Called(ctx, commissionID)
	return args.Get(0).([]domain.Location), args.Error(1)
}
func (m *MockLocationRepo) Update(ctx context.Context, l *domain.Location) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockLocationRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockLocationRepo) CountReservations(ctx context.Context, id int32) (int32, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateWithCredentials(ctx context.Context, u *domain.User, passwordHash string) error {
	args := m.Called(ctx, u, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetPasswordHash(ctx context.Context, userID int32) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
func (m *MockUserRepo) GetDetail(ctx context.Context, id int32, recent int32) (*domain.User, error) {
	args := m.Called(ctx, id, recent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) EmailTaken(ctx context.Context, email string, excludeID int32) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateCommission(ctx context.Context, userID, commissionID int32) error {
	args := m.Called(ctx, userID, commissionID)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) CountReservations(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) CreateIfNoConflict(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) HasConflict(ctx context.Context, locationID int32, start, end time.Time, excludeID *int32) (bool, error) {
	args := m.Called(ctx, locationID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationRepo) Recent(ctx context.Context, commissionID *int32, limit int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, commissionID, limit)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) UpdateStatus(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStatsRepo
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) CountByStatus(ctx context.Context, commissionID *int32) (domain.StatusCounts, error) {
	args := m.Called(ctx, commissionID)
	return args.Get(0).(domain.StatusCounts), args.Error(1)
}
func (m *MockStatsRepo) CountCreatedBetween(ctx context.Context, from, to time.Time, commissionID *int32) (int32, error) {
	args := m.Called(ctx, from, to, commissionID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockStatsRepo) CountByLocation(ctx context.Context, commissionID *int32) ([]domain.LocationCount, error) {
	args := m.Called(ctx, commissionID)
	return args.Get(0).([]domain.LocationCount), args.Error(1)
}
func (m *MockStatsRepo) CountByCommission(ctx context.Context) ([]domain.CommissionCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CommissionCount), args.Error(1)
}
func (m *MockStatsRepo) CountValidatedBy(ctx context.Context, validatorID int32, commissionID *int32) (domain.MyActions, error) {
	args := m.Called(ctx, validatorID, commissionID)
	return args.Get(0).(domain.MyActions), args.Error(1)
}
func (m *MockStatsRepo) ListCreatedBetween(ctx context.Context, from, to time.Time, commissionID *int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, from, to, commissionID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReservationAccepted(ctx context.Context, to string, notice domain.ReservationNotice) error {
	args := m.Called(ctx, to, notice)
	return args.Error(0)
}
func (m *MockEmailService) SendReservationRejected(ctx context.Context, to string, notice domain.ReservationNotice) error {
	args := m.Called(ctx, to, notice)
	return args.Error(0)
}
func (m *MockEmailService) SendWelcome(ctx context.Context, notice domain.WelcomeNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
func (m *MockEmailService) SendMonthlyReport(ctx context.Context, to []string, report domain.MonthlyReportEmail) error {
	args := m.Called(ctx, to, report)
	return args.Error(0)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func int32Ptr(v int32) *int32 { return &v }

var (
	adminActor = domain.ActorContext{UserID: 1, Name: "Admin", Role: domain.UserRoleAdmin}
	ceeActor   = domain.ActorContext{UserID: 2, Name: "Claire", Role: domain.UserRoleCEE, CommissionID: int32Ptr(10)}
	student    = domain.ActorContext{UserID: 3, Name: "Sam", Role: domain.UserRoleStudent}
)
