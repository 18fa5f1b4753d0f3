package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReservationService struct {
	mock.Mock
}

func (m *mockReservationService) HasConflict(ctx context.Context, locationID int32, start, end time.Time, excludeID *int32) (bool, error) {
	args := m.Called(ctx, locationID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *mockReservationService) Create(ctx context.Context, actor domain.ActorContext, input domain.CreateReservationInput) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *mockReservationService) Accept(ctx context.Context, actor domain.ActorContext, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *mockReservationService) Reject(ctx context.Context, actor domain.ActorContext, id int32, reason string) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *mockReservationService) Delete(ctx context.Context, actor domain.ActorContext, id int32) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
func (m *mockReservationService) List(ctx context.Context, actor domain.ActorContext, filter domain.ReservationFilter) (*domain.PaginatedResult[domain.Reservation], error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaginatedResult[domain.Reservation]), args.Error(1)
}
func (m *mockReservationService) Get(ctx context.Context, actor domain.ActorContext, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *mockReservationService) Recent(ctx context.Context, actor domain.ActorContext) ([]domain.Reservation, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) MonthlyReport(ctx context.Context, actor domain.ActorContext, period domain.Period) (*domain.MonthlyReport, error) {
	args := m.Called(ctx, actor, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyReport), args.Error(1)
}
func (m *mockReportService) CommissionReport(ctx context.Context, actor domain.ActorContext, commissionID int32, period domain.Period) (*domain.CommissionReport, error) {
	args := m.Called(ctx, actor, commissionID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionReport), args.Error(1)
}
func (m *mockReportService) SendMonthlyReport(ctx context.Context, period domain.ReportPeriod) (*domain.MonthlyReportSummary, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyReportSummary), args.Error(1)
}

const cronSecret = "cron-secret"

// userTable is the stored user state sessions are resolved against
type userTable map[int32]*domain.User

func (u userTable) GetByID(_ context.Context, id int32) (*domain.User, error) {
	if user, ok := u[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domain.NewNotFoundError("user not found")
}

type testServer struct {
	router       http.Handler
	tokens       security.TokenManager
	users        userTable
	reservations *mockReservationService
	reports      *mockReportService
}

func newTestServer() *testServer {
	tokens := security.NewTokenManager("test-secret", time.Hour)
	ts := &testServer{
		tokens:       tokens,
		users:        userTable{},
		reservations: new(mockReservationService),
		reports:      new(mockReportService),
	}
	ts.router = NewRouter(Services{Reservations: ts.reservations, Reports: ts.reports}, RouterConfig{
		Tokens:     tokens,
		Users:      ts.users,
		CronSecret: cronSecret,
		Location:   time.UTC,
	})
	return ts
}

func (ts *testServer) token(t *testing.T, u *domain.User) string {
	t.Helper()
	ts.users[u.ID] = u
	tok, _, err := ts.tokens.GenerateSessionToken(u)
	require.NoError(t, err)
	return tok
}

func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

var (
	adminUser = &domain.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: domain.UserRoleAdmin}
	ceeUser   = &domain.User{ID: 2, Name: "Claire", Email: "claire@example.com", Role: domain.UserRoleCEE, CommissionID: func() *int32 { v := int32(10); return &v }()}
)

func TestRouter_Authentication(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/api/reservations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication required", decode(t, rec)["error"])

	rec = ts.do(http.MethodPost, "/api/reservations/7/accept", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	rec = ts.do(http.MethodDelete, "/api/reservations/7", ts.token(t, ceeUser), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = ts.do(http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_SessionUsesStoredUser(t *testing.T) {
	t.Run("Commission reassigned after login", func(t *testing.T) {
		ts := newTestServer()
		tok := ts.token(t, ceeUser)
		moved := int32(20)
		ts.users[ceeUser.ID] = &domain.User{ID: ceeUser.ID, Name: ceeUser.Name, Email: ceeUser.Email, Role: domain.UserRoleCEE, CommissionID: &moved}

		ts.reservations.On("Accept", mock.Anything, mock.MatchedBy(func(a domain.ActorContext) bool {
			return a.UserID == 2 && a.InCommission(20) && !a.InCommission(10)
		}), int32(7)).Return(&domain.Reservation{ID: 7, Status: domain.ReservationStatusAccepted}, nil).Once()

		rec := ts.do(http.MethodPost, "/api/reservations/7/accept", tok, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		ts.reservations.AssertExpectations(t)
	})

	t.Run("Role downgraded after login", func(t *testing.T) {
		ts := newTestServer()
		tok := ts.token(t, ceeUser)
		ts.users[ceeUser.ID] = &domain.User{ID: ceeUser.ID, Name: ceeUser.Name, Role: domain.UserRoleStudent}

		rec := ts.do(http.MethodPost, "/api/reservations/7/accept", tok, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		ts.reservations.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("User deleted after login", func(t *testing.T) {
		ts := newTestServer()
		tok := ts.token(t, adminUser)
		delete(ts.users, adminUser.ID)

		rec := ts.do(http.MethodPost, "/api/reservations", tok, `{"title":"Club"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "session user no longer exists", body["error"])
		ts.reservations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRouter_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"conflict", domain.ErrConflict, http.StatusConflict, "this time slot is already reserved"},
		{"policy", domain.NewPolicyError("reservation is no longer pending"), http.StatusUnprocessableEntity, "reservation is no longer pending"},
		{"not found", domain.NewNotFoundError("reservation not found"), http.StatusNotFound, "reservation not found"},
		{"permission", domain.NewPermissionError("nope"), http.StatusForbidden, "nope"},
		{"unclassified", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.reservations.On("Accept", mock.Anything, mock.MatchedBy(func(a domain.ActorContext) bool {
				return a.UserID == 2 && a.InCommission(10)
			}), int32(7)).Return(nil, tt.err).Once()

			rec := ts.do(http.MethodPost, "/api/reservations/7/accept", ts.token(t, ceeUser), "")
			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestRouter_CreateReservation(t *testing.T) {
	ts := newTestServer()
	start := time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)
	ts.reservations.On("Create", mock.Anything, mock.Anything, domain.CreateReservationInput{
		Title: "Club", LocationID: 5, Start: start, End: start.Add(2 * time.Hour),
	}).Return(&domain.Reservation{ID: 9, Title: "Club", Status: domain.ReservationStatusAccepted}, nil).Once()

	body := `{"title":"Club","location_id":5,"start":"2026-05-12T09:00:00Z","end":"2026-05-12T11:00:00Z"}`
	rec := ts.do(http.MethodPost, "/api/reservations", ts.token(t, adminUser), body)
	require.Equal(t, http.StatusCreated, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "ACCEPTED", out["data"].(map[string]any)["status"])

	rec = ts.do(http.MethodPost, "/api/reservations", ts.token(t, adminUser), `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ts.reservations.AssertExpectations(t)
}

func TestRouter_ListReservationsFilter(t *testing.T) {
	ts := newTestServer()
	ts.reservations.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(f domain.ReservationFilter) bool {
		return f.Status == domain.ReservationStatusPending &&
			f.StartFrom != nil && f.StartFrom.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)) &&
			f.StartTo != nil && f.StartTo.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) &&
			f.Page.Page == 2
	})).Return(&domain.PaginatedResult[domain.Reservation]{Data: []domain.Reservation{}, Page: 2, Limit: 10}, nil).Once()

	rec := ts.do(http.MethodGet, "/api/reservations?status=PENDING&from=2026-05-01&to=2026-05-31&page=2", ts.token(t, ceeUser), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/api/reservations?from=May", ts.token(t, ceeUser), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "yyyy-mm-dd")
	ts.reservations.AssertExpectations(t)
}

func TestRouter_CronMonthlyReport(t *testing.T) {
	t.Run("Requires the cron secret", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(http.MethodGet, "/api/cron/monthly-report", ts.token(t, adminUser), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Defaults to previous month", func(t *testing.T) {
		ts := newTestServer()
		ts.reports.On("SendMonthlyReport", mock.Anything, domain.ReportPeriodPrevious).Return(&domain.MonthlyReportSummary{
			Success: true, Message: "sent", Period: domain.ReportPeriodPrevious, Recipients: 2,
			DateRange: domain.DateRange{Start: "2026-04-01", End: "2026-04-30"},
		}, nil).Once()

		rec := ts.do(http.MethodGet, "/api/cron/monthly-report", cronSecret, "")
		require.Equal(t, http.StatusOK, rec.Code)
		out := decode(t, rec)
		assert.Equal(t, float64(2), out["recipients"])
		assert.Equal(t, "2026-04-30", out["date_range"].(map[string]any)["end"])
	})

	t.Run("Dispatch failure is a 500", func(t *testing.T) {
		ts := newTestServer()
		ts.reports.On("SendMonthlyReport", mock.Anything, domain.ReportPeriodCurrent).Return(nil, errors.New("smtp: 421")).Once()

		rec := ts.do(http.MethodPost, "/api/cron/monthly-report?period=current", cronSecret, "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "failed to send the monthly report", decode(t, rec)["error"])
	})

	t.Run("Bad period", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(http.MethodGet, "/api/cron/monthly-report?period=yearly", cronSecret, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_CommissionReportMonth(t *testing.T) {
	ts := newTestServer()
	ts.reports.On("CommissionReport", mock.Anything, mock.Anything, int32(10), domain.Period{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}).Return(&domain.CommissionReport{}, nil).Once()

	rec := ts.do(http.MethodGet, "/api/reports/commissions/10?month=2026-03", ts.token(t, ceeUser), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/api/reports/commissions/10?month=03-2026", ts.token(t, ceeUser), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ts.reports.AssertExpectations(t)
}
