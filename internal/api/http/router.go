package http

import (
	"context"
	"net/http"
	"time"

	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/security"
	"reservation-backoffice/internal/service"

	"github.com/gorilla/mux"
)

// Services groups everything the router dispatches to
type Services struct {
	Auth         service.AuthService
	Commissions  service.CommissionService
	Locations    service.LocationService
	Users        service.UserService
	Reservations service.ReservationService
	Dashboard    service.DashboardService
	Reports      service.ReportService
}

// RouterConfig carries the non-service dependencies of the router
type RouterConfig struct {
	Tokens security.TokenManager
	// Users reloads the session user on every authenticated request
	Users      security.UserLookup
	CronSecret string
	Location   *time.Location
	// Health reports whether backing stores are reachable; nil means always healthy
	Health func(ctx context.Context) error
}

// NewRouter registers every back-office route. Route names key the security levels in
// config.EndpointSecurityConfig.
func NewRouter(svc Services, cfg RouterConfig) *mux.Router {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
	r.Use(requestLogging, recovery, NewAuthenticator(security.NewSessionResolver(cfg.Tokens, cfg.Users), cfg.CronSecret).Middleware)

	r.HandleFunc("/health", healthHandler(cfg.Health)).Methods(http.MethodGet).Name("health")

	auth := NewAuthHandler(svc.Auth)
	r.HandleFunc("/api/auth/login", auth.Login).Methods(http.MethodPost).Name("login")
	r.HandleFunc("/api/auth/me", auth.Me).Methods(http.MethodGet).Name("me")

	api := r.PathPrefix("/api").Subrouter()

	commissions := NewCommissionHandler(svc.Commissions)
	api.HandleFunc("/commissions", commissions.List).Methods(http.MethodGet).Name("commissions.list")
	api.HandleFunc("/commissions/select", commissions.Select).Methods(http.MethodGet).Name("commissions.select")
	api.HandleFunc("/commissions/{id:[0-9]+}", commissions.Get).Methods(http.MethodGet).Name("commissions.get")
	api.HandleFunc("/commissions", commissions.Create).Methods(http.MethodPost).Name("commissions.create")
	api.HandleFunc("/commissions/{id:[0-9]+}", commissions.Update).Methods(http.MethodPut).Name("commissions.update")
	api.HandleFunc("/commissions/{id:[0-9]+}", commissions.Delete).Methods(http.MethodDelete).Name("commissions.delete")

	locations := NewLocationHandler(svc.Locations)
	api.HandleFunc("/locations", locations.List).Methods(http.MethodGet).Name("locations.list")
	api.HandleFunc("/locations/select", locations.Select).Methods(http.MethodGet).Name("locations.select")
	api.HandleFunc("/locations/{id:[0-9]+}", locations.Get).Methods(http.MethodGet).Name("locations.get")
	api.HandleFunc("/locations", locations.Create).Methods(http.MethodPost).Name("locations.create")
	api.HandleFunc("/locations/{id:[0-9]+}", locations.Update).Methods(http.MethodPut).Name("locations.update")
	api.HandleFunc("/locations/{id:[0-9]+}", locations.Delete).Methods(http.MethodDelete).Name("locations.delete")

	users := NewUserHandler(svc.Users)
	api.HandleFunc("/users", users.List).Methods(http.MethodGet).Name("users.list")
	api.HandleFunc("/users/{id:[0-9]+}", users.Get).Methods(http.MethodGet).Name("users.get")
	api.HandleFunc("/users", users.Create).Methods(http.MethodPost).Name("users.create")
	api.HandleFunc("/users/{id:[0-9]+}", users.Update).Methods(http.MethodPut).Name("users.update")
	api.HandleFunc("/users/{id:[0-9]+}/commission", users.UpdateCommission).Methods(http.MethodPut).Name("users.commission")
	api.HandleFunc("/users/{id:[0-9]+}", users.Delete).Methods(http.MethodDelete).Name("users.delete")

	reservations := NewReservationHandler(svc.Reservations, loc)
	api.HandleFunc("/reservations", reservations.List).Methods(http.MethodGet).Name("reservations.list")
	api.HandleFunc("/reservations/recent", reservations.Recent).Methods(http.MethodGet).Name("reservations.recent")
	api.HandleFunc("/reservations/conflicts", reservations.Conflicts).Methods(http.MethodGet).Name("reservations.conflicts")
	api.HandleFunc("/reservations/{id:[0-9]+}", reservations.Get).Methods(http.MethodGet).Name("reservations.get")
	api.HandleFunc("/reservations", reservations.Create).Methods(http.MethodPost).Name("reservations.create")
	api.HandleFunc("/reservations/{id:[0-9]+}/accept", reservations.Accept).Methods(http.MethodPost).Name("reservations.accept")
	api.HandleFunc("/reservations/{id:[0-9]+}/reject", reservations.Reject).Methods(http.MethodPost).Name("reservations.reject")
	api.HandleFunc("/reservations/{id:[0-9]+}", reservations.Delete).Methods(http.MethodDelete).Name("reservations.delete")

	dashboard := NewDashboardHandler(svc.Dashboard)
	api.HandleFunc("/dashboard/admin", dashboard.Admin).Methods(http.MethodGet).Name("dashboard.admin")
	api.HandleFunc("/dashboard/cee", dashboard.CEE).Methods(http.MethodGet).Name("dashboard.cee")
	api.HandleFunc("/dashboard/series", dashboard.Series).Methods(http.MethodGet).Name("dashboard.series")

	reports := NewReportHandler(svc.Reports, loc)
	api.HandleFunc("/reports/monthly", reports.Monthly).Methods(http.MethodGet).Name("reports.monthly")
	api.HandleFunc("/reports/commissions/{id:[0-9]+}", reports.Commission).Methods(http.MethodGet).Name("reports.commission")
	api.HandleFunc("/cron/monthly-report", reports.SendMonthly).Methods(http.MethodGet, http.MethodPost).Name("cron.monthly_report")

	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "Health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
				return
			}
		}
		ok(w, healthResponse{Status: "ok"})
	}
}
