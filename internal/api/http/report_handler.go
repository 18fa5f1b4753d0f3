package http

import (
	"net/http"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/service"
	"reservation-backoffice/internal/utils"
)

type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboardSvc.AdminDashboard(r.Context(), ActorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, d)
}

func (h *DashboardHandler) CEE(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboardSvc.CEEDashboard(r.Context(), ActorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, d)
}

func (h *DashboardHandler) Series(w http.ResponseWriter, r *http.Request) {
	points, err := h.dashboardSvc.TimeSeries(r.Context(), ActorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, points)
}

type ReportHandler struct {
	reportSvc service.ReportService
	loc       *time.Location
	now       func() time.Time
}

func NewReportHandler(reportSvc service.ReportService, loc *time.Location) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, loc: loc, now: time.Now}
}

// month reads ?month=yyyy-mm, defaulting to the current month
func (h *ReportHandler) month(r *http.Request) (domain.Period, error) {
	if s := r.URL.Query().Get("month"); s != "" {
		return utils.ParseMonth(s, h.loc)
	}
	return utils.MonthRange(h.now(), h.loc), nil
}

func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	period, err := h.month(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.reportSvc.MonthlyReport(r.Context(), ActorFrom(r.Context()), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, report)
}

func (h *ReportHandler) Commission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	period, err := h.month(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.reportSvc.CommissionReport(r.Context(), ActorFrom(r.Context()), id, period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, report)
}

// SendMonthly is the cron-triggered fan-out. Dispatch failures answer 500 with {error}.
func (h *ReportHandler) SendMonthly(w http.ResponseWriter, r *http.Request) {
	period := domain.ReportPeriod(r.URL.Query().Get("period"))
	switch period {
	case "":
		period = domain.ReportPeriodPrevious
	case domain.ReportPeriodCurrent, domain.ReportPeriodPrevious:
	default:
		writeJSON(w, http.StatusBadRequest, readError{Error: "period must be current or previous"})
		return
	}

	summary, err := h.reportSvc.SendMonthlyReport(r.Context(), period)
	if err != nil {
		writeJSON(w, statusFor(err), readError{Error: domain.PublicMessage(err, "failed to send the monthly report")})
		return
	}
	ok(w, summary)
}
