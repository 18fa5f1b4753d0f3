package domain

import "time"

type StatusCounts struct {
	Total    int32 `json:"total"`
	Pending  int32 `json:"pending"`
	Accepted int32 `json:"accepted"`
	Rejected int32 `json:"rejected"`
}

// Add counts one reservation in the given status. Cancelled reservations only count
// towards Total.
func (c *StatusCounts) Add(status ReservationStatus) {
	c.Total++
	switch status {
	case ReservationStatusPending:
		c.Pending++
	case ReservationStatusAccepted:
		c.Accepted++
	case ReservationStatusRejected:
		c.Rejected++
	}
}

type TemporalStats struct {
	Today       int32   `json:"today"`
	ThisWeek    int32   `json:"this_week"`
	ThisMonth   int32   `json:"this_month"`
	LastMonth   int32   `json:"last_month"`
	MonthGrowth float64 `json:"month_growth"`
}

type LocationCount struct {
	ID               int32  `json:"id"`
	Name             string `json:"name"`
	Count            int32  `json:"count"`
	MaxDurationHours *int32 `json:"max_duration_hours,omitempty"`
}

type CommissionCount struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	StatusCounts
}

type ValidatorCount struct {
	UserID   int32  `json:"user_id"`
	Name     string `json:"name"`
	Accepted int32  `json:"accepted"`
	Rejected int32  `json:"rejected"`
}

type MyActions struct {
	Validated int32 `json:"validated"`
	Rejected  int32 `json:"rejected"`
	Total     int32 `json:"total"`
}

type DailyPoint struct {
	Date     string `json:"date"` // yyyy-mm-dd in the deployment time zone
	Pending  int32  `json:"pending"`
	Accepted int32  `json:"accepted"`
	Rejected int32  `json:"rejected"`
	Total    int32  `json:"total"`
}

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AdminDashboard struct {
	Overview     StatusCounts      `json:"overview"`
	Temporal     TemporalStats     `json:"temporal"`
	TopLocations []LocationCount   `json:"top_locations"`
	Commissions  []CommissionCount `json:"commissions"`
}

type CEEDashboard struct {
	Overview   StatusCounts    `json:"overview"`
	MyActions  MyActions       `json:"my_actions"`
	Temporal   TemporalStats   `json:"temporal"`
	Locations  []LocationCount `json:"locations"`
	Commission *Commission     `json:"commission"`
}

// ReportRow is one reservation line of a report.
type ReportRow struct {
	ID         int32             `json:"id"`
	Title      string            `json:"title"`
	Location   string            `json:"location"`
	Commission string            `json:"commission,omitempty"`
	User       string            `json:"user"`
	UserEmail  string            `json:"user_email"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Status     ReservationStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

type MonthlyReport struct {
	Period       Period            `json:"period"`
	Stats        StatusCounts      `json:"stats"`
	ByCommission []CommissionCount `json:"by_commission"`
	TopLocations []LocationCount   `json:"top_locations"`
	Reservations []ReportRow       `json:"reservations"`
}

type CommissionReport struct {
	Commission   *Commission      `json:"commission"`
	Period       Period           `json:"period"`
	Stats        StatusCounts     `json:"stats"`
	ByLocation   []LocationCount  `json:"by_location"`
	ByValidator  []ValidatorCount `json:"by_validator"`
	Reservations []ReportRow      `json:"reservations"`
}

// ReportPeriod selects which calendar month the monthly report covers.
type ReportPeriod string

const (
	ReportPeriodCurrent  ReportPeriod = "current"
	ReportPeriodPrevious ReportPeriod = "previous"
)

// MonthlyReportEmail is the payload handed to the notification dispatcher.
type MonthlyReportEmail struct {
	Month        string            `json:"month"`
	Year         int               `json:"year"`
	Period       ReportPeriod      `json:"period"`
	Stats        StatusCounts      `json:"stats"`
	ByCommission []CommissionCount `json:"by_commission"`
	TopLocations []LocationCount   `json:"top_locations"`
}

// MonthlyReportSummary is returned by the report endpoint after fan-out.
type MonthlyReportSummary struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	Stats      StatusCounts `json:"stats"`
	Period     ReportPeriod `json:"period"`
	DateRange  DateRange    `json:"date_range"`
	Recipients int          `json:"recipients"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
