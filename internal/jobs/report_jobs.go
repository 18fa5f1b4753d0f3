package jobs

import (
	"context"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
)

const monthlyReportJob = "SendMonthlyReport"

// SendMonthlyReport is the cron entry point. It reports the month selected by
// scheduler.monthly_report_period.
func (jr *JobRunner) SendMonthlyReport() {
	period := domain.ReportPeriod(jr.config.Scheduler.MonthlyReportPeriod)
	_, _ = jr.RunMonthlyReport(context.Background(), period)
}

// RunMonthlyReport aggregates the month and emails it to every administrator
func (jr *JobRunner) RunMonthlyReport(ctx context.Context, period domain.ReportPeriod) (*domain.MonthlyReportSummary, error) {
	var summary *domain.MonthlyReportSummary
	err := jr.runWithRecovery(monthlyReportJob, func() error {
		ctx, cancel := context.WithTimeout(ctx, jr.timeout)
		defer cancel()

		var err error
		summary, err = jr.services.Reports.SendMonthlyReport(ctx, period)
		if err != nil {
			return err
		}
		logger.Info("Monthly report dispatched",
			"period", summary.Period,
			"start", summary.DateRange.Start,
			"end", summary.DateRange.End,
			"recipients", summary.Recipients,
			"message", summary.Message,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
