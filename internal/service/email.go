package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/utils"
)

// Mailer delivers a rendered message. Implementations: SMTP, SendGrid, AMQP queue.
type Mailer interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

type emailService struct {
	mailer  Mailer
	loc     *time.Location
	appName string
	baseURL string
}

func NewEmailService(mailer Mailer, loc *time.Location, appName, baseURL string) EmailService {
	if loc == nil {
		loc = time.Local
	}
	return &emailService{mailer: mailer, loc: loc, appName: appName, baseURL: baseURL}
}

func (s *emailService) send(ctx context.Context, msg domain.EmailMessage) error {
	logger.ExternalServiceCall("email", string(msg.Kind), "recipients", len(msg.To))
	err := s.mailer.Send(ctx, msg)
	logger.ExternalServiceResult("email", string(msg.Kind), err)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", msg.Kind, err)
	}
	return nil
}

func (s *emailService) SendReservationAccepted(ctx context.Context, to string, n domain.ReservationNotice) error {
	body := fmt.Sprintf("Hello %s,\n\nYour reservation \"%s\" has been accepted.\n\nLocation: %s\nWhen: %s\nValidated by: %s\n",
		n.StudentName, n.ReservationTitle, n.LocationName, utils.FormatSlot(n.Start, n.End, s.loc), n.ValidatedBy)
	body += s.signature()

	return s.send(ctx, domain.EmailMessage{
		To:      []string{to},
		Subject: fmt.Sprintf("Reservation accepted - %s", n.ReservationTitle),
		Text:    body,
		Kind:    domain.EmailKindReservationAccepted,
	})
}

func (s *emailService) SendReservationRejected(ctx context.Context, to string, n domain.ReservationNotice) error {
	body := fmt.Sprintf("Hello %s,\n\nYour reservation \"%s\" has been rejected.\n\nLocation: %s\nWhen: %s\nRejected by: %s\n\nReason: %s\n",
		n.StudentName, n.ReservationTitle, n.LocationName, utils.FormatSlot(n.Start, n.End, s.loc), n.ValidatedBy, n.RejectionReason)
	body += s.signature()

	return s.send(ctx, domain.EmailMessage{
		To:      []string{to},
		Subject: fmt.Sprintf("Reservation rejected - %s", n.ReservationTitle),
		Text:    body,
		Kind:    domain.EmailKindReservationRejected,
	})
}

func (s *emailService) SendWelcome(ctx context.Context, n domain.WelcomeNotice) error {
	body := fmt.Sprintf("Hello %s,\n\nAn account has been created for you on %s with the role %s.\n\nEmail: %s\nPassword: %s\n\nPlease change this password after your first sign in.\n",
		n.Name, s.appName, n.Role, n.Email, n.Password)
	if s.baseURL != "" {
		body += fmt.Sprintf("\nSign in at %s/login\n", strings.TrimRight(s.baseURL, "/"))
	}
	body += s.signature()

	return s.send(ctx, domain.EmailMessage{
		To:      []string{n.Email},
		Subject: fmt.Sprintf("Welcome to %s - your sign-in details", s.appName),
		Text:    body,
		Kind:    domain.EmailKindWelcome,
	})
}

func (s *emailService) SendMonthlyReport(ctx context.Context, to []string, report domain.MonthlyReportEmail) error {
	html, err := renderMonthlyReport(s.appName, report)
	if err != nil {
		return err
	}
	return s.send(ctx, domain.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Monthly report - %s %d", report.Month, report.Year),
		Text:    monthlyReportText(report) + s.signature(),
		HTML:    html,
		Kind:    domain.EmailKindMonthlyReport,
	})
}

func (s *emailService) signature() string {
	return fmt.Sprintf("\nBest regards,\nThe %s team", s.appName)
}

func monthlyReportText(r domain.MonthlyReportEmail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\nHere is the reservation activity for %s %d.\n\n", r.Month, r.Year)
	fmt.Fprintf(&b, "Total: %d\nAccepted: %d\nPending: %d\nRejected: %d\n", r.Stats.Total, r.Stats.Accepted, r.Stats.Pending, r.Stats.Rejected)
	if len(r.ByCommission) > 0 {
		b.WriteString("\nBy commission:\n")
		for _, c := range r.ByCommission {
			fmt.Fprintf(&b, "  %s: %d (%d accepted, %d pending, %d rejected)\n", c.Name, c.Total, c.Accepted, c.Pending, c.Rejected)
		}
	}
	if len(r.TopLocations) > 0 {
		b.WriteString("\nMost requested locations:\n")
		for i, l := range r.TopLocations {
			fmt.Fprintf(&b, "  %d. %s: %d\n", i+1, l.Name, l.Count)
		}
	}
	return b.String()
}

var monthlyReportTmpl = template.Must(template.New("monthly").Parse(`<html><body style="font-family:sans-serif">
<h1>{{.AppName}} monthly report</h1>
<p>Reservation activity for {{.Report.Month}} {{.Report.Year}}.</p>
<table cellpadding="6">
<tr><th>Total</th><th>Accepted</th><th>Pending</th><th>Rejected</th></tr>
<tr><td>{{.Report.Stats.Total}}</td><td>{{.Report.Stats.Accepted}}</td><td>{{.Report.Stats.Pending}}</td><td>{{.Report.Stats.Rejected}}</td></tr>
</table>
{{if .Report.ByCommission}}<h2>By commission</h2>
<table cellpadding="6">
{{range .Report.ByCommission}}<tr><td style="color:{{.Color}}">&#9632;</td><td>{{.Name}}</td><td>{{.Total}}</td><td>{{.Accepted}} accepted</td><td>{{.Pending}} pending</td><td>{{.Rejected}} rejected</td></tr>
{{end}}</table>{{end}}
{{if .Report.TopLocations}}<h2>Most requested locations</h2>
<ol>{{range .Report.TopLocations}}<li>{{.Name}}: {{.Count}}</li>{{end}}</ol>{{end}}
</body></html>`))

func renderMonthlyReport(appName string, r domain.MonthlyReportEmail) (string, error) {
	var buf bytes.Buffer
	data := struct {
		AppName string
		Report  domain.MonthlyReportEmail
	}{appName, r}
	if err := monthlyReportTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render monthly report: %w", err)
	}
	return buf.String(), nil
}
