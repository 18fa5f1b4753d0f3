package domain

import "time"

type EmailKind string

const (
	EmailKindReservationAccepted EmailKind = "reservation_accepted"
	EmailKindReservationRejected EmailKind = "reservation_rejected"
	EmailKindMonthlyReport       EmailKind = "monthly_report"
	EmailKindWelcome             EmailKind = "welcome"
)

// ReservationNotice carries what the requester needs to know about a decision.
type ReservationNotice struct {
	StudentName      string    `json:"student_name"`
	ReservationTitle string    `json:"reservation_title"`
	LocationName     string    `json:"location_name"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	ValidatedBy      string    `json:"validated_by"`
	RejectionReason  string    `json:"rejection_reason,omitempty"`
}

type WelcomeNotice struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

// EmailMessage is a fully rendered email, ready for any transport.
type EmailMessage struct {
	To      []string  `json:"to"`
	Subject string    `json:"subject"`
	Text    string    `json:"text"`
	HTML    string    `json:"html,omitempty"`
	Kind    EmailKind `json:"kind"`
}
