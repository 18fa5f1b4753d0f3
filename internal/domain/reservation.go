package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusAccepted  ReservationStatus = "ACCEPTED"
	ReservationStatusRejected  ReservationStatus = "REJECTED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// BlockingStatuses are the statuses whose reservations occupy their time slot.
var BlockingStatuses = []ReservationStatus{ReservationStatusPending, ReservationStatusAccepted}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusAccepted, ReservationStatusRejected, ReservationStatusCancelled:
		return true
	}
	return false
}

// Blocking reports whether a reservation in this status prevents overlapping ones.
func (s ReservationStatus) Blocking() bool {
	return s == ReservationStatusPending || s == ReservationStatusAccepted
}

type Reservation struct {
	ID              int32             `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	LocationID      int32             `json:"location_id"`
	UserID          int32             `json:"user_id"`
	Start           time.Time         `json:"start"`
	End             time.Time         `json:"end"`
	Status          ReservationStatus `json:"status"`
	ValidatedBy     *int32            `json:"validated_by,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// Joined fields, populated by read queries
	User      *User     `json:"user,omitempty"`
	Location  *Location `json:"location,omitempty"`
	Validator *User     `json:"validator,omitempty"`
}

func (r *Reservation) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2) intersect.
// Touching intervals (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

type CreateReservationInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	LocationID  int32     `json:"location_id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

type ReservationFilter struct {
	Search       string
	Status       ReservationStatus
	StartFrom    *time.Time
	StartTo      *time.Time
	CommissionID *int32 // scope; nil means every commission
	Page         Page
}
