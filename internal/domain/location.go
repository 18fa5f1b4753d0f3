package domain

import "time"

type Location struct {
	ID               int32       `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	MaxDurationHours *int32      `json:"max_duration_hours,omitempty"`
	CommissionID     int32       `json:"commission_id"`
	Commission       *Commission `json:"commission,omitempty"`
	ReservationCount int32       `json:"reservation_count"`
	CreatedOn        time.Time   `json:"created_on"`
	UpdatedOn        time.Time   `json:"updated_on"`
}

// MaxDuration returns the reservation duration cap, or zero when the location has none.
func (l *Location) MaxDuration() time.Duration {
	if l.MaxDurationHours == nil {
		return 0
	}
	return time.Duration(*l.MaxDurationHours) * time.Hour
}

type LocationInput struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	MaxDurationHours *int32 `json:"max_duration_hours,omitempty"`
	CommissionID     int32  `json:"commission_id"`
}

type LocationFilter struct {
	Search       string
	CommissionID *int32
	Page         Page
}
