package domain

import "time"

type UserRole string

const (
	UserRoleStudent UserRole = "STUDENT"
	UserRoleCEE     UserRole = "CEE"
	UserRoleAdmin   UserRole = "ADMIN"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleStudent, UserRoleCEE, UserRoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID               int32         `json:"id"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Role             UserRole      `json:"role"`
	CommissionID     *int32        `json:"commission_id,omitempty"`
	Commission       *Commission   `json:"commission,omitempty"`   // Populated when needed
	ReservationCount int32         `json:"reservation_count"`      // Populated in List
	Reservations     []Reservation `json:"reservations,omitempty"` // 10 most recent, populated in Get
	CreatedOn        time.Time     `json:"created_on"`
	UpdatedOn        time.Time     `json:"updated_on"`
}

// Actor returns the caller identity for this user
func (u *User) Actor() ActorContext {
	return ActorContext{
		UserID:       u.ID,
		Name:         u.Name,
		Role:         u.Role,
		CommissionID: u.CommissionID,
	}
}

type CreateUserInput struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Role         UserRole `json:"role"`
	CommissionID *int32   `json:"commission_id,omitempty"`
}

type UpdateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserFilter struct {
	Search       string
	Role         UserRole
	CommissionID *int32
	Page         Page
}
