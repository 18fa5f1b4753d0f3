package repository

import (
	"context"
	"time"

	"reservation-backoffice/internal/domain"
)

type CommissionRepository interface {
	Create(ctx context.Context, c *domain.Commission) error
	GetByID(ctx context.Context, id int32) (*domain.Commission, error)
	// GetWithRelations loads the commission together with its members and locations
	GetWithRelations(ctx context.Context, id int32) (*domain.Commission, error)
	List(ctx context.Context, filter domain.CommissionFilter) ([]domain.Commission, int32, error)
	ListForSelect(ctx context.Context) ([]domain.Commission, error)
	Update(ctx context.Context, c *domain.Commission) error
	Delete(ctx context.Context, id int32) error
	CountDependents(ctx context.Context, id int32) (members, locations int32, err error)
}

type LocationRepository interface {
	Create(ctx context.Context, l *domain.Location) error
	GetByID(ctx context.Context, id int32) (*domain.Location, error)
	List(ctx context.Context, filter domain.LocationFilter) ([]domain.Location, int32, error)
	// ListForSelect returns every location, or only those of commissionID when set
	ListForSelect(ctx context.Context, commissionID *int32) ([]domain.Location, error)
	Update(ctx context.Context, l *domain.Location) error
	Delete(ctx context.Context, id int32) error
	CountReservations(ctx context.Context, id int32) (int32, error)
}

type UserRepository interface {
	// CreateWithCredentials inserts the user and its password hash in one transaction
	CreateWithCredentials(ctx context.Context, u *domain.User, passwordHash string) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetPasswordHash(ctx context.Context, userID int32) (string, error)
	// GetDetail loads the user with commission and most recent reservations
	GetDetail(ctx context.Context, id int32, recent int32) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int32, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int32) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	UpdateCommission(ctx context.Context, userID, commissionID int32) error
	Delete(ctx context.Context, id int32) error
	CountReservations(ctx context.Context, userID int32) (int32, error)
}

type ReservationRepository interface {
	// CreateIfNoConflict performs the overlap check and the insert atomically.
	// It returns a domain conflict error when a blocking reservation overlaps.
	CreateIfNoConflict(ctx context.Context, r *domain.Reservation) error
	HasConflict(ctx context.Context, locationID int32, start, end time.Time, excludeID *int32) (bool, error)
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, int32, error)
	Recent(ctx context.Context, commissionID *int32, limit int32) ([]domain.Reservation, error)
	// UpdateStatus moves a PENDING reservation to r.Status. It fails with a policy error
	// when the reservation has already left PENDING.
	UpdateStatus(ctx context.Context, r *domain.Reservation) error
	Delete(ctx context.Context, id int32) error
}

// StatsRepository exposes the read-side counting queries of the reporting engine.
// commissionID nil means all commissions. Time windows are half-open: [from, to).
type StatsRepository interface {
	CountByStatus(ctx context.Context, commissionID *int32) (domain.StatusCounts, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time, commissionID *int32) (int32, error)
	CountByLocation(ctx context.Context, commissionID *int32) ([]domain.LocationCount, error)
	CountByCommission(ctx context.Context) ([]domain.CommissionCount, error)
	CountValidatedBy(ctx context.Context, validatorID int32, commissionID *int32) (domain.MyActions, error)
	// ListCreatedBetween returns reservations created in [from, to) with user, location
	// (and its commission) and validator joined.
	ListCreatedBetween(ctx context.Context, from, to time.Time, commissionID *int32) ([]domain.Reservation, error)
}
