package postgres

import (
	"context"
	"database/sql"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/repository"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

// queryRower is satisfied by both *sql.DB and *sql.Tx
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const overlapQuery = `SELECT EXISTS(
	SELECT 1 FROM reservations
	WHERE location_id = $1
	  AND status IN ('PENDING', 'ACCEPTED')
	  AND start_at < $3
	  AND $2 < end_at
	  AND ($4::int IS NULL OR id <> $4)
)`

func hasConflict(ctx context.Context, q queryRower, locationID int32, start, end time.Time, excludeID *int32) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, overlapQuery, locationID, start, end, nullInt32(excludeID)).Scan(&exists)
	return exists, err
}

func (r *reservationRepository) HasConflict(ctx context.Context, locationID int32, start, end time.Time, excludeID *int32) (bool, error) {
	return hasConflict(ctx, r.db, locationID, start, end, excludeID)
}

func (r *reservationRepository) CreateIfNoConflict(ctx context.Context, res *domain.Reservation) error {
	now := time.Now()
	res.CreatedAt = now
	res.UpdatedAt = now
	return withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		// Serializes creators on the same location until commit.
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(res.LocationID)); err != nil {
			return err
		}
		conflict, err := hasConflict(ctx, tx, res.LocationID, res.Start, res.End, nil)
		if err != nil {
			return err
		}
		if conflict {
			return domain.ErrConflict
		}

		query := `INSERT INTO reservations (title, description, location_id, user_id, start_at, end_at, status,
		                                    validated_by, created_at, updated_at)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
		err = tx.QueryRowContext(ctx, query, res.Title, nullString(res.Description), res.LocationID, res.UserID,
			res.Start, res.End, res.Status, nullInt32(res.ValidatedBy), res.CreatedAt, res.UpdatedAt).Scan(&res.ID)
		return mapError(err, "reservation")
	})
}

const reservationSelect = `SELECT r.id, r.title, COALESCE(r.description, ''), r.location_id, r.user_id,
       r.start_at, r.end_at, r.status, r.validated_by, COALESCE(r.rejection_reason, ''),
       r.created_at, r.updated_at,
       u.name, u.email,
       l.name, l.max_duration_hours, l.commission_id, c.name, c.color,
       v.name
FROM reservations r
JOIN users u ON u.id = r.user_id
JOIN locations l ON l.id = r.location_id
JOIN commissions c ON c.id = l.commission_id
LEFT JOIN users v ON v.id = r.validated_by`

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	res := &domain.Reservation{
		User:     &domain.User{},
		Location: &domain.Location{Commission: &domain.Commission{}},
	}
	var validatedBy, maxHours sql.NullInt32
	var validatorName sql.NullString
	err := row.Scan(&res.ID, &res.Title, &res.Description, &res.LocationID, &res.UserID,
		&res.Start, &res.End, &res.Status, &validatedBy, &res.RejectionReason,
		&res.CreatedAt, &res.UpdatedAt,
		&res.User.Name, &res.User.Email,
		&res.Location.Name, &maxHours, &res.Location.CommissionID, &res.Location.Commission.Name, &res.Location.Commission.Color,
		&validatorName)
	if err != nil {
		return nil, err
	}
	res.User.ID = res.UserID
	res.Location.ID = res.LocationID
	res.Location.MaxDurationHours = int32Ptr(maxHours)
	res.Location.Commission.ID = res.Location.CommissionID
	res.ValidatedBy = int32Ptr(validatedBy)
	if res.ValidatedBy != nil {
		res.Validator = &domain.User{ID: *res.ValidatedBy, Name: validatorName.String}
	}
	return res, nil
}

func scanReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	defer rows.Close()
	var list []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, reservationSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, mapError(err, "reservation")
	}
	return res, nil
}

func (r *reservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, int32, error) {
	var conds conditions
	if filter.Search != "" {
		conds.add("(r.title ILIKE %[1]s OR r.description ILIKE %[1]s)", ilike(filter.Search))
	}
	if filter.Status != "" {
		conds.add("r.status = %s", filter.Status)
	}
	if filter.StartFrom != nil {
		conds.add("r.start_at >= %s", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		conds.add("r.start_at < %s", *filter.StartTo)
	}
	if filter.CommissionID != nil {
		conds.add("l.commission_id = %s", *filter.CommissionID)
	}

	var total int32
	countSql := `SELECT count(*) FROM reservations r JOIN locations l ON l.id = r.location_id` + conds.where()
	if err := r.db.QueryRowContext(ctx, countSql, conds.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	suffix, args := conds.paginate(page.Limit, page.Offset())
	rows, err := r.db.QueryContext(ctx, reservationSelect+conds.where()+" ORDER BY r.created_at DESC"+suffix, args...)
	if err != nil {
		return nil, 0, err
	}
	list, err := scanReservations(rows)
	return list, total, err
}

func (r *reservationRepository) Recent(ctx context.Context, commissionID *int32, limit int32) ([]domain.Reservation, error) {
	var conds conditions
	if commissionID != nil {
		conds.add("l.commission_id = %s", *commissionID)
	}
	suffix, args := conds.paginate(limit, 0)
	rows, err := r.db.QueryContext(ctx, reservationSelect+conds.where()+" ORDER BY r.created_at DESC"+suffix, args...)
	if err != nil {
		return nil, err
	}
	return scanReservations(rows)
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, res *domain.Reservation) error {
	query := `UPDATE reservations SET status=$1, validated_by=$2, rejection_reason=$3, updated_at=$4
	          WHERE id=$5 AND status='PENDING'`
	res.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query, res.Status, nullInt32(res.ValidatedBy), nullString(res.RejectionReason),
		res.UpdatedAt, res.ID)
	if err != nil {
		return mapError(err, "reservation")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewPolicyError("reservation is no longer pending")
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "reservation")
	}
	return affectedOrNotFound(res, "reservation")
}
