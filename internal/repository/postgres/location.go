package postgres

import (
	"context"
	"database/sql"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/repository"
)

type locationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, l *domain.Location) error {
	query := `INSERT INTO locations (name, description, max_duration_hours, commission_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	l.CreatedOn = now
	l.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query, l.Name, nullString(l.Description), nullInt32(l.MaxDurationHours),
		l.CommissionID, l.CreatedOn, l.UpdatedOn).Scan(&l.ID)
	return mapError(err, "location")
}

func (r *locationRepository) GetByID(ctx context.Context, id int32) (*domain.Location, error) {
	query := `SELECT l.id, l.name, COALESCE(l.description, ''), l.max_duration_hours, l.commission_id,
	                 l.created_on, l.updated_on, c.name, c.color,
	                 (SELECT count(*) FROM reservations r WHERE r.location_id = l.id)
	          FROM locations l
	          JOIN commissions c ON c.id = l.commission_id
	          WHERE l.id = $1`
	l, err := scanLocation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "location")
	}
	return l, nil
}

func (r *locationRepository) List(ctx context.Context, filter domain.LocationFilter) ([]domain.Location, int32, error) {
	var conds conditions
	if filter.Search != "" {
		conds.add("(l.name ILIKE %[1]s OR l.description ILIKE %[1]s)", ilike(filter.Search))
	}
	if filter.CommissionID != nil {
		conds.add("l.commission_id = %s", *filter.CommissionID)
	}

	var total int32
	countSql := "SELECT count(*) FROM locations l" + conds.where()
	if err := r.db.QueryRowContext(ctx, countSql, conds.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	suffix, args := conds.paginate(page.Limit, page.Offset())
	query := `SELECT l.id, l.name, COALESCE(l.description, ''), l.max_duration_hours, l.commission_id,
	                 l.created_on, l.updated_on, c.name, c.color,
	                 (SELECT count(*) FROM reservations r WHERE r.location_id = l.id)
	          FROM locations l
	          JOIN commissions c ON c.id = l.commission_id` + conds.where() + " ORDER BY l.name ASC" + suffix

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, 0, err
		}
		locations = append(locations, *l)
	}
	return locations, total, rows.Err()
}

func (r *locationRepository) ListForSelect(ctx context.Context, commissionID *int32) ([]domain.Location, error) {
	var conds conditions
	if commissionID != nil {
		conds.add("commission_id = %s", *commissionID)
	}
	query := `SELECT id, name, max_duration_hours, commission_id FROM locations` + conds.where() + " ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, query, conds.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var l domain.Location
		var maxHours sql.NullInt32
		if err := rows.Scan(&l.ID, &l.Name, &maxHours, &l.CommissionID); err != nil {
			return nil, err
		}
		l.MaxDurationHours = int32Ptr(maxHours)
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *locationRepository) Update(ctx context.Context, l *domain.Location) error {
	query := `UPDATE locations SET name=$1, description=$2, max_duration_hours=$3, commission_id=$4, updated_on=$5
	          WHERE id=$6`
	l.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, query, l.Name, nullString(l.Description), nullInt32(l.MaxDurationHours),
		l.CommissionID, l.UpdatedOn, l.ID)
	if err != nil {
		return mapError(err, "location")
	}
	return affectedOrNotFound(res, "location")
}

func (r *locationRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "location")
	}
	return affectedOrNotFound(res, "location")
}

func (r *locationRepository) CountReservations(ctx context.Context, id int32) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reservations WHERE location_id = $1`, id).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLocation(row rowScanner) (*domain.Location, error) {
	l := &domain.Location{Commission: &domain.Commission{}}
	var maxHours sql.NullInt32
	err := row.Scan(&l.ID, &l.Name, &l.Description, &maxHours, &l.CommissionID,
		&l.CreatedOn, &l.UpdatedOn, &l.Commission.Name, &l.Commission.Color, &l.ReservationCount)
	if err != nil {
		return nil, err
	}
	l.MaxDurationHours = int32Ptr(maxHours)
	l.Commission.ID = l.CommissionID
	return l, nil
}
