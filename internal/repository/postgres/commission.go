package postgres

import (
	"context"
	"database/sql"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/repository"
)

type commissionRepository struct {
	db *sql.DB
}

func NewCommissionRepository(db *sql.DB) repository.CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) Create(ctx context.Context, c *domain.Commission) error {
	query := `INSERT INTO commissions (name, description, color, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now()
	c.CreatedOn = now
	c.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query, c.Name, nullString(c.Description), c.Color, c.CreatedOn, c.UpdatedOn).Scan(&c.ID)
	return mapError(err, "commission")
}

func (r *commissionRepository) GetByID(ctx context.Context, id int32) (*domain.Commission, error) {
	c := &domain.Commission{}
	query := `SELECT id, name, COALESCE(description, ''), color, created_on, updated_on FROM commissions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, mapError(err, "commission")
	}
	return c, nil
}

func (r *commissionRepository) GetWithRelations(ctx context.Context, id int32) (*domain.Commission, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, role FROM users WHERE commission_id = $1 ORDER BY name ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		u.CommissionID = &c.ID
		c.Members = append(c.Members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	locRows, err := r.db.QueryContext(ctx, `SELECT id, name, max_duration_hours FROM locations WHERE commission_id = $1 ORDER BY name ASC`, id)
	if err != nil {
		return nil, err
	}
	defer locRows.Close()
	for locRows.Next() {
		var l domain.Location
		var maxHours sql.NullInt32
		if err := locRows.Scan(&l.ID, &l.Name, &maxHours); err != nil {
			return nil, err
		}
		l.MaxDurationHours = int32Ptr(maxHours)
		l.CommissionID = c.ID
		c.Locations = append(c.Locations, l)
	}
	c.MemberCount = int32(len(c.Members))
	c.LocationCount = int32(len(c.Locations))
	return c, locRows.Err()
}

func (r *commissionRepository) List(ctx context.Context, filter domain.CommissionFilter) ([]domain.Commission, int32, error) {
	var conds conditions
	if filter.Search != "" {
		conds.add("(c.name ILIKE %[1]s OR c.description ILIKE %[1]s)", ilike(filter.Search))
	}

	var total int32
	countSql := "SELECT count(*) FROM commissions c" + conds.where()
	if err := r.db.QueryRowContext(ctx, countSql, conds.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	suffix, args := conds.paginate(page.Limit, page.Offset())
	query := `SELECT c.id, c.name, COALESCE(c.description, ''), c.color, c.created_on, c.updated_on,
	                 (SELECT count(*) FROM users u WHERE u.commission_id = c.id),
	                 (SELECT count(*) FROM locations l WHERE l.commission_id = c.id)
	          FROM commissions c` + conds.where() + " ORDER BY c.name ASC" + suffix

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var commissions []domain.Commission
	for rows.Next() {
		var c domain.Commission
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedOn, &c.UpdatedOn, &c.MemberCount, &c.LocationCount); err != nil {
			return nil, 0, err
		}
		commissions = append(commissions, c)
	}
	return commissions, total, rows.Err()
}

func (r *commissionRepository) ListForSelect(ctx context.Context) ([]domain.Commission, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM commissions ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commissions []domain.Commission
	for rows.Next() {
		var c domain.Commission
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		commissions = append(commissions, c)
	}
	return commissions, rows.Err()
}

func (r *commissionRepository) Update(ctx context.Context, c *domain.Commission) error {
	query := `UPDATE commissions SET name=$1, description=$2, color=$3, updated_on=$4 WHERE id=$5`
	c.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, query, c.Name, nullString(c.Description), c.Color, c.UpdatedOn, c.ID)
	if err != nil {
		return mapError(err, "commission")
	}
	return affectedOrNotFound(res, "commission")
}

func (r *commissionRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM commissions WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "commission")
	}
	return affectedOrNotFound(res, "commission")
}

func (r *commissionRepository) CountDependents(ctx context.Context, id int32) (int32, int32, error) {
	var members, locations int32
	query := `SELECT (SELECT count(*) FROM users WHERE commission_id = $1),
	                 (SELECT count(*) FROM locations WHERE commission_id = $1)`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&members, &locations)
	return members, locations, err
}
