package postgres

import (
	"context"
	"database/sql"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateWithCredentials(ctx context.Context, u *domain.User, passwordHash string) error {
	now := time.Now()
	u.CreatedOn = now
	u.UpdatedOn = now
	return withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		query := `INSERT INTO users (name, email, role, commission_id, created_on, updated_on)
		          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		err := tx.QueryRowContext(ctx, query, u.Name, u.Email, u.Role, nullInt32(u.CommissionID), u.CreatedOn, u.UpdatedOn).Scan(&u.ID)
		if err != nil {
			return mapError(err, "user")
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO user_credentials (user_id, password_hash, created_on) VALUES ($1, $2, $3)`,
			u.ID, passwordHash, now)
		return mapError(err, "user")
	})
}

const userColumns = `u.id, u.name, u.email, u.role, u.commission_id, u.created_on, u.updated_on`

func scanUser(row rowScanner, extra ...interface{}) (*domain.User, error) {
	u := &domain.User{}
	var commissionID sql.NullInt32
	dest := append([]interface{}{&u.ID, &u.Name, &u.Email, &u.Role, &commissionID, &u.CreatedOn, &u.UpdatedOn}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	u.CommissionID = int32Ptr(commissionID)
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "user")
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE LOWER(u.email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(err, "user")
	}
	return u, nil
}

func (r *userRepository) GetPasswordHash(ctx context.Context, userID int32) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT password_hash FROM user_credentials WHERE user_id = $1`, userID).Scan(&hash)
	if err != nil {
		return "", mapError(err, "credentials")
	}
	return hash, nil
}

func (r *userRepository) GetDetail(ctx context.Context, id int32, recent int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + `, c.name, c.color,
	                 (SELECT count(*) FROM reservations r WHERE r.user_id = u.id)
	          FROM users u
	          LEFT JOIN commissions c ON c.id = u.commission_id
	          WHERE u.id = $1`
	var commissionName, commissionColor sql.NullString
	var count int32
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id), &commissionName, &commissionColor, &count)
	if err != nil {
		return nil, mapError(err, "user")
	}
	u.ReservationCount = count
	if u.CommissionID != nil {
		u.Commission = &domain.Commission{ID: *u.CommissionID, Name: commissionName.String, Color: commissionColor.String}
	}

	rows, err := r.db.QueryContext(ctx, `SELECT r.id, r.title, r.start_at, r.end_at, r.status, r.created_at, l.id, l.name
	          FROM reservations r
	          JOIN locations l ON l.id = r.location_id
	          WHERE r.user_id = $1
	          ORDER BY r.created_at DESC
	          LIMIT $2`, id, recent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		res := domain.Reservation{UserID: u.ID, Location: &domain.Location{}}
		if err := rows.Scan(&res.ID, &res.Title, &res.Start, &res.End, &res.Status, &res.CreatedAt,
			&res.Location.ID, &res.Location.Name); err != nil {
			return nil, err
		}
		res.LocationID = res.Location.ID
		u.Reservations = append(u.Reservations, res)
	}
	return u, rows.Err()
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int32, error) {
	var conds conditions
	if filter.Search != "" {
		conds.add("(u.name ILIKE %[1]s OR u.email ILIKE %[1]s)", ilike(filter.Search))
	}
	if filter.Role != "" {
		conds.add("u.role = %s", filter.Role)
	}
	if filter.CommissionID != nil {
		conds.add("u.commission_id = %s", *filter.CommissionID)
	}

	var total int32
	countSql := "SELECT count(*) FROM users u" + conds.where()
	if err := r.db.QueryRowContext(ctx, countSql, conds.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	suffix, args := conds.paginate(page.Limit, page.Offset())
	query := `SELECT ` + userColumns + `, c.name, c.color,
	                 (SELECT count(*) FROM reservations r WHERE r.user_id = u.id)
	          FROM users u
	          LEFT JOIN commissions c ON c.id = u.commission_id` + conds.where() + " ORDER BY u.created_on DESC" + suffix

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var commissionName, commissionColor sql.NullString
		var count int32
		u, err := scanUser(rows, &commissionName, &commissionColor, &count)
		if err != nil {
			return nil, 0, err
		}
		u.ReservationCount = count
		if u.CommissionID != nil {
			u.Commission = &domain.Commission{ID: *u.CommissionID, Name: commissionName.String, Color: commissionColor.String}
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.role = $1 ORDER BY u.name ASC`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID int32) (bool, error) {
	var taken bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND id <> $2)`
	err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&taken)
	return taken, err
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, `UPDATE users SET name=$1, email=$2, updated_on=$3 WHERE id=$4`,
		u.Name, u.Email, u.UpdatedOn, u.ID)
	if err != nil {
		return mapError(err, "user")
	}
	return affectedOrNotFound(res, "user")
}

func (r *userRepository) UpdateCommission(ctx context.Context, userID, commissionID int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET commission_id=$1, updated_on=$2 WHERE id=$3`,
		commissionID, time.Now(), userID)
	if err != nil {
		return mapError(err, "user")
	}
	return affectedOrNotFound(res, "user")
}

func (r *userRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "user")
	}
	return affectedOrNotFound(res, "user")
}

func (r *userRepository) CountReservations(ctx context.Context, userID int32) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reservations WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
