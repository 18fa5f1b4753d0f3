package postgres

import (
	"context"
	"database/sql"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func scopeConditions(commissionID *int32) conditions {
	var conds conditions
	if commissionID != nil {
		conds.add("l.commission_id = %s", *commissionID)
	}
	return conds
}

func (r *statsRepository) CountByStatus(ctx context.Context, commissionID *int32) (domain.StatusCounts, error) {
	conds := scopeConditions(commissionID)
	query := `SELECT r.status, count(*) FROM reservations r
	          JOIN locations l ON l.id = r.location_id` + conds.where() + ` GROUP BY r.status`

	var counts domain.StatusCounts
	rows, err := r.db.QueryContext(ctx, query, conds.args...)
	if err != nil {
		return counts, err
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.ReservationStatus
		var n int32
		if err := rows.Scan(&status, &n); err != nil {
			return counts, err
		}
		counts.Total += n
		switch status {
		case domain.ReservationStatusPending:
			counts.Pending += n
		case domain.ReservationStatusAccepted:
			counts.Accepted += n
		case domain.ReservationStatusRejected:
			counts.Rejected += n
		}
	}
	return counts, rows.Err()
}

func (r *statsRepository) CountCreatedBetween(ctx context.Context, from, to time.Time, commissionID *int32) (int32, error) {
	var conds conditions
	conds.add("r.created_at >= %s", from)
	conds.add("r.created_at < %s", to)
	if commissionID != nil {
		conds.add("l.commission_id = %s", *commissionID)
	}
	query := `SELECT count(*) FROM reservations r JOIN locations l ON l.id = r.location_id` + conds.where()

	var n int32
	err := r.db.QueryRowContext(ctx, query, conds.args...).Scan(&n)
	return n, err
}

func (r *statsRepository) CountByLocation(ctx context.Context, commissionID *int32) ([]domain.LocationCount, error) {
	conds := scopeConditions(commissionID)
	query := `SELECT l.id, l.name, l.max_duration_hours, count(r.id)
	          FROM locations l
	          LEFT JOIN reservations r ON r.location_id = l.id` + conds.where() + `
	          GROUP BY l.id, l.name, l.max_duration_hours
	          ORDER BY count(r.id) DESC, l.name ASC`

	rows, err := r.db.QueryContext(ctx, query, conds.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.LocationCount
	for rows.Next() {
		var lc domain.LocationCount
		var maxHours sql.NullInt32
		if err := rows.Scan(&lc.ID, &lc.Name, &maxHours, &lc.Count); err != nil {
			return nil, err
		}
		lc.MaxDurationHours = int32Ptr(maxHours)
		counts = append(counts, lc)
	}
	return counts, rows.Err()
}

// CountByCommission returns one entry per commission, including commissions without
// reservations, in commission id order.
func (r *statsRepository) CountByCommission(ctx context.Context) ([]domain.CommissionCount, error) {
	query := `SELECT c.id, c.name, c.color, r.status, count(r.id)
	          FROM commissions c
	          LEFT JOIN locations l ON l.commission_id = c.id
	          LEFT JOIN reservations r ON r.location_id = l.id
	          GROUP BY c.id, c.name, c.color, r.status
	          ORDER BY c.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.CommissionCount
	for rows.Next() {
		var id, n int32
		var name, color string
		var status sql.NullString
		if err := rows.Scan(&id, &name, &color, &status, &n); err != nil {
			return nil, err
		}
		if len(counts) == 0 || counts[len(counts)-1].ID != id {
			counts = append(counts, domain.CommissionCount{ID: id, Name: name, Color: color})
		}
		if !status.Valid {
			continue
		}
		cc := &counts[len(counts)-1]
		cc.Total += n
		switch domain.ReservationStatus(status.String) {
		case domain.ReservationStatusPending:
			cc.Pending += n
		case domain.ReservationStatusAccepted:
			cc.Accepted += n
		case domain.ReservationStatusRejected:
			cc.Rejected += n
		}
	}
	return counts, rows.Err()
}

func (r *statsRepository) CountValidatedBy(ctx context.Context, validatorID int32, commissionID *int32) (domain.MyActions, error) {
	var conds conditions
	conds.add("r.validated_by = %s", validatorID)
	if commissionID != nil {
		conds.add("l.commission_id = %s", *commissionID)
	}
	query := `SELECT count(*) FILTER (WHERE r.status = 'ACCEPTED'),
	                 count(*) FILTER (WHERE r.status = 'REJECTED'),
	                 count(*)
	          FROM reservations r
	          JOIN locations l ON l.id = r.location_id` + conds.where()

	var actions domain.MyActions
	err := r.db.QueryRowContext(ctx, query, conds.args...).Scan(&actions.Validated, &actions.Rejected, &actions.Total)
	return actions, err
}

func (r *statsRepository) ListCreatedBetween(ctx context.Context, from, to time.Time, commissionID *int32) ([]domain.Reservation, error) {
	var conds conditions
	conds.add("r.created_at >= %s", from)
	conds.add("r.created_at < %s", to)
	if commissionID != nil {
		conds.add("l.commission_id = %s", *commissionID)
	}
	rows, err := r.db.QueryContext(ctx, reservationSelect+conds.where()+" ORDER BY r.created_at DESC", conds.args...)
	if err != nil {
		return nil, err
	}
	return scanReservations(rows)
}
