package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/repository"

	"github.com/lib/pq"
)

// Postgres error codes we translate into domain errors
const (
	pqForeignKeyViolation pq.ErrorCode = "23503"
	pqUniqueViolation     pq.ErrorCode = "23505"
	pqExclusionViolation  pq.ErrorCode = "23P01"
)

type Store struct {
	repository.CommissionRepository
	repository.LocationRepository
	repository.UserRepository
	repository.ReservationRepository
	repository.StatsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		CommissionRepository:  NewCommissionRepository(db),
		LocationRepository:    NewLocationRepository(db),
		UserRepository:        NewUserRepository(db),
		ReservationRepository: NewReservationRepository(db),
		StatsRepository:       NewStatsRepository(db),
	}
}

// withTx runs fn inside a transaction, committing on success and rolling back on error or panic.
func withTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapError converts driver errors into classified domain errors. entity names the
// record being looked up so not-found messages stay readable.
func mapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError("%s not found", entity)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqExclusionViolation:
			return domain.ErrConflict
		case pqUniqueViolation:
			return domain.NewValidationError("%s already exists", entity)
		case pqForeignKeyViolation:
			return domain.NewReferentialIntegrityError("%s is still referenced by other records", entity)
		}
	}
	return err
}

// affectedOrNotFound turns an UPDATE/DELETE that touched no rows into a not-found error
func affectedOrNotFound(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError("%s not found", entity)
	}
	return nil
}

// ilike wraps a search term for substring matching
func ilike(s string) string {
	return "%" + s + "%"
}
