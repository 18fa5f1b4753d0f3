package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"reservation-backoffice/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestReservationRepository_CreateIfNoConflict(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	newReservation := func() *domain.Reservation {
		return &domain.Reservation{
			Title:      "Board meeting",
			LocationID: 3,
			UserID:     7,
			Start:      start,
			End:        end,
			Status:     domain.ReservationStatusPending,
		}
	}

	t.Run("Success", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock\\(\\$1\\)").
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(3), start, end, nil).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO reservations").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectCommit()

		r := newReservation()
		err := store.CreateIfNoConflict(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, int32(11), r.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OverlapFound", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := store.CreateIfNoConflict(ctx, newReservation())
		assert.True(t, errors.Is(err, domain.ErrConflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExclusionViolation", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO reservations").
			WillReturnError(&pq.Error{Code: "23P01", Constraint: "reservations_no_overlap"})
		mock.ExpectRollback()

		err := store.CreateIfNoConflict(ctx, newReservation())
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_HasConflict(t *testing.T) {
	store, mock := newMock(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	exclude := int32(5)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int32(1), start, end, int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	conflict, err := store.HasConflict(ctx, 1, start, end, &exclude)
	assert.NoError(t, err)
	assert.False(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	validator := int32(2)

	t.Run("Accepted", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec("UPDATE reservations SET status=\\$1, validated_by=\\$2, rejection_reason=\\$3, updated_at=\\$4").
			WithArgs("ACCEPTED", int64(2), nil, sqlmock.AnyArg(), int32(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.UpdateStatus(ctx, &domain.Reservation{ID: 9, Status: domain.ReservationStatusAccepted, ValidatedBy: &validator})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoLongerPending", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec("UPDATE reservations").WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.UpdateStatus(ctx, &domain.Reservation{ID: 9, Status: domain.ReservationStatusRejected,
			ValidatedBy: &validator, RejectionReason: "Room closed for maintenance"})
		assert.True(t, errors.Is(err, domain.ErrPolicy))
	})
}

func TestReservationRepository_GetByID(t *testing.T) {
	store, mock := newMock(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title", "description", "location_id", "user_id", "start_at", "end_at",
			"status", "validated_by", "rejection_reason", "created_at", "updated_at", "user_name", "user_email",
			"location_name", "max_duration_hours", "commission_id", "commission_name", "commission_color", "validator_name"}).
			AddRow(1, "Rehearsal", "", 3, 7, now, now.Add(time.Hour), "ACCEPTED", 2, "", now, now,
				"Ana", "ana@example.com", "Hall", 4, 1, "Culture", "#ff0000", "Bruno")
		mock.ExpectQuery("SELECT (.+) FROM reservations r (.+) WHERE r.id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(rows)

		r, err := store.ReservationRepository.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Hall", r.Location.Name)
		assert.Equal(t, int32(4), *r.Location.MaxDurationHours)
		assert.Equal(t, int32(1), r.Location.Commission.ID)
		assert.Equal(t, "Bruno", r.Validator.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations r").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		r, err := store.ReservationRepository.GetByID(ctx, 2)
		assert.Nil(t, r)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestReservationRepository_ListScopesByCommission(t *testing.T) {
	store, mock := newMock(t)
	ctx := context.Background()
	scope := int32(4)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM reservations r JOIN locations l ON l.id = r.location_id WHERE r.status = \\$1 AND l.commission_id = \\$2").
		WithArgs("PENDING", int32(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) ORDER BY r.created_at DESC LIMIT \\$3 OFFSET \\$4").
		WithArgs("PENDING", int32(4), int32(10), int32(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	list, total, err := store.ReservationRepository.List(ctx, domain.ReservationFilter{
		Status:       domain.ReservationStatusPending,
		CommissionID: &scope,
	})
	assert.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, int32(0), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_ListDateRangeIsHalfOpen(t *testing.T) {
	store, mock := newMock(t)
	ctx := context.Background()
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM reservations r JOIN locations l ON l.id = r.location_id WHERE r.start_at >= \\$1 AND r.start_at < \\$2$").
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) WHERE r.start_at >= \\$1 AND r.start_at < \\$2 ORDER BY r.created_at DESC LIMIT \\$3 OFFSET \\$4").
		WithArgs(from, to, int32(10), int32(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := store.ReservationRepository.List(ctx, domain.ReservationFilter{StartFrom: &from, StartTo: &to})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
