package postgres

import (
	"context"
	"database/sql"
	"testing"

	"reservation-backoffice/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationRepository_ListForSelect(t *testing.T) {
	store, mock := newMock(t)
	commissionID := int32(3)

	mock.ExpectQuery("SELECT id, name, max_duration_hours, commission_id FROM locations WHERE commission_id = \\$1 ORDER BY name ASC").
		WithArgs(commissionID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "max_duration_hours", "commission_id"}).
			AddRow(1, "Amphi A", 4, 3).
			AddRow(2, "Salle B", nil, 3))

	locations, err := store.LocationRepository.ListForSelect(context.Background(), &commissionID)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	require.NotNil(t, locations[0].MaxDurationHours)
	assert.Equal(t, int32(4), *locations[0].MaxDurationHours)
	assert.Nil(t, locations[1].MaxDurationHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepository_GetByID_NotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM locations l JOIN commissions c ON c.id = l.commission_id WHERE l.id = \\$1").
		WithArgs(int32(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.LocationRepository.GetByID(context.Background(), 9)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestLocationRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(mock sqlmock.Sqlmock)
		wantKind domain.ErrorKind
	}{
		{
			name: "deleted",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM locations WHERE id = \\$1").WithArgs(int32(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM locations WHERE id = \\$1").WithArgs(int32(5)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantKind: domain.KindNotFound,
		},
		{
			name: "still referenced",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM locations WHERE id = \\$1").WithArgs(int32(5)).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantKind: domain.KindReferentialIntegrity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMock(t)
			tt.setup(mock)

			err := store.LocationRepository.Delete(context.Background(), 5)
			if tt.wantKind == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantKind, domain.KindOf(err))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
