package catalog

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectService = `SELECT id, name, duration_minutes, location_ids FROM services WHERE id = $1`

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Get(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectService)).
		WithArgs("svc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "duration_minutes", "location_ids"}).
			AddRow("svc-1", "HydraFacial", 60, "{loc-1,loc-2}"))

	svc, err := repo.Get(context.Background(), "svc-1")
	require.NoError(t, err)
	assert.Equal(t, "HydraFacial", svc.Name)
	assert.Equal(t, 60, svc.DurationMinutes)
	assert.Equal(t, []string{"loc-1", "loc-2"}, svc.LocationIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectService)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceNotFound))
}

func TestRepository_GetDatabaseError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectService)).
		WithArgs("svc-1").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Get(context.Background(), "svc-1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrServiceNotFound))
}

func TestRepository_DurationMinutes(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		wantErr  error
	}{
		{"positive", 90, nil},
		{"zero", 0, ErrInvalidDuration},
		{"negative", -15, ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectQuery(regexp.QuoteMeta(selectService)).
				WithArgs("svc-1").
				WillReturnRows(sqlmock.NewRows([]string{"id", "name", "duration_minutes", "location_ids"}).
					AddRow("svc-1", "Peel", tt.duration, nil))

			got, err := repo.DurationMinutes(context.Background(), "svc-1")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.duration, got)
		})
	}
}
