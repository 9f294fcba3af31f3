package locker

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"gymcore/internal/tenancy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lockerCols = []string{"id", "tenant_id", "number", "status", "assigned_to_id", "expiry_date", "notes", "created_at"}

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

const sweepSQL = `UPDATE lockers SET status = 'Available', assigned_to_id = NULL, expiry_date = NULL, notes = NULL WHERE status = 'Occupied' AND expiry_date < $1`

func TestSweepExpired_Idempotent(t *testing.T) {
	repo, mock, done := setupMock(t)
	defer done()
	today := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(sweepSQL)).WithArgs(today).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(sweepSQL)).WithArgs(today).WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.SweepExpired(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, int64(3), first)

	second, err := repo.SweepExpired(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign_OnlyAvailable(t *testing.T) {
	repo, mock, done := setupMock(t)
	defer done()
	expiry := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE lockers SET status = 'Occupied', assigned_to_id = \$2, expiry_date = \$3, notes = \$4 WHERE id = \$1 AND status = 'Available'`).
		WithArgs(4, 20, expiry, nil).
		WillReturnRows(sqlmock.NewRows(lockerCols).AddRow(4, 1, "A-04", "Occupied", 20, expiry, nil, time.Now()))
	mock.ExpectQuery(`UPDATE lockers SET status = 'Occupied'`).
		WithArgs(4, 21, expiry, nil).
		WillReturnError(sql.ErrNoRows)

	l, err := repo.Assign(context.Background(), 4, 20, expiry, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusOccupied, l.Status)
	require.NotNil(t, l.AssignedToID)
	assert.Equal(t, 20, *l.AssignedToID)

	_, err = repo.Assign(context.Background(), 4, 21, expiry, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_ClearsAssignment(t *testing.T) {
	repo, mock, done := setupMock(t)
	defer done()

	mock.ExpectQuery(`UPDATE lockers SET status = 'Available', assigned_to_id = NULL, expiry_date = NULL, notes = NULL WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(4, 1).
		WillReturnRows(sqlmock.NewRows(lockerCols).AddRow(4, 1, "A-04", "Available", nil, nil, nil, time.Now()))

	l, err := repo.Release(context.Background(), tenancy.Scope{TenantID: 1}, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, l.Status)
	assert.Nil(t, l.AssignedToID)
	assert.Nil(t, l.ExpiryDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_StatusFilter(t *testing.T) {
	repo, mock, done := setupMock(t)
	defer done()

	mock.ExpectQuery(`SELECT .* FROM lockers WHERE tenant_id = \$1 AND status = \$2 ORDER BY tenant_id, number`).
		WithArgs(1, StatusAvailable).
		WillReturnRows(sqlmock.NewRows(lockerCols).AddRow(1, 1, "A-01", "Available", nil, nil, nil, time.Now()))

	lockers, err := repo.List(context.Background(), tenancy.Scope{TenantID: 1}, StatusAvailable)
	require.NoError(t, err)
	assert.Len(t, lockers, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
