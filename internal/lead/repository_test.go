package lead

import (
	"context"
	"testing"
	"time"

	"gymcore/internal/tenancy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leadCols = []string{"id", "tenant_id", "name", "email", "phone", "source", "status", "notes", "member_id", "created_at", "updated_at"}

func TestRepositoryListAndSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(sqlx.NewDb(db, "sqlmock"))
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM leads WHERE tenant_id = \$1 AND status = \$2 ORDER BY created_at DESC, id DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(1, StatusNew, 50, 0).
		WillReturnRows(sqlmock.NewRows(leadCols).AddRow(3, 1, "Ana", "", "", "walk-in", "New", "", nil, now, now))

	leads, err := repo.List(context.Background(), tenancy.Scope{TenantID: 1}, StatusNew, 50, 0)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "walk-in", leads[0].Source)

	memberID := 9
	mock.ExpectQuery(`UPDATE leads SET status = \$2, notes = \$3, member_id = \$4, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(3, StatusConverted, "done", 9).
		WillReturnRows(sqlmock.NewRows(leadCols).AddRow(3, 1, "Ana", "", "", "walk-in", "Converted", "done", 9, now, now))

	saved, err := repo.Save(context.Background(), &Lead{ID: 3, Status: StatusConverted, Notes: "done", MemberID: &memberID})
	require.NoError(t, err)
	assert.Equal(t, StatusConverted, saved.Status)
	require.NotNil(t, saved.MemberID)
	assert.Equal(t, 9, *saved.MemberID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
