package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gymcore/internal/auth"
	"gymcore/internal/tenancy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "tenant_id", "name", "email", "password_hash", "role", "created_at"}

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestCreateAndFindUser(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	now := time.Now()
	tenantID := 1
	hash := "hash"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (tenant_id, name, email, password_hash, role) VALUES ($1, $2, $3, $4, $5) RETURNING id, tenant_id, name, email, password_hash, role, created_at")).
		WithArgs(1, "Alice", "a@example.com", "hash", "STAFF").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, 1, "Alice", "a@example.com", "hash", "STAFF", now))

	u, err := repo.Create(context.Background(), &User{TenantID: &tenantID, Name: "Alice", Email: "a@example.com", PasswordHash: &hash, Role: auth.RoleStaff})
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	assert.Equal(t, auth.RoleStaff, u.Role)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, tenant_id, name, email, password_hash, role, created_at FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, 1, "Alice", "a@example.com", nil, "MEMBER", now))

	fu, err := repo.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice", fu.Name)
	assert.Nil(t, fu.PasswordHash)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByRole_Scoped(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, tenant_id, name, email, password_hash, role, created_at FROM users WHERE role = ANY($1) AND tenant_id = $2 ORDER BY name, id")).
		WithArgs(pq.Array([]string{"STAFF", "TRAINER", "MANAGER"}), 1).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(2, 1, "Bo", "bo@example.com", nil, "TRAINER", time.Now()))

	users, err := repo.ListByRole(context.Background(), tenancy.Scope{TenantID: 1}, auth.StaffRoles)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, auth.RoleTrainer, users[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByRole(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1 AND role = ANY($2) AND tenant_id = $3")).
		WithArgs(5, pq.Array([]string{"STAFF", "TRAINER", "MANAGER"}), 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.DeleteByRole(context.Background(), tenancy.Scope{TenantID: 1}, 5, auth.StaffRoles)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
