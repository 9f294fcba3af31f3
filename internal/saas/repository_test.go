package saas

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestRepository_ActivePlanForUpdate(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT s.id AS subscription_id, .* FROM subscriptions s JOIN saas_plans p .* FOR UPDATE OF s`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"subscription_id", "subscriber_account_id", "plan_name", "limits"}).
			AddRow(3, 10, "Starter", []byte(`{"members":{"value":2,"isUnlimited":false}}`)))

	active, err := repo.ActivePlan(context.Background(), 1, true)
	require.NoError(t, err)

	assert.Equal(t, 3, active.SubscriptionID)
	require.NotNil(t, active.SubscriberAccountID)
	assert.Equal(t, 10, *active.SubscriberAccountID)
	assert.Equal(t, Limit{Value: 2}, active.Limits[ResourceMembers])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountUsage(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members WHERE tenant_id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE tenant_id = \$1 AND role = ANY\(\$2\)`).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tenants WHERE owner_account_id = \$1`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	members, err := repo.CountUsage(ctx, ResourceMembers, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, members)

	staff, err := repo.CountUsage(ctx, ResourceStaff, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, staff)

	subscriber := 10
	branches, err := repo.CountUsage(ctx, ResourceBranches, 1, &subscriber)
	require.NoError(t, err)
	assert.Equal(t, 1, branches)

	noSubscriber, err := repo.CountUsage(ctx, ResourceBranches, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, noSubscriber)

	_, err = repo.CountUsage(ctx, Resource("lockers"), 1, nil)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreatePlan(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(`INSERT INTO saas_plans`).
		WithArgs("Pro", int64(4900), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price_cents", "limits", "created_at"}).
			AddRow(1, "Pro", 4900, `{"staff":{"value":0,"isUnlimited":true}}`, time.Now()))

	plan, err := repo.CreatePlan(context.Background(), "Pro", 4900, Limits{ResourceStaff: {IsUnlimited: true}})
	require.NoError(t, err)

	assert.Equal(t, 1, plan.ID)
	assert.True(t, plan.Limits[ResourceStaff].IsUnlimited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SuspendActive(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec(`UPDATE subscriptions SET status = 'Suspended' WHERE tenant_id = \$1 AND status = 'Active'`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.SuspendActive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TenantStatus(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT status FROM tenants WHERE id = \$1`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Suspended"))

	status, err := repo.TenantStatus(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Suspended", status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLimitsScan(t *testing.T) {
	var l Limits
	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)

	require.NoError(t, l.Scan(`{"branches":{"value":3,"isUnlimited":false}}`))
	assert.Equal(t, 3, l[ResourceBranches].Value)

	assert.Error(t, l.Scan(42))

	v, err := Limits(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)
}
