package integration_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"gymcore/internal/auth"
	"gymcore/internal/config"
	"gymcore/internal/db"
	"gymcore/internal/saas"
	"gymcore/internal/server"
	"gymcore/internal/tenant"
)

var superAdmin = auth.Identity{UserID: 1, Role: auth.RoleSuperAdmin}

// setupTestDB connects to TEST_DSN, applies migrations and empties every
// table. Tests are skipped when TEST_DSN is unset or unreachable.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping integration tests: TEST_DSN is not set")
	}

	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database, "../migrations"))

	_, err = database.Exec(`TRUNCATE order_items, orders, products, leads, lockers,
		wallet_transactions, wallets, invoices, members, membership_plans,
		subscriptions, saas_plans, users, tenants RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to clean database")

	return database
}

func newServices(database *sqlx.DB) *server.Services {
	return server.NewServices(database, &config.Config{
		JWTSecret:           "integration-secret",
		Location:            time.UTC,
		InvoiceDueDays:      7,
		ExpiringSoonDays:    7,
		RecentlyExpiredDays: 30,
	}, nil)
}

func createSaaSPlan(t *testing.T, svc *server.Services, name string, limits saas.Limits) *saas.Plan {
	t.Helper()
	p, err := svc.SaaS.CreatePlan(context.Background(), saas.PlanRequest{Name: name, Limits: limits})
	require.NoError(t, err)
	return p
}

// onboard creates a tenant with its BRANCH_ADMIN and returns the admin's
// identity alongside the response.
func onboard(t *testing.T, svc *server.Services, name, email string, planID *int) (*tenant.OnboardResponse, auth.Identity) {
	t.Helper()
	resp, err := svc.Tenants.Onboard(context.Background(), superAdmin, tenant.OnboardRequest{
		Name:          name,
		OwnerName:     name + " Owner",
		OwnerEmail:    email,
		OwnerPassword: "password123",
		SaaSPlanID:    planID,
	})
	require.NoError(t, err)
	return resp, auth.Identity{
		UserID:   resp.Owner.ID,
		TenantID: resp.Tenant.ID,
		Email:    resp.Owner.Email,
		Role:     auth.RoleBranchAdmin,
	}
}

func count(t *testing.T, database *sqlx.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, database.Get(&n, query, args...))
	return n
}
