package integration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymcore/internal/apperr"
	"gymcore/internal/lead"
	"gymcore/internal/locker"
	"gymcore/internal/member"
	"gymcore/internal/plan"
	"gymcore/internal/store"
	"gymcore/internal/user"
	"gymcore/internal/wallet"
)

func TestTenantBoundary_Integration(t *testing.T) {
	database := setupTestDB(t)
	svc := newServices(database)
	ctx := context.Background()

	_, adminA := onboard(t, svc, "North Gym", "north@test.com", nil)
	_, adminB := onboard(t, svc, "South Gym", "south@test.com", nil)

	m, err := svc.Members.Create(ctx, adminA, member.CreateRequest{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, adminA.TenantID, m.TenantID)

	_, err = svc.Members.Get(ctx, adminB, m.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Wallets.TopUp(ctx, adminB, m.ID, wallet.TopUpRequest{AmountCents: 100})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	list, err := svc.Members.List(ctx, adminB, member.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	all, err := svc.Members.List(ctx, superAdmin, member.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTenantDeleteCascade_Integration(t *testing.T) {
	database := setupTestDB(t)
	svc := newServices(database)
	ctx := context.Background()

	doomed, adminA := onboard(t, svc, "Doomed Gym", "doomed@test.com", nil)
	_, adminB := onboard(t, svc, "Kept Gym", "kept@test.com", nil)

	p, err := svc.Plans.Create(ctx, adminA, plan.PlanRequest{
		Name:         "Monthly",
		PriceCents:   3000,
		Duration:     1,
		DurationType: plan.Months,
	})
	require.NoError(t, err)

	m, err := svc.Members.Create(ctx, adminA, member.CreateRequest{Name: "Bob", PlanID: &p.ID})
	require.NoError(t, err)

	_, err = svc.Wallets.TopUp(ctx, adminA, m.ID, wallet.TopUpRequest{AmountCents: 5000})
	require.NoError(t, err)

	l, err := svc.Lockers.Create(ctx, adminA, locker.CreateRequest{Number: "A1"})
	require.NoError(t, err)
	_, err = svc.Lockers.Assign(ctx, adminA, l.ID, locker.AssignRequest{MemberID: m.ID, ExpiryDate: "2099-01-01"})
	require.NoError(t, err)

	product, err := svc.Store.CreateProduct(ctx, adminA, store.ProductRequest{Name: "Shaker", PriceCents: 1000, Stock: 5})
	require.NoError(t, err)
	_, err = svc.Store.Checkout(ctx, adminA, store.CheckoutRequest{
		MemberID:      m.ID,
		Items:         []store.CheckoutItem{{ProductID: product.ID, Quantity: 2}},
		PayWithWallet: true,
	})
	require.NoError(t, err)

	_, err = svc.Leads.Create(ctx, adminA, lead.CreateRequest{Name: "Walk-in"})
	require.NoError(t, err)

	survivor, err := svc.Members.Create(ctx, adminB, member.CreateRequest{Name: "Carol"})
	require.NoError(t, err)

	require.NoError(t, svc.Tenants.Delete(ctx, superAdmin, doomed.Tenant.ID))

	for _, table := range []string{
		"orders", "invoices", "wallet_transactions", "wallets", "lockers",
		"leads", "members", "membership_plans", "products", "subscriptions", "users",
	} {
		assert.Zero(t, count(t, database, "SELECT COUNT(*) FROM "+table+" WHERE tenant_id = $1", doomed.Tenant.ID), table)
	}
	assert.Zero(t, count(t, database, "SELECT COUNT(*) FROM order_items"))
	assert.Zero(t, count(t, database, "SELECT COUNT(*) FROM tenants WHERE id = $1", doomed.Tenant.ID))

	kept, err := svc.Members.Get(ctx, adminB, survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", kept.Name)

	_, err = svc.Tenants.Get(ctx, superAdmin, doomed.Tenant.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSuspendedTenantIsLockedOut_Integration(t *testing.T) {
	database := setupTestDB(t)
	svc := newServices(database)
	ctx := context.Background()

	resp, admin := onboard(t, svc, "Paused Gym", "paused@test.com", nil)

	_, err := svc.Tenants.Suspend(ctx, superAdmin, resp.Tenant.ID)
	require.NoError(t, err)

	_, err = svc.Users.Login(ctx, user.LoginRequest{Email: "paused@test.com", Password: "password123"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Members.Create(ctx, admin, member.CreateRequest{Name: "Late"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Members.Create(ctx, superAdmin, member.CreateRequest{TenantID: &admin.TenantID, Name: "Comped"})
	require.NoError(t, err)

	_, err = svc.Tenants.Activate(ctx, superAdmin, resp.Tenant.ID)
	require.NoError(t, err)

	_, err = svc.Users.Login(ctx, user.LoginRequest{Email: "paused@test.com", Password: "password123"})
	assert.NoError(t, err)
}
