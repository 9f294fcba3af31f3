package saas

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository

	CreatePlan(ctx context.Context, name string, priceCents int64, limits Limits) (*Plan, error)
	ListPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, id int) (*Plan, error)
	UpdatePlan(ctx context.Context, id int, name string, priceCents int64, limits Limits) (*Plan, error)
	DeletePlan(ctx context.Context, id int) (int64, error)

	// ActivePlan loads the tenant's active subscription and plan. forUpdate
	// locks the subscription row until the surrounding transaction ends.
	ActivePlan(ctx context.Context, tenantID int, forUpdate bool) (*ActivePlan, error)
	GetActiveSubscription(ctx context.Context, tenantID int) (*Subscription, error)
	CreateSubscription(ctx context.Context, tenantID, planID int, subscriberAccountID *int) (*Subscription, error)
	SuspendActive(ctx context.Context, tenantID int) (int64, error)

	CountUsage(ctx context.Context, resource Resource, tenantID int, subscriberAccountID *int) (int, error)
	TenantOwner(ctx context.Context, tenantID int) (*int, error)
	TenantStatus(ctx context.Context, tenantID int) (string, error)
}
