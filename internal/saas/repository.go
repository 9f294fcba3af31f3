package saas

import (
	"context"
	"fmt"

	"gymcore/internal/auth"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sqlx.Tx) Repository {
	return &repository{db: tx}
}

const planColumns = `id, name, price_cents, limits, created_at`

func (r *repository) CreatePlan(ctx context.Context, name string, priceCents int64, limits Limits) (*Plan, error) {
	query := `
		INSERT INTO saas_plans (name, price_cents, limits)
		VALUES ($1, $2, $3)
		RETURNING ` + planColumns

	var plan Plan
	if err := sqlx.GetContext(ctx, r.db, &plan, query, name, priceCents, limits); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) ListPlans(ctx context.Context) ([]Plan, error) {
	query := `SELECT ` + planColumns + ` FROM saas_plans ORDER BY price_cents ASC, id ASC`

	var plans []Plan
	if err := sqlx.SelectContext(ctx, r.db, &plans, query); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) GetPlan(ctx context.Context, id int) (*Plan, error) {
	query := `SELECT ` + planColumns + ` FROM saas_plans WHERE id = $1`

	var plan Plan
	if err := sqlx.GetContext(ctx, r.db, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) UpdatePlan(ctx context.Context, id int, name string, priceCents int64, limits Limits) (*Plan, error) {
	query := `
		UPDATE saas_plans
		SET name = $2, price_cents = $3, limits = $4
		WHERE id = $1
		RETURNING ` + planColumns

	var plan Plan
	if err := sqlx.GetContext(ctx, r.db, &plan, query, id, name, priceCents, limits); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) DeletePlan(ctx context.Context, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saas_plans WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) ActivePlan(ctx context.Context, tenantID int, forUpdate bool) (*ActivePlan, error) {
	query := `
		SELECT s.id AS subscription_id, s.subscriber_account_id, p.name AS plan_name, p.limits
		FROM subscriptions s
		JOIN saas_plans p ON p.id = s.plan_id
		WHERE s.tenant_id = $1 AND s.status = 'Active'`
	if forUpdate {
		query += ` FOR UPDATE OF s`
	}

	var active ActivePlan
	if err := sqlx.GetContext(ctx, r.db, &active, query, tenantID); err != nil {
		return nil, err
	}
	return &active, nil
}

func (r *repository) GetActiveSubscription(ctx context.Context, tenantID int) (*Subscription, error) {
	query := `
		SELECT id, tenant_id, plan_id, status, subscriber_account_id, created_at
		FROM subscriptions
		WHERE tenant_id = $1 AND status = 'Active'`

	var sub Subscription
	if err := sqlx.GetContext(ctx, r.db, &sub, query, tenantID); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) CreateSubscription(ctx context.Context, tenantID, planID int, subscriberAccountID *int) (*Subscription, error) {
	query := `
		INSERT INTO subscriptions (tenant_id, plan_id, status, subscriber_account_id)
		VALUES ($1, $2, 'Active', $3)
		RETURNING id, tenant_id, plan_id, status, subscriber_account_id, created_at`

	var sub Subscription
	if err := sqlx.GetContext(ctx, r.db, &sub, query, tenantID, planID, subscriberAccountID); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) SuspendActive(ctx context.Context, tenantID int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'Suspended' WHERE tenant_id = $1 AND status = 'Active'`,
		tenantID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) CountUsage(ctx context.Context, resource Resource, tenantID int, subscriberAccountID *int) (int, error) {
	var (
		query string
		args  []interface{}
	)

	switch resource {
	case ResourceMembers:
		query = `SELECT COUNT(*) FROM members WHERE tenant_id = $1`
		args = []interface{}{tenantID}
	case ResourceStaff:
		roles := make([]string, len(auth.StaffRoles))
		for i, role := range auth.StaffRoles {
			roles[i] = string(role)
		}
		query = `SELECT COUNT(*) FROM users WHERE tenant_id = $1 AND role = ANY($2)`
		args = []interface{}{tenantID, pq.Array(roles)}
	case ResourceBranches:
		if subscriberAccountID == nil {
			return 0, nil
		}
		query = `SELECT COUNT(*) FROM tenants WHERE owner_account_id = $1`
		args = []interface{}{*subscriberAccountID}
	default:
		return 0, fmt.Errorf("unknown resource %q", resource)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) TenantOwner(ctx context.Context, tenantID int) (*int, error) {
	var owner *int
	if err := sqlx.GetContext(ctx, r.db, &owner, `SELECT owner_account_id FROM tenants WHERE id = $1`, tenantID); err != nil {
		return nil, err
	}
	return owner, nil
}

func (r *repository) TenantStatus(ctx context.Context, tenantID int) (string, error) {
	var status string
	if err := sqlx.GetContext(ctx, r.db, &status, `SELECT status FROM tenants WHERE id = $1`, tenantID); err != nil {
		return "", err
	}
	return status, nil
}
