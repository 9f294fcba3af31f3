package tenant

import (
	"context"

	"github.com/jmoiron/sqlx"
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

const columns = `id, name, status, owner_account_id, created_at`

func (r *repository) Create(ctx context.Context, name string, ownerAccountID *int) (*Tenant, error) {
	var t Tenant
	err := sqlx.GetContext(ctx, r.db, &t,
		`INSERT INTO tenants (name, owner_account_id) VALUES ($1, $2) RETURNING `+columns,
		name, ownerAccountID,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) SetOwner(ctx context.Context, id, ownerAccountID int) (*Tenant, error) {
	var t Tenant
	err := sqlx.GetContext(ctx, r.db, &t,
		`UPDATE tenants SET owner_account_id = $2 WHERE id = $1 RETURNING `+columns,
		id, ownerAccountID,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Tenant, error) {
	var tenants []Tenant
	if err := sqlx.SelectContext(ctx, r.db, &tenants, `SELECT `+columns+` FROM tenants ORDER BY id`); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *repository) ListOwned(ctx context.Context, accountID, tenantID int) ([]Tenant, error) {
	var tenants []Tenant
	err := sqlx.SelectContext(ctx, r.db, &tenants,
		`SELECT `+columns+` FROM tenants WHERE owner_account_id = $1 OR id = $2 ORDER BY id`,
		accountID, tenantID,
	)
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *repository) Get(ctx context.Context, id int, forUpdate bool) (*Tenant, error) {
	query := `SELECT ` + columns + ` FROM tenants WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var t Tenant
	if err := sqlx.GetContext(ctx, r.db, &t, query, id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) SetStatus(ctx context.Context, id int, status Status) (*Tenant, error) {
	var t Tenant
	err := sqlx.GetContext(ctx, r.db, &t,
		`UPDATE tenants SET status = $2 WHERE id = $1 RETURNING `+columns,
		id, status,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// deleteSteps lists dependents before the rows they reference. The schema
// has no ON DELETE CASCADE, so the order matters.
var deleteSteps = []string{
	`DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE tenant_id = $1)`,
	`DELETE FROM orders WHERE tenant_id = $1`,
	`DELETE FROM invoices WHERE tenant_id = $1`,
	`DELETE FROM wallet_transactions WHERE tenant_id = $1`,
	`DELETE FROM wallets WHERE tenant_id = $1`,
	`DELETE FROM lockers WHERE tenant_id = $1`,
	`DELETE FROM leads WHERE tenant_id = $1`,
	`DELETE FROM members WHERE tenant_id = $1`,
	`DELETE FROM membership_plans WHERE tenant_id = $1`,
	`DELETE FROM products WHERE tenant_id = $1`,
	`DELETE FROM subscriptions WHERE tenant_id = $1`,
	`UPDATE tenants SET owner_account_id = NULL WHERE owner_account_id IN (SELECT id FROM users WHERE tenant_id = $1)`,
	`UPDATE subscriptions SET subscriber_account_id = NULL WHERE subscriber_account_id IN (SELECT id FROM users WHERE tenant_id = $1)`,
	`DELETE FROM users WHERE tenant_id = $1`,
	`DELETE FROM tenants WHERE id = $1`,
}

func (r *repository) Delete(ctx context.Context, id int) error {
	for _, step := range deleteSteps {
		if _, err := r.db.ExecContext(ctx, step, id); err != nil {
			return err
		}
	}
	return nil
}
