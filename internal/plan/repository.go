package plan

import (
	"context"

	"gymcore/internal/tenancy"

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

const columns = `id, tenant_id, name, price_cents, duration, duration_type, benefits, active, created_at`

func (r *repository) Create(ctx context.Context, p *MembershipPlan) (*MembershipPlan, error) {
	query := `
		INSERT INTO membership_plans (tenant_id, name, price_cents, duration, duration_type, benefits, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + columns

	var created MembershipPlan
	err := sqlx.GetContext(ctx, r.db, &created, query,
		p.TenantID, p.Name, p.PriceCents, p.Duration, p.DurationType, p.Benefits, p.Active)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) List(ctx context.Context, scope tenancy.Scope, onlyActive bool) ([]MembershipPlan, error) {
	clause, args := scope.Clause("tenant_id", nil)
	query := `SELECT ` + columns + ` FROM membership_plans WHERE ` + clause
	if onlyActive {
		query += ` AND active`
	}
	query += ` ORDER BY price_cents ASC, id ASC`

	var plans []MembershipPlan
	if err := sqlx.SelectContext(ctx, r.db, &plans, query, args...); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) Get(ctx context.Context, scope tenancy.Scope, id int) (*MembershipPlan, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{id})
	query := `SELECT ` + columns + ` FROM membership_plans WHERE id = $1 AND ` + clause

	var p MembershipPlan
	if err := sqlx.GetContext(ctx, r.db, &p, query, args...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, scope tenancy.Scope, p *MembershipPlan) (*MembershipPlan, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{
		p.ID, p.Name, p.PriceCents, p.Duration, p.DurationType, p.Benefits, p.Active,
	})
	query := `
		UPDATE membership_plans
		SET name = $2, price_cents = $3, duration = $4, duration_type = $5, benefits = $6, active = $7
		WHERE id = $1 AND ` + clause + `
		RETURNING ` + columns

	var updated MembershipPlan
	if err := sqlx.GetContext(ctx, r.db, &updated, query, args...); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, scope tenancy.Scope, id int) (int64, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{id})
	res, err := r.db.ExecContext(ctx, `DELETE FROM membership_plans WHERE id = $1 AND `+clause, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
