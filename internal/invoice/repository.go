package invoice

import (
	"context"
	"strconv"
	"time"

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

const columns = `id, tenant_id, member_id, amount_cents, paid_cents, status, description, due_date, paid_date, created_at`

func (r *repository) Create(ctx context.Context, inv *Invoice) (*Invoice, error) {
	query := `
		INSERT INTO invoices (tenant_id, member_id, amount_cents, paid_cents, status, description, due_date, paid_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + columns

	var created Invoice
	err := sqlx.GetContext(ctx, r.db, &created, query,
		inv.TenantID, inv.MemberID, inv.AmountCents, inv.PaidCents, inv.Status, inv.Description, inv.DueDate, inv.PaidDate)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) List(ctx context.Context, scope tenancy.Scope, filter ListFilter) ([]Invoice, error) {
	clause, args := scope.Clause("tenant_id", nil)
	query := `SELECT ` + columns + ` FROM invoices WHERE ` + clause

	if filter.MemberID != nil {
		args = append(args, *filter.MemberID)
		query += ` AND member_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)
	query += ` ORDER BY due_date DESC, id DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	var invoices []Invoice
	if err := sqlx.SelectContext(ctx, r.db, &invoices, query, args...); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repository) Get(ctx context.Context, scope tenancy.Scope, id int, forUpdate bool) (*Invoice, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{id})
	query := `SELECT ` + columns + ` FROM invoices WHERE id = $1 AND ` + clause
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var inv Invoice
	if err := sqlx.GetContext(ctx, r.db, &inv, query, args...); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) UpdatePayment(ctx context.Context, id int, paidCents int64, status Status, paidDate *time.Time) (*Invoice, error) {
	query := `
		UPDATE invoices
		SET paid_cents = $2, status = $3, paid_date = $4
		WHERE id = $1
		RETURNING ` + columns

	var inv Invoice
	if err := sqlx.GetContext(ctx, r.db, &inv, query, id, paidCents, status, paidDate); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) SweepOverdue(ctx context.Context, today time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invoices
		SET status = 'Overdue'
		WHERE status IN ('Unpaid', 'Partial') AND amount_cents > 0 AND due_date < $1
	`, today)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
