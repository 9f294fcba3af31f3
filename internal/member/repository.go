package member

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

const columns = `id, tenant_id, member_code, user_id, plan_id, name, email, phone, status,
	join_date, expiry_date, benefits, history, created_at, updated_at`

func (r *repository) Create(ctx context.Context, m *Member) (*Member, error) {
	query := `
		INSERT INTO members (tenant_id, member_code, user_id, plan_id, name, email, phone, status, join_date, expiry_date, benefits, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + columns

	var created Member
	err := sqlx.GetContext(ctx, r.db, &created, query,
		m.TenantID, m.MemberCode, m.UserID, m.PlanID, m.Name, m.Email, m.Phone,
		m.Status, m.JoinDate, m.ExpiryDate, m.Benefits, m.History,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) Get(ctx context.Context, scope tenancy.Scope, id int, forUpdate bool) (*Member, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{id})
	query := `SELECT ` + columns + ` FROM members WHERE id = $1 AND ` + clause
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var m Member
	if err := sqlx.GetContext(ctx, r.db, &m, query, args...); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context, scope tenancy.Scope, filter ListFilter) ([]Member, error) {
	clause, args := scope.Clause("tenant_id", nil)
	query := `SELECT ` + columns + ` FROM members WHERE ` + clause

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (name ILIKE $` + n + ` OR email ILIKE $` + n + ` OR member_code ILIKE $` + n + `)`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	var members []Member
	if err := sqlx.SelectContext(ctx, r.db, &members, query, args...); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) Save(ctx context.Context, m *Member) (*Member, error) {
	query := `
		UPDATE members
		SET plan_id = $2, name = $3, email = $4, phone = $5, status = $6,
			join_date = $7, expiry_date = $8, benefits = $9, history = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + columns

	var saved Member
	err := sqlx.GetContext(ctx, r.db, &saved, query,
		m.ID, m.PlanID, m.Name, m.Email, m.Phone, m.Status,
		m.JoinDate, m.ExpiryDate, m.Benefits, m.History,
	)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// deleteSteps run in order; each removes rows that reference the next.
var deleteSteps = []string{
	`DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE member_id = $1)`,
	`DELETE FROM orders WHERE member_id = $1`,
	`DELETE FROM invoices WHERE member_id = $1`,
	`DELETE FROM wallet_transactions WHERE wallet_id IN (SELECT id FROM wallets WHERE member_id = $1)`,
	`DELETE FROM wallets WHERE member_id = $1`,
	`UPDATE leads SET member_id = NULL, updated_at = NOW() WHERE member_id = $1`,
	`DELETE FROM members WHERE id = $1`,
}

func (r *repository) Delete(ctx context.Context, id int) error {
	for _, step := range deleteSteps {
		if _, err := r.db.ExecContext(ctx, step, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) ExpiringBetween(ctx context.Context, scope tenancy.Scope, from, to time.Time) ([]Member, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{from, to})
	query := `
		SELECT ` + columns + ` FROM members
		WHERE status = 'Active' AND expiry_date >= $1 AND expiry_date <= $2 AND ` + clause + `
		ORDER BY expiry_date, id`

	var members []Member
	if err := sqlx.SelectContext(ctx, r.db, &members, query, args...); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) ExpiredBetween(ctx context.Context, scope tenancy.Scope, from, to time.Time) ([]Member, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{from, to})
	query := `
		SELECT ` + columns + ` FROM members
		WHERE expiry_date >= $1 AND expiry_date < $2 AND ` + clause + `
		ORDER BY expiry_date DESC, id`

	var members []Member
	if err := sqlx.SelectContext(ctx, r.db, &members, query, args...); err != nil {
		return nil, err
	}
	return members, nil
}

// SweepExpired moves every Active member whose expiry is before today to
// Expired.
func (r *repository) SweepExpired(ctx context.Context, today time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE members
		SET status = 'Expired', updated_at = NOW()
		WHERE status = 'Active' AND expiry_date < $1
	`, today)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
