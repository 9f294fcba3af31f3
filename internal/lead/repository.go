package lead

import (
	"context"
	"strconv"

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

const columns = `id, tenant_id, name, email, phone, source, status, notes, member_id, created_at, updated_at`

func (r *repository) Create(ctx context.Context, l *Lead) (*Lead, error) {
	query := `
		INSERT INTO leads (tenant_id, name, email, phone, source, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + columns

	var created Lead
	if err := sqlx.GetContext(ctx, r.db, &created, query, l.TenantID, l.Name, l.Email, l.Phone, l.Source, l.Notes); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) List(ctx context.Context, scope tenancy.Scope, status Status, limit, offset int) ([]Lead, error) {
	clause, args := scope.Clause("tenant_id", nil)
	query := `SELECT ` + columns + ` FROM leads WHERE ` + clause
	if status != "" {
		args = append(args, status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit, offset)
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	var leads []Lead
	if err := sqlx.SelectContext(ctx, r.db, &leads, query, args...); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *repository) Get(ctx context.Context, scope tenancy.Scope, id int, forUpdate bool) (*Lead, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{id})
	query := `SELECT ` + columns + ` FROM leads WHERE id = $1 AND ` + clause
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var l Lead
	if err := sqlx.GetContext(ctx, r.db, &l, query, args...); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) Save(ctx context.Context, l *Lead) (*Lead, error) {
	query := `
		UPDATE leads
		SET status = $2, notes = $3, member_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + columns

	var saved Lead
	if err := sqlx.GetContext(ctx, r.db, &saved, query, l.ID, l.Status, l.Notes, l.MemberID); err != nil {
		return nil, err
	}
	return &saved, nil
}
