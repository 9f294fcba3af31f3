package locker

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

const columns = `id, tenant_id, number, status, assigned_to_id, expiry_date, notes, created_at`

func (r *repository) MemberTenant(ctx context.Context, scope tenancy.Scope, memberID int) (int, error) {
	return scope.OwnerOf(ctx, r.db, "members", memberID, "member")
}

func (r *repository) Create(ctx context.Context, tenantID int, number string) (*Locker, error) {
	var l Locker
	err := sqlx.GetContext(ctx, r.db, &l,
		`INSERT INTO lockers (tenant_id, number) VALUES ($1, $2) RETURNING `+columns,
		tenantID, number,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) List(ctx context.Context, scope tenancy.Scope, status Status) ([]Locker, error) {
	clause, args := scope.Clause("tenant_id", nil)
	query := `SELECT ` + columns + ` FROM lockers WHERE ` + clause
	if status != "" {
		args = append(args, status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY tenant_id, number`

	var lockers []Locker
	if err := sqlx.SelectContext(ctx, r.db, &lockers, query, args...); err != nil {
		return nil, err
	}
	return lockers, nil
}

func (r *repository) Get(ctx context.Context, scope tenancy.Scope, id int) (*Locker, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{id})

	var l Locker
	if err := sqlx.GetContext(ctx, r.db, &l, `SELECT `+columns+` FROM lockers WHERE id = $1 AND `+clause, args...); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) Assign(ctx context.Context, id, memberID int, expiry time.Time, notes *string) (*Locker, error) {
	query := `
		UPDATE lockers
		SET status = 'Occupied', assigned_to_id = $2, expiry_date = $3, notes = $4
		WHERE id = $1 AND status = 'Available'
		RETURNING ` + columns

	var l Locker
	if err := sqlx.GetContext(ctx, r.db, &l, query, id, memberID, expiry, notes); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) Release(ctx context.Context, scope tenancy.Scope, id int) (*Locker, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{id})
	query := `
		UPDATE lockers
		SET status = 'Available', assigned_to_id = NULL, expiry_date = NULL, notes = NULL
		WHERE id = $1 AND ` + clause + `
		RETURNING ` + columns

	var l Locker
	if err := sqlx.GetContext(ctx, r.db, &l, query, args...); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) ReleaseByMember(ctx context.Context, memberID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lockers
		SET status = 'Available', assigned_to_id = NULL, expiry_date = NULL, notes = NULL
		WHERE assigned_to_id = $1
	`, memberID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SweepExpired releases every Occupied locker whose expiry is before today.
// A second run on the same day matches no rows.
func (r *repository) SweepExpired(ctx context.Context, today time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lockers
		SET status = 'Available', assigned_to_id = NULL, expiry_date = NULL, notes = NULL
		WHERE status = 'Occupied' AND expiry_date < $1
	`, today)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
