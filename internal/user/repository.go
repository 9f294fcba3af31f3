package user

import (
	"context"

	"gymcore/internal/auth"
	"gymcore/internal/db"
	"gymcore/internal/tenancy"

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

const columns = `id, tenant_id, name, email, password_hash, role, created_at`

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (tenant_id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns

	var created User
	if err := sqlx.GetContext(ctx, r.db, &created, query, u.TenantID, u.Name, u.Email, u.PasswordHash, u.Role); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+columns+` FROM users WHERE email = $1`, email); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	var u User
	if err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+columns+` FROM users WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *repository) ListByRole(ctx context.Context, scope tenancy.Scope, roles []auth.Role) ([]User, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{pq.Array(roleNames(roles))})
	query := `SELECT ` + columns + ` FROM users WHERE role = ANY($1) AND ` + clause + ` ORDER BY name, id`

	var users []User
	if err := sqlx.SelectContext(ctx, r.db, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) DeleteByRole(ctx context.Context, scope tenancy.Scope, id int, roles []auth.Role) (int64, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{id, pq.Array(roleNames(roles))})
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND role = ANY($2) AND `+clause, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func roleNames(roles []auth.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
