package user

import (
	"context"

	"gymcore/internal/auth"
	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository
	Create(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListByRole(ctx context.Context, scope tenancy.Scope, roles []auth.Role) ([]User, error)
	// DeleteByRole removes user id when it is in scope and holds one of roles.
	DeleteByRole(ctx context.Context, scope tenancy.Scope, id int, roles []auth.Role) (int64, error)
}
