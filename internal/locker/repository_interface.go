package locker

import (
	"context"
	"time"

	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository
	MemberTenant(ctx context.Context, scope tenancy.Scope, memberID int) (int, error)
	Create(ctx context.Context, tenantID int, number string) (*Locker, error)
	List(ctx context.Context, scope tenancy.Scope, status Status) ([]Locker, error)
	Get(ctx context.Context, scope tenancy.Scope, id int) (*Locker, error)
	// Assign occupies an Available locker. It returns sql.ErrNoRows when the
	// locker is not Available.
	Assign(ctx context.Context, id, memberID int, expiry time.Time, notes *string) (*Locker, error)
	Release(ctx context.Context, scope tenancy.Scope, id int) (*Locker, error)
	ReleaseByMember(ctx context.Context, memberID int) (int64, error)
	SweepExpired(ctx context.Context, today time.Time) (int64, error)
}
