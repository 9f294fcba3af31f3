package member

import (
	"context"
	"time"

	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository

	Create(ctx context.Context, m *Member) (*Member, error)
	// Get loads a member under scope. forUpdate locks the row until the
	// surrounding transaction ends.
	Get(ctx context.Context, scope tenancy.Scope, id int, forUpdate bool) (*Member, error)
	List(ctx context.Context, scope tenancy.Scope, filter ListFilter) ([]Member, error)
	Save(ctx context.Context, m *Member) (*Member, error)
	// Delete removes the member and every row that references it. Run it
	// inside a transaction.
	Delete(ctx context.Context, id int) error

	ExpiringBetween(ctx context.Context, scope tenancy.Scope, from, to time.Time) ([]Member, error)
	ExpiredBetween(ctx context.Context, scope tenancy.Scope, from, to time.Time) ([]Member, error)
	SweepExpired(ctx context.Context, today time.Time) (int64, error)
}
