package invoice

import (
	"context"
	"time"

	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)
	List(ctx context.Context, scope tenancy.Scope, filter ListFilter) ([]Invoice, error)
	Get(ctx context.Context, scope tenancy.Scope, id int, forUpdate bool) (*Invoice, error)
	UpdatePayment(ctx context.Context, id int, paidCents int64, status Status, paidDate *time.Time) (*Invoice, error)
	SweepOverdue(ctx context.Context, today time.Time) (int64, error)
}
