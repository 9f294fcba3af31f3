package lead

import (
	"context"

	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository
	Create(ctx context.Context, l *Lead) (*Lead, error)
	List(ctx context.Context, scope tenancy.Scope, status Status, limit, offset int) ([]Lead, error)
	Get(ctx context.Context, scope tenancy.Scope, id int, forUpdate bool) (*Lead, error)
	Save(ctx context.Context, l *Lead) (*Lead, error)
}
