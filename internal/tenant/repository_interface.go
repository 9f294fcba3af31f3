package tenant

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository
	Create(ctx context.Context, name string, ownerAccountID *int) (*Tenant, error)
	SetOwner(ctx context.Context, id, ownerAccountID int) (*Tenant, error)
	ListAll(ctx context.Context) ([]Tenant, error)
	// ListOwned returns the tenants owned by accountID plus tenantID itself.
	ListOwned(ctx context.Context, accountID, tenantID int) ([]Tenant, error)
	Get(ctx context.Context, id int, forUpdate bool) (*Tenant, error)
	SetStatus(ctx context.Context, id int, status Status) (*Tenant, error)
	// Delete removes the tenant and everything it owns. Run it inside a
	// transaction.
	Delete(ctx context.Context, id int) error
}
