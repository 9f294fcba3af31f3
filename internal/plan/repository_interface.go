package plan

import (
	"context"

	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository
	Create(ctx context.Context, p *MembershipPlan) (*MembershipPlan, error)
	List(ctx context.Context, scope tenancy.Scope, onlyActive bool) ([]MembershipPlan, error)
	Get(ctx context.Context, scope tenancy.Scope, id int) (*MembershipPlan, error)
	Update(ctx context.Context, scope tenancy.Scope, p *MembershipPlan) (*MembershipPlan, error)
	Delete(ctx context.Context, scope tenancy.Scope, id int) (int64, error)
}
