package store

import (
	"context"

	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository

	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	ListProducts(ctx context.Context, scope tenancy.Scope) ([]Product, error)
	Restock(ctx context.Context, scope tenancy.Scope, id, quantity int) (*Product, error)
	// LockProduct loads a product of tenantID with FOR UPDATE.
	LockProduct(ctx context.Context, tenantID, id int) (*Product, error)
	SetStock(ctx context.Context, id, stock int) error

	MemberTenant(ctx context.Context, scope tenancy.Scope, memberID int) (int, error)
	CreateOrder(ctx context.Context, o *Order) (*Order, error)
	CreateOrderItem(ctx context.Context, item *OrderItem) (*OrderItem, error)
	SetOrderInvoice(ctx context.Context, orderID, invoiceID int) error
}
