package store

import (
	"context"

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

const productColumns = `id, tenant_id, name, price_cents, stock, created_at`

func (r *repository) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	var created Product
	err := sqlx.GetContext(ctx, r.db, &created,
		`INSERT INTO products (tenant_id, name, price_cents, stock) VALUES ($1, $2, $3, $4) RETURNING `+productColumns,
		p.TenantID, p.Name, p.PriceCents, p.Stock,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) ListProducts(ctx context.Context, scope tenancy.Scope) ([]Product, error) {
	clause, args := scope.Clause("tenant_id", nil)

	var products []Product
	err := sqlx.SelectContext(ctx, r.db, &products,
		`SELECT `+productColumns+` FROM products WHERE `+clause+` ORDER BY name, id`, args...)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Restock(ctx context.Context, scope tenancy.Scope, id, quantity int) (*Product, error) {
	clause, args := scope.Clause("tenant_id", []interface{}{id, quantity})

	var p Product
	err := sqlx.GetContext(ctx, r.db, &p,
		`UPDATE products SET stock = stock + $2 WHERE id = $1 AND `+clause+` RETURNING `+productColumns, args...)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) LockProduct(ctx context.Context, tenantID, id int) (*Product, error) {
	var p Product
	err := sqlx.GetContext(ctx, r.db, &p,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) SetStock(ctx context.Context, id, stock int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET stock = $2 WHERE id = $1`, id, stock)
	return err
}

func (r *repository) MemberTenant(ctx context.Context, scope tenancy.Scope, memberID int) (int, error) {
	return scope.OwnerOf(ctx, r.db, "members", memberID, "member")
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) (*Order, error) {
	var created Order
	err := sqlx.GetContext(ctx, r.db, &created,
		`INSERT INTO orders (tenant_id, member_id, total_cents) VALUES ($1, $2, $3)
		RETURNING id, tenant_id, member_id, invoice_id, total_cents, created_at`,
		o.TenantID, o.MemberID, o.TotalCents,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) CreateOrderItem(ctx context.Context, item *OrderItem) (*OrderItem, error) {
	var created OrderItem
	err := sqlx.GetContext(ctx, r.db, &created,
		`INSERT INTO order_items (order_id, product_id, quantity, unit_price_cents) VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, product_id, quantity, unit_price_cents`,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPriceCents,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) SetOrderInvoice(ctx context.Context, orderID, invoiceID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE orders SET invoice_id = $2 WHERE id = $1`, orderID, invoiceID)
	return err
}
