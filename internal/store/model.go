package store

import (
	"time"

	"gymcore/internal/invoice"
)

type Product struct {
	ID         int       `db:"id" json:"id"`
	TenantID   int       `db:"tenant_id" json:"tenant_id"`
	Name       string    `db:"name" json:"name"`
	PriceCents int64     `db:"price_cents" json:"price_cents"`
	Stock      int       `db:"stock" json:"stock"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Order struct {
	ID         int         `db:"id" json:"id"`
	TenantID   int         `db:"tenant_id" json:"tenant_id"`
	MemberID   int         `db:"member_id" json:"member_id"`
	InvoiceID  *int        `db:"invoice_id" json:"invoice_id,omitempty"`
	TotalCents int64       `db:"total_cents" json:"total_cents"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	Items      []OrderItem `db:"-" json:"items"`
}

type OrderItem struct {
	ID             int   `db:"id" json:"id"`
	OrderID        int   `db:"order_id" json:"order_id"`
	ProductID      int   `db:"product_id" json:"product_id"`
	Quantity       int   `db:"quantity" json:"quantity"`
	UnitPriceCents int64 `db:"unit_price_cents" json:"unit_price_cents"`
}

type ProductRequest struct {
	TenantID   *int   `json:"tenant_id"`
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"min=0"`
	Stock      int    `json:"stock" binding:"min=0"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CheckoutItem struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	MemberID      int            `json:"member_id" binding:"required"`
	Items         []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	PayWithWallet bool           `json:"pay_with_wallet"`
}

type CheckoutResponse struct {
	Order   *Order           `json:"order"`
	Invoice *invoice.Invoice `json:"invoice"`
}
