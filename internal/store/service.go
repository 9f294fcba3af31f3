package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"
	"gymcore/internal/db"
	"gymcore/internal/invoice"
	"gymcore/internal/logger"
	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Service interface {
	CreateProduct(ctx context.Context, id auth.Identity, req ProductRequest) (*Product, error)
	ListProducts(ctx context.Context, id auth.Identity) ([]Product, error)
	Restock(ctx context.Context, id auth.Identity, productID int, req RestockRequest) (*Product, error)
	// Checkout sells items to a member in one transaction: stock is
	// decremented, an order and an invoice are written, and the invoice is
	// paid from the wallet when asked. Any failure leaves stock untouched.
	Checkout(ctx context.Context, id auth.Identity, req CheckoutRequest) (*CheckoutResponse, error)
}

type service struct {
	repo     Repository
	invoices invoice.Service
	tx       db.Transactor
}

func NewService(repo Repository, invoices invoice.Service, tx db.Transactor) Service {
	return &service{repo: repo, invoices: invoices, tx: tx}
}

func (s *service) CreateProduct(ctx context.Context, id auth.Identity, req ProductRequest) (*Product, error) {
	tenantID, err := tenancy.ScopeOf(id).Resolve(req.TenantID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if req.PriceCents < 0 || req.Stock < 0 {
		return nil, apperr.Validation("price and stock must not be negative")
	}

	p, err := s.repo.CreateProduct(ctx, &Product{
		TenantID:   tenantID,
		Name:       name,
		PriceCents: req.PriceCents,
		Stock:      req.Stock,
	})
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to create product")
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context, id auth.Identity) ([]Product, error) {
	products, err := s.repo.ListProducts(ctx, tenancy.ScopeOf(id))
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list products")
	}
	return products, nil
}

func (s *service) Restock(ctx context.Context, id auth.Identity, productID int, req RestockRequest) (*Product, error) {
	if req.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	p, err := s.repo.Restock(ctx, tenancy.ScopeOf(id), productID, req.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to restock product")
	}
	return p, nil
}

// mergeItems folds repeated products together and sorts by product id so
// concurrent checkouts lock rows in the same order.
func mergeItems(items []CheckoutItem) ([]CheckoutItem, error) {
	quantities := make(map[int]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be positive")
		}
		quantities[item.ProductID] += item.Quantity
	}

	merged := make([]CheckoutItem, 0, len(quantities))
	for productID, quantity := range quantities {
		merged = append(merged, CheckoutItem{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}

func (s *service) Checkout(ctx context.Context, id auth.Identity, req CheckoutRequest) (*CheckoutResponse, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("at least one item is required")
	}
	items, err := mergeItems(req.Items)
	if err != nil {
		return nil, err
	}

	var resp CheckoutResponse
	err = s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)

		tenantID, err := repo.MemberTenant(ctx, tenancy.ScopeOf(id), req.MemberID)
		if err != nil {
			return err
		}

		lines := make([]OrderItem, 0, len(items))
		var total int64
		for _, item := range items {
			p, err := repo.LockProduct(ctx, tenantID, item.ProductID)
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("product")
			}
			if err != nil {
				return apperr.FromStorage(err, "failed to load product")
			}
			if p.Stock < item.Quantity {
				return apperr.Conflict(fmt.Sprintf("insufficient stock for %s: %d left, %d requested", p.Name, p.Stock, item.Quantity))
			}
			if err := repo.SetStock(ctx, p.ID, p.Stock-item.Quantity); err != nil {
				return apperr.FromStorage(err, "failed to update stock")
			}

			lines = append(lines, OrderItem{ProductID: p.ID, Quantity: item.Quantity, UnitPriceCents: p.PriceCents})
			total += p.PriceCents * int64(item.Quantity)
		}

		order, err := repo.CreateOrder(ctx, &Order{TenantID: tenantID, MemberID: req.MemberID, TotalCents: total})
		if err != nil {
			return apperr.FromStorage(err, "failed to create order")
		}

		order.Items = make([]OrderItem, 0, len(lines))
		for _, line := range lines {
			line.OrderID = order.ID
			saved, err := repo.CreateOrderItem(ctx, &line)
			if err != nil {
				return apperr.FromStorage(err, "failed to create order item")
			}
			order.Items = append(order.Items, *saved)
		}

		inv, err := s.invoices.CreateTx(ctx, tx, invoice.Draft{
			TenantID:    tenantID,
			MemberID:    req.MemberID,
			AmountCents: total,
			Description: fmt.Sprintf("Store order #%d", order.ID),
			Reason:      "store",
		})
		if err != nil {
			return err
		}
		if err := repo.SetOrderInvoice(ctx, order.ID, inv.ID); err != nil {
			return apperr.FromStorage(err, "failed to link invoice")
		}
		order.InvoiceID = &inv.ID

		if req.PayWithWallet && total > 0 {
			inv, err = s.invoices.PayTx(ctx, tx, inv, total)
			if err != nil {
				return err
			}
		}

		resp = CheckoutResponse{Order: order, Invoice: inv}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("checkout completed",
		"order_id", resp.Order.ID,
		"member_id", req.MemberID,
		"total_cents", resp.Order.TotalCents,
		"invoice_status", string(resp.Invoice.Status),
	)
	return &resp, nil
}
