package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"
	"gymcore/internal/calendar"
	"gymcore/internal/db"
	"gymcore/internal/metrics"
	"gymcore/internal/tenancy"
	"gymcore/internal/wallet"

	"github.com/jmoiron/sqlx"
)

type Service interface {
	// CreateTx issues an Unpaid invoice inside tx, due DueDays from today.
	// A zero amount is issued already Paid.
	CreateTx(ctx context.Context, tx *sqlx.Tx, d Draft) (*Invoice, error)
	List(ctx context.Context, id auth.Identity, filter ListFilter) ([]Invoice, error)
	Get(ctx context.Context, id auth.Identity, invoiceID int) (*Invoice, error)
	RecordPayment(ctx context.Context, id auth.Identity, invoiceID int, req PaymentRequest) (*Invoice, error)
	PayFromWallet(ctx context.Context, id auth.Identity, invoiceID int, req WalletPaymentRequest) (*Invoice, error)
	// PayTx settles amountCents of an invoice from the member's wallet inside tx.
	PayTx(ctx context.Context, tx *sqlx.Tx, inv *Invoice, amountCents int64) (*Invoice, error)
	SweepOverdue(ctx context.Context, today time.Time) (int64, error)
}

type Options struct {
	Clock    calendar.Clock
	Location *time.Location
	DueDays  int
}

type service struct {
	repo    Repository
	wallets wallet.Service
	tx      db.Transactor
	opts    Options
}

func NewService(repo Repository, wallets wallet.Service, tx db.Transactor, opts Options) Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &service{repo: repo, wallets: wallets, tx: tx, opts: opts}
}

func (s *service) today() time.Time {
	return calendar.Today(s.opts.Clock, s.opts.Location)
}

func (s *service) CreateTx(ctx context.Context, tx *sqlx.Tx, d Draft) (*Invoice, error) {
	if d.AmountCents < 0 {
		return nil, apperr.Validation("invoice amount must not be negative")
	}

	today := s.today()
	draft := &Invoice{
		TenantID:    d.TenantID,
		MemberID:    d.MemberID,
		AmountCents: d.AmountCents,
		Status:      StatusUnpaid,
		Description: d.Description,
		DueDate:     calendar.AddDays(today, s.opts.DueDays),
	}
	// Nothing is owed on a free plan or an empty order.
	if d.AmountCents == 0 {
		draft.Status = StatusPaid
		draft.PaidDate = &today
	}

	inv, err := s.repo.WithTx(tx).Create(ctx, draft)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to create invoice")
	}

	metrics.RecordInvoice(d.Reason)
	return inv, nil
}

func (s *service) List(ctx context.Context, id auth.Identity, filter ListFilter) ([]Invoice, error) {
	invoices, err := s.repo.List(ctx, tenancy.ScopeOf(id), filter)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list invoices")
	}
	return invoices, nil
}

func (s *service) Get(ctx context.Context, id auth.Identity, invoiceID int) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, tenancy.ScopeOf(id), invoiceID, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("invoice")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load invoice")
	}
	return inv, nil
}

// applyPayment returns the paid amount and status after paying amount.
// Overdue invoices stay Overdue until settled. An unsettled invoice with
// nothing outstanding closes on a zero payment.
func applyPayment(inv *Invoice, amount int64) (int64, Status, error) {
	if inv.Status == StatusPaid {
		return 0, "", apperr.Conflict("invoice is already paid")
	}
	if amount == 0 && inv.Outstanding() == 0 {
		return inv.PaidCents, StatusPaid, nil
	}
	if amount <= 0 {
		return 0, "", apperr.Validation("payment amount must be positive")
	}
	if amount > inv.Outstanding() {
		return 0, "", apperr.Validation(fmt.Sprintf("payment of %d exceeds outstanding balance of %d", amount, inv.Outstanding()))
	}

	paid := inv.PaidCents + amount
	switch {
	case paid == inv.AmountCents:
		return paid, StatusPaid, nil
	case inv.Status == StatusOverdue:
		return paid, StatusOverdue, nil
	default:
		return paid, StatusPartial, nil
	}
}

func (s *service) settle(ctx context.Context, repo Repository, inv *Invoice, amount int64) (*Invoice, error) {
	paid, status, err := applyPayment(inv, amount)
	if err != nil {
		return nil, err
	}

	var paidDate *time.Time
	if status == StatusPaid {
		today := s.today()
		paidDate = &today
	}

	updated, err := repo.UpdatePayment(ctx, inv.ID, paid, status, paidDate)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to record payment")
	}
	return updated, nil
}

func (s *service) lock(ctx context.Context, repo Repository, id auth.Identity, invoiceID int) (*Invoice, error) {
	inv, err := repo.Get(ctx, tenancy.ScopeOf(id), invoiceID, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("invoice")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load invoice")
	}
	return inv, nil
}

func (s *service) RecordPayment(ctx context.Context, id auth.Identity, invoiceID int, req PaymentRequest) (*Invoice, error) {
	var result *Invoice
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		inv, err := s.lock(ctx, repo, id, invoiceID)
		if err != nil {
			return err
		}
		result, err = s.settle(ctx, repo, inv, req.AmountCents)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) PayFromWallet(ctx context.Context, id auth.Identity, invoiceID int, req WalletPaymentRequest) (*Invoice, error) {
	var result *Invoice
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		inv, err := s.lock(ctx, s.repo.WithTx(tx), id, invoiceID)
		if err != nil {
			return err
		}

		amount := inv.Outstanding()
		if req.AmountCents != nil {
			amount = *req.AmountCents
		}

		result, err = s.PayTx(ctx, tx, inv, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) PayTx(ctx context.Context, tx *sqlx.Tx, inv *Invoice, amountCents int64) (*Invoice, error) {
	if _, _, err := applyPayment(inv, amountCents); err != nil {
		return nil, err
	}

	if amountCents > 0 {
		description := fmt.Sprintf("Invoice #%d", inv.ID)
		if _, err := s.wallets.DebitTx(ctx, tx, inv.TenantID, inv.MemberID, amountCents, description); err != nil {
			return nil, err
		}
	}

	return s.settle(ctx, s.repo.WithTx(tx), inv, amountCents)
}

func (s *service) SweepOverdue(ctx context.Context, today time.Time) (int64, error) {
	n, err := s.repo.SweepOverdue(ctx, today)
	if err != nil {
		return 0, apperr.FromStorage(err, "failed to mark overdue invoices")
	}
	return n, nil
}
