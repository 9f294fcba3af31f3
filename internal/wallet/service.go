package wallet

import (
	"context"
	"errors"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"
	"gymcore/internal/db"
	"gymcore/internal/metrics"
	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Service interface {
	Balance(ctx context.Context, id auth.Identity, memberID int) (*Wallet, error)
	TopUp(ctx context.Context, id auth.Identity, memberID int, req TopUpRequest) (*Wallet, error)
	Transactions(ctx context.Context, id auth.Identity, memberID, limit, offset int) ([]Transaction, error)
	// DebitTx charges the member's wallet inside tx. The caller has already
	// checked the member against the tenant scope.
	DebitTx(ctx context.Context, tx *sqlx.Tx, tenantID, memberID int, amountCents int64, description string) (*Wallet, error)
}

type service struct {
	repo Repository
	tx   db.Transactor
}

func NewService(repo Repository, tx db.Transactor) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) Balance(ctx context.Context, id auth.Identity, memberID int) (*Wallet, error) {
	tenantID, err := s.repo.MemberTenant(ctx, tenancy.ScopeOf(id), memberID)
	if err != nil {
		return nil, err
	}

	w, err := s.repo.GetOrCreateWallet(ctx, tenantID, memberID)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load wallet")
	}
	return w, nil
}

func (s *service) TopUp(ctx context.Context, id auth.Identity, memberID int, req TopUpRequest) (*Wallet, error) {
	if req.AmountCents <= 0 {
		return nil, apperr.Validation("amount_cents must be positive")
	}

	description := req.Description
	if description == "" {
		description = "Wallet top-up"
	}

	var w *Wallet
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)

		tenantID, err := repo.MemberTenant(ctx, tenancy.ScopeOf(id), memberID)
		if err != nil {
			return err
		}

		w, err = repo.AddTransaction(ctx, tenantID, memberID, req.AmountCents, TypeTopUp, description)
		if err != nil {
			return apperr.FromStorage(err, "failed to top up wallet")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWalletTopUp()
	return w, nil
}

func (s *service) Transactions(ctx context.Context, id auth.Identity, memberID, limit, offset int) ([]Transaction, error) {
	w, err := s.Balance(ctx, id, memberID)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.GetTransactions(ctx, w.ID, limit, offset)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load transactions")
	}
	return txs, nil
}

func (s *service) DebitTx(ctx context.Context, tx *sqlx.Tx, tenantID, memberID int, amountCents int64, description string) (*Wallet, error) {
	if amountCents <= 0 {
		return nil, apperr.Validation("debit amount must be positive")
	}

	w, err := s.repo.WithTx(tx).AddTransaction(ctx, tenantID, memberID, -amountCents, TypeDebit, description)
	if errors.Is(err, ErrInsufficientBalance) {
		return nil, apperr.Validation("insufficient wallet balance")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to debit wallet")
	}
	return w, nil
}
