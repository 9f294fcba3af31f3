package wallet

import (
	"context"
	"database/sql"
	"errors"

	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
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

func (r *repository) MemberTenant(ctx context.Context, scope tenancy.Scope, memberID int) (int, error) {
	return scope.OwnerOf(ctx, r.db, "members", memberID, "member")
}

func (r *repository) GetOrCreateWallet(ctx context.Context, tenantID, memberID int) (*Wallet, error) {
	w := &Wallet{}
	err := sqlx.GetContext(ctx, r.db, w,
		`SELECT id, tenant_id, member_id, balance_cents, updated_at FROM wallets WHERE member_id = $1`,
		memberID,
	)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = sqlx.GetContext(ctx, r.db, w,
		`INSERT INTO wallets (tenant_id, member_id)
		 VALUES ($1, $2)
		 ON CONFLICT (member_id) DO UPDATE SET updated_at = wallets.updated_at
		 RETURNING id, tenant_id, member_id, balance_cents, updated_at`,
		tenantID, memberID,
	)
	if err != nil {
		return nil, err
	}

	return w, nil
}

func (r *repository) AddTransaction(ctx context.Context, tenantID, memberID int, amountCents int64, txType, description string) (*Wallet, error) {
	if _, err := r.GetOrCreateWallet(ctx, tenantID, memberID); err != nil {
		return nil, err
	}

	var w Wallet
	err := sqlx.GetContext(ctx, r.db, &w,
		`SELECT id, tenant_id, member_id, balance_cents, updated_at
		 FROM wallets
		 WHERE member_id = $1
		 FOR UPDATE`,
		memberID,
	)
	if err != nil {
		return nil, err
	}

	newBalance := w.BalanceCents + amountCents
	if newBalance < 0 {
		return nil, ErrInsufficientBalance
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE wallets
		 SET balance_cents = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, tenant_id, amount_cents, type, balance_after, description)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		w.ID, w.TenantID, amountCents, txType, newBalance, description,
	)
	if err != nil {
		return nil, err
	}

	w.BalanceCents = newBalance
	return &w, nil
}

func (r *repository) GetTransactions(ctx context.Context, walletID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var txs []Transaction
	err := sqlx.SelectContext(ctx, r.db, &txs, `
		SELECT id, wallet_id, amount_cents, type, balance_after, description, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
