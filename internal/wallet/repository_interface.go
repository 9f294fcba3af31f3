package wallet

import (
	"context"

	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository
	MemberTenant(ctx context.Context, scope tenancy.Scope, memberID int) (int, error)
	GetOrCreateWallet(ctx context.Context, tenantID, memberID int) (*Wallet, error)
	// AddTransaction locks the wallet row, applies amountCents and appends
	// to the log. It must run inside a transaction.
	AddTransaction(ctx context.Context, tenantID, memberID int, amountCents int64, txType, description string) (*Wallet, error)
	GetTransactions(ctx context.Context, walletID int, limit, offset int) ([]Transaction, error)
}
