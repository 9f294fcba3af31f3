package wallet

import "time"

// Wallet is a member's prepaid balance.
type Wallet struct {
	ID           int       `db:"id" json:"id"`
	TenantID     int       `db:"tenant_id" json:"tenant_id"`
	MemberID     int       `db:"member_id" json:"member_id"`
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	TypeTopUp = "topup"
	TypeDebit = "debit"
)

type Transaction struct {
	ID           int       `db:"id" json:"id"`
	WalletID     int       `db:"wallet_id" json:"wallet_id"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	Type         string    `db:"type" json:"type"`
	BalanceAfter int64     `db:"balance_after" json:"balance_after"`
	Description  string    `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type TopUpRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
	Description string `json:"description"`
}
