package invoice

import "time"

type Status string

const (
	StatusUnpaid  Status = "Unpaid"
	StatusPartial Status = "Partial"
	StatusPaid    Status = "Paid"
	StatusOverdue Status = "Overdue"
)

type Invoice struct {
	ID          int        `db:"id" json:"id"`
	TenantID    int        `db:"tenant_id" json:"tenant_id"`
	MemberID    int        `db:"member_id" json:"member_id"`
	AmountCents int64      `db:"amount_cents" json:"amount_cents"`
	PaidCents   int64      `db:"paid_cents" json:"paid_cents"`
	Status      Status     `db:"status" json:"status"`
	Description string     `db:"description" json:"description"`
	DueDate     time.Time  `db:"due_date" json:"due_date"`
	PaidDate    *time.Time `db:"paid_date" json:"paid_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

func (i *Invoice) Outstanding() int64 {
	return i.AmountCents - i.PaidCents
}

// Draft is what callers hand to CreateTx.
type Draft struct {
	TenantID    int
	MemberID    int
	AmountCents int64
	Description string
	// Reason labels the invoices-created metric: plan, renewal, store.
	Reason string
}

type ListFilter struct {
	MemberID *int
	Status   Status
	Limit    int
	Offset   int
}

type PaymentRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,min=1"`
}

// WalletPaymentRequest pays the outstanding balance when AmountCents is nil.
type WalletPaymentRequest struct {
	AmountCents *int64 `json:"amount_cents" binding:"omitempty,min=1"`
}
