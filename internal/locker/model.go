package locker

import "time"

type Status string

const (
	StatusAvailable Status = "Available"
	StatusOccupied  Status = "Occupied"
)

// Locker is Occupied exactly when AssignedToID is set.
type Locker struct {
	ID           int        `db:"id" json:"id"`
	TenantID     int        `db:"tenant_id" json:"tenant_id"`
	Number       string     `db:"number" json:"number"`
	Status       Status     `db:"status" json:"status"`
	AssignedToID *int       `db:"assigned_to_id" json:"assigned_to_id,omitempty"`
	ExpiryDate   *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type CreateRequest struct {
	TenantID *int   `json:"tenant_id"`
	Number   string `json:"number" binding:"required"`
}

type AssignRequest struct {
	MemberID   int    `json:"member_id" binding:"required,min=1"`
	ExpiryDate string `json:"expiry_date" binding:"required,datetime=2006-01-02"`
	Notes      string `json:"notes"`
}
