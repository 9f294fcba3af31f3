package member

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gymcore/internal/plan"
)

type Status string

const (
	StatusActive    Status = "Active"
	StatusInactive  Status = "Inactive"
	StatusFrozen    Status = "Frozen"
	StatusExpired   Status = "Expired"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusFrozen, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// BenefitUsage is one capped counter of the current membership cycle.
type BenefitUsage struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
	Used  int    `json:"used"`
}

// Benefits is stored as a JSONB array.
type Benefits []BenefitUsage

// SnapshotOf starts a fresh cycle for the benefits of a plan.
func SnapshotOf(b plan.Benefits) Benefits {
	out := make(Benefits, 0, len(b))
	for _, benefit := range b {
		out = append(out, BenefitUsage{Name: benefit.Name, Limit: benefit.Limit})
	}
	return out
}

func (b Benefits) Value() (driver.Value, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b)
}

func (b *Benefits) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = Benefits{}
		return nil
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	}
	return errors.New("member: unsupported benefits column type")
}

type Member struct {
	ID         int        `db:"id" json:"id"`
	TenantID   int        `db:"tenant_id" json:"tenant_id"`
	MemberCode string     `db:"member_code" json:"member_code"`
	UserID     *int       `db:"user_id" json:"user_id,omitempty"`
	PlanID     *int       `db:"plan_id" json:"plan_id,omitempty"`
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	Phone      string     `db:"phone" json:"phone"`
	Status     Status     `db:"status" json:"status"`
	JoinDate   time.Time  `db:"join_date" json:"join_date"`
	ExpiryDate *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	Benefits   Benefits   `db:"benefits" json:"benefits"`
	History    string     `db:"history" json:"history"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	TenantID *int   `json:"tenant_id"`
	UserID   *int   `json:"user_id"`
	PlanID   *int   `json:"plan_id"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	// JoinDate defaults to today.
	JoinDate string `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
}

type AssignPlanRequest struct {
	PlanID int `json:"plan_id" binding:"required"`
}

type RenewRequest struct {
	PlanID   int `json:"plan_id" binding:"required"`
	Duration int `json:"duration" binding:"required,min=1"`
}

type FreezeRequest struct {
	Months int    `json:"months" binding:"required,min=1"`
	Reason string `json:"reason"`
}

type GiftRequest struct {
	Days int    `json:"days" binding:"required,min=1"`
	Note string `json:"note"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type UpdateRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

type ListFilter struct {
	Status Status
	Search string
	Limit  int
	Offset int
}
