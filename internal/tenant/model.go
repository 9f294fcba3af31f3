package tenant

import (
	"time"

	"gymcore/internal/saas"
	"gymcore/internal/user"
)

type Status string

const (
	StatusActive    Status = "Active"
	StatusSuspended Status = "Suspended"
)

type Tenant struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Status         Status    `db:"status" json:"status"`
	OwnerAccountID *int      `db:"owner_account_id" json:"owner_account_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type OnboardRequest struct {
	Name          string `json:"name" binding:"required"`
	OwnerName     string `json:"owner_name" binding:"required"`
	OwnerEmail    string `json:"owner_email" binding:"required,email"`
	OwnerPassword string `json:"owner_password" binding:"required,min=8"`
	SaaSPlanID    *int   `json:"saas_plan_id"`
}

type OnboardResponse struct {
	Tenant       *Tenant            `json:"tenant"`
	Owner        *user.User         `json:"owner"`
	Subscription *saas.Subscription `json:"subscription,omitempty"`
}

type BranchRequest struct {
	Name string `json:"name" binding:"required"`
}
