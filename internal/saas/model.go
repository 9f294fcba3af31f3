package saas

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Resource is a kind of row a SaaS plan can cap.
type Resource string

const (
	ResourceMembers  Resource = "members"
	ResourceStaff    Resource = "staff"
	ResourceBranches Resource = "branches"
)

var Resources = []Resource{ResourceMembers, ResourceStaff, ResourceBranches}

func (r Resource) Valid() bool {
	switch r {
	case ResourceMembers, ResourceStaff, ResourceBranches:
		return true
	}
	return false
}

type Limit struct {
	Value       int  `json:"value"`
	IsUnlimited bool `json:"isUnlimited"`
}

// Limits is stored as a JSONB object keyed by resource.
type Limits map[Resource]Limit

func (l Limits) Value() (driver.Value, error) {
	if l == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(l)
}

func (l *Limits) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = Limits{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("saas: unsupported limits column type")
	}
	return json.Unmarshal(data, l)
}

type Plan struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	PriceCents int64     `db:"price_cents" json:"price_cents"`
	Limits     Limits    `db:"limits" json:"limits"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "Active"
	SubscriptionSuspended SubscriptionStatus = "Suspended"
)

type Subscription struct {
	ID                  int                `db:"id" json:"id"`
	TenantID            int                `db:"tenant_id" json:"tenant_id"`
	PlanID              int                `db:"plan_id" json:"plan_id"`
	Status              SubscriptionStatus `db:"status" json:"status"`
	SubscriberAccountID *int               `db:"subscriber_account_id" json:"subscriber_account_id,omitempty"`
	CreatedAt           time.Time          `db:"created_at" json:"created_at"`
}

// ActivePlan is a tenant's active subscription joined with its plan.
type ActivePlan struct {
	SubscriptionID      int    `db:"subscription_id"`
	SubscriberAccountID *int   `db:"subscriber_account_id"`
	PlanName            string `db:"plan_name"`
	Limits              Limits `db:"limits"`
}

type Usage struct {
	Resource Resource `json:"resource"`
	Current  int      `json:"current"`
	Limit    *Limit   `json:"limit,omitempty"`
}

type LimitsResponse struct {
	TenantID int     `json:"tenant_id"`
	PlanName string  `json:"plan_name,omitempty"`
	Usage    []Usage `json:"usage"`
}

type PlanRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"min=0"`
	Limits     Limits `json:"limits"`
}

type AssignRequest struct {
	PlanID              int  `json:"plan_id" binding:"required,min=1"`
	SubscriberAccountID *int `json:"subscriber_account_id"`
}
