package plan

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gymcore/internal/calendar"
)

type DurationType string

const (
	Days   DurationType = "Days"
	Months DurationType = "Months"
	Years  DurationType = "Years"
)

func (d DurationType) Valid() bool {
	switch d {
	case Days, Months, Years:
		return true
	}
	return false
}

type Benefit struct {
	Name  string `json:"name" binding:"required"`
	Limit int    `json:"limit" binding:"min=1"`
}

// Benefits is stored as a JSONB array.
type Benefits []Benefit

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
	return errors.New("plan: unsupported benefits column type")
}

type MembershipPlan struct {
	ID           int          `db:"id" json:"id"`
	TenantID     int          `db:"tenant_id" json:"tenant_id"`
	Name         string       `db:"name" json:"name"`
	PriceCents   int64        `db:"price_cents" json:"price_cents"`
	Duration     int          `db:"duration" json:"duration"`
	DurationType DurationType `db:"duration_type" json:"duration_type"`
	Benefits     Benefits     `db:"benefits" json:"benefits"`
	Active       bool         `db:"active" json:"active"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// ExpiryFrom is the expiry of a membership on p starting at start.
func (p *MembershipPlan) ExpiryFrom(start time.Time) (time.Time, error) {
	return ComputeExpiry(start, p.Duration, p.DurationType)
}

type PlanRequest struct {
	TenantID     *int         `json:"tenant_id"`
	Name         string       `json:"name" binding:"required"`
	PriceCents   int64        `json:"price_cents" binding:"min=0"`
	Duration     int          `json:"duration" binding:"required,min=1"`
	DurationType DurationType `json:"duration_type" binding:"required,oneof=Days Months Years"`
	Benefits     Benefits     `json:"benefits" binding:"omitempty,dive"`
	Active       *bool        `json:"active"`
}

// Validate re-checks what binding tags already cover, so the service is safe
// to call without the HTTP layer.
func (r PlanRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.PriceCents < 0 {
		return errors.New("price must not be negative")
	}
	if r.Duration <= 0 {
		return errors.New("duration must be positive")
	}
	if !r.DurationType.Valid() {
		return fmt.Errorf("unknown duration type %q", r.DurationType)
	}
	seen := make(map[string]bool, len(r.Benefits))
	for _, b := range r.Benefits {
		if b.Name == "" || b.Limit <= 0 {
			return errors.New("benefits need a name and a positive limit")
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate benefit %q", b.Name)
		}
		seen[b.Name] = true
	}
	return nil
}

// ComputeExpiry adds duration units to start. Month and year additions are
// calendar-aware and clamp to the end of shorter months.
func ComputeExpiry(start time.Time, duration int, unit DurationType) (time.Time, error) {
	if duration <= 0 {
		return time.Time{}, errors.New("duration must be positive")
	}
	switch unit {
	case Days:
		return calendar.AddDays(start, duration), nil
	case Months:
		return calendar.AddMonths(start, duration), nil
	case Years:
		return calendar.AddYears(start, duration), nil
	}
	return time.Time{}, fmt.Errorf("unknown duration type %q", unit)
}
