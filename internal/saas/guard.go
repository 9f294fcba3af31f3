package saas

import (
	"context"
	"database/sql"
	"errors"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"
	"gymcore/internal/logger"
	"gymcore/internal/metrics"

	"github.com/jmoiron/sqlx"
)

// Guard decides whether a tenant may create one more row of a resource
// under its SaaS plan.
type Guard interface {
	// Check evaluates the limit without locking. Use it for read-only
	// previews; creations must go through CheckTx.
	Check(ctx context.Context, id auth.Identity, tenantID int, resource Resource) error

	// CheckTx evaluates the limit inside tx and holds a lock on the tenant's
	// active subscription row until tx ends, so concurrent creations for the
	// same tenant are counted one after another.
	CheckTx(ctx context.Context, tx *sqlx.Tx, id auth.Identity, tenantID int, resource Resource) error

	// CheckActive refuses callers whose tenant is Suspended. Super admins and
	// callers without a tenant always pass.
	CheckActive(ctx context.Context, id auth.Identity, tenantID int) error
}

// tenantActive mirrors tenants.status; the tenant package owns the type.
const tenantActive = "Active"

var errTenantSuspended = apperr.New(apperr.KindForbidden, "tenant is suspended")

type guard struct {
	repo Repository
}

func NewGuard(repo Repository) Guard {
	return &guard{repo: repo}
}

func (g *guard) Check(ctx context.Context, id auth.Identity, tenantID int, resource Resource) error {
	return g.evaluate(ctx, g.repo, id, tenantID, resource, false)
}

func (g *guard) CheckTx(ctx context.Context, tx *sqlx.Tx, id auth.Identity, tenantID int, resource Resource) error {
	return g.evaluate(ctx, g.repo.WithTx(tx), id, tenantID, resource, true)
}

func (g *guard) CheckActive(ctx context.Context, id auth.Identity, tenantID int) error {
	if id.IsSuperAdmin() || tenantID == 0 {
		return nil
	}
	return checkActive(ctx, g.repo, tenantID)
}

func checkActive(ctx context.Context, repo Repository, tenantID int) error {
	status, err := repo.TenantStatus(ctx, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("tenant")
	}
	if err != nil {
		return apperr.FromStorage(err, "failed to load tenant")
	}
	if status != tenantActive {
		return errTenantSuspended
	}
	return nil
}

func (g *guard) evaluate(ctx context.Context, repo Repository, id auth.Identity, tenantID int, resource Resource, lock bool) error {
	if id.IsSuperAdmin() {
		return nil
	}
	if err := checkActive(ctx, repo, tenantID); err != nil {
		return err
	}

	active, err := repo.ActivePlan(ctx, tenantID, lock)
	if errors.Is(err, sql.ErrNoRows) {
		logger.Warn("no active subscription, plan limits not enforced",
			"tenant_id", tenantID,
			"resource", string(resource),
		)
		return nil
	}
	if err != nil {
		return apperr.FromStorage(err, "failed to load subscription")
	}

	limit, ok := active.Limits[resource]
	if !ok || limit.IsUnlimited {
		return nil
	}

	usage, err := repo.CountUsage(ctx, resource, tenantID, active.SubscriberAccountID)
	if err != nil {
		return apperr.FromStorage(err, "failed to count "+string(resource))
	}

	if usage >= limit.Value {
		metrics.RecordLimitDenial(string(resource))
		logger.Info("plan limit reached",
			"tenant_id", tenantID,
			"resource", string(resource),
			"usage", usage,
			"limit", limit.Value,
			"plan", active.PlanName,
		)
		return apperr.LimitExceeded(string(resource), usage, limit.Value, active.PlanName)
	}

	return nil
}
