package saas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"
	"gymcore/internal/db"
	"gymcore/internal/logger"
	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Service interface {
	CreatePlan(ctx context.Context, req PlanRequest) (*Plan, error)
	ListPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, id int) (*Plan, error)
	UpdatePlan(ctx context.Context, id int, req PlanRequest) (*Plan, error)
	DeletePlan(ctx context.Context, id int) error

	GetSubscription(ctx context.Context, tenantID int) (*Subscription, error)
	// GetSubscriptionTx reads the active subscription inside tx, so it sees
	// the row a preceding Guard.CheckTx locked.
	GetSubscriptionTx(ctx context.Context, tx *sqlx.Tx, tenantID int) (*Subscription, error)
	Assign(ctx context.Context, tenantID int, req AssignRequest) (*Subscription, error)
	AssignTx(ctx context.Context, tx *sqlx.Tx, tenantID int, req AssignRequest) (*Subscription, error)
	Suspend(ctx context.Context, tenantID int) error

	Limits(ctx context.Context, id auth.Identity, tenantID *int) (*LimitsResponse, error)
}

type service struct {
	repo Repository
	tx   db.Transactor
}

func NewService(repo Repository, tx db.Transactor) Service {
	return &service{repo: repo, tx: tx}
}

func validateLimits(limits Limits) error {
	for resource, limit := range limits {
		if !resource.Valid() {
			return apperr.Validation(fmt.Sprintf("unknown limit resource %q", resource))
		}
		if !limit.IsUnlimited && limit.Value < 0 {
			return apperr.Validation(fmt.Sprintf("limit for %s must not be negative", resource))
		}
	}
	return nil
}

func (s *service) CreatePlan(ctx context.Context, req PlanRequest) (*Plan, error) {
	if err := validateLimits(req.Limits); err != nil {
		return nil, err
	}
	plan, err := s.repo.CreatePlan(ctx, req.Name, req.PriceCents, req.Limits)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to create saas plan")
	}
	return plan, nil
}

func (s *service) ListPlans(ctx context.Context) ([]Plan, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list saas plans")
	}
	return plans, nil
}

func (s *service) GetPlan(ctx context.Context, id int) (*Plan, error) {
	plan, err := s.repo.GetPlan(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("saas plan")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load saas plan")
	}
	return plan, nil
}

func (s *service) UpdatePlan(ctx context.Context, id int, req PlanRequest) (*Plan, error) {
	if err := validateLimits(req.Limits); err != nil {
		return nil, err
	}
	plan, err := s.repo.UpdatePlan(ctx, id, req.Name, req.PriceCents, req.Limits)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("saas plan")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to update saas plan")
	}
	return plan, nil
}

func (s *service) DeletePlan(ctx context.Context, id int) error {
	n, err := s.repo.DeletePlan(ctx, id)
	if err != nil {
		return apperr.FromStorage(err, "saas plan is still referenced by subscriptions")
	}
	if n == 0 {
		return apperr.NotFound("saas plan")
	}
	return nil
}

func (s *service) GetSubscription(ctx context.Context, tenantID int) (*Subscription, error) {
	return activeSubscription(ctx, s.repo, tenantID)
}

func (s *service) GetSubscriptionTx(ctx context.Context, tx *sqlx.Tx, tenantID int) (*Subscription, error) {
	return activeSubscription(ctx, s.repo.WithTx(tx), tenantID)
}

func activeSubscription(ctx context.Context, repo Repository, tenantID int) (*Subscription, error) {
	sub, err := repo.GetActiveSubscription(ctx, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("subscription")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load subscription")
	}
	return sub, nil
}

func (s *service) Assign(ctx context.Context, tenantID int, req AssignRequest) (*Subscription, error) {
	var sub *Subscription
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		sub, err = s.AssignTx(ctx, tx, tenantID, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// AssignTx suspends the tenant's current subscription and starts a new one
// on req.PlanID. The subscriber defaults to the tenant's owner.
func (s *service) AssignTx(ctx context.Context, tx *sqlx.Tx, tenantID int, req AssignRequest) (*Subscription, error) {
	repo := s.repo.WithTx(tx)

	if _, err := repo.GetPlan(ctx, req.PlanID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("saas plan")
		}
		return nil, apperr.FromStorage(err, "failed to load saas plan")
	}

	subscriber := req.SubscriberAccountID
	if subscriber == nil {
		owner, err := repo.TenantOwner(ctx, tenantID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("tenant")
		}
		if err != nil {
			return nil, apperr.FromStorage(err, "failed to load tenant")
		}
		subscriber = owner
	}

	if _, err := repo.SuspendActive(ctx, tenantID); err != nil {
		return nil, apperr.FromStorage(err, "failed to suspend current subscription")
	}

	sub, err := repo.CreateSubscription(ctx, tenantID, req.PlanID, subscriber)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to create subscription")
	}

	logger.Info("subscription assigned", "tenant_id", tenantID, "plan_id", req.PlanID)
	return sub, nil
}

func (s *service) Suspend(ctx context.Context, tenantID int) error {
	n, err := s.repo.SuspendActive(ctx, tenantID)
	if err != nil {
		return apperr.FromStorage(err, "failed to suspend subscription")
	}
	if n == 0 {
		return apperr.NotFound("subscription")
	}
	return nil
}

func (s *service) Limits(ctx context.Context, id auth.Identity, tenantID *int) (*LimitsResponse, error) {
	target, err := tenancy.ScopeOf(id).Resolve(tenantID)
	if err != nil {
		return nil, err
	}

	resp := &LimitsResponse{TenantID: target, Usage: make([]Usage, 0, len(Resources))}

	var subscriber *int
	active, err := s.repo.ActivePlan(ctx, target, false)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		active = nil
	case err != nil:
		return nil, apperr.FromStorage(err, "failed to load subscription")
	default:
		resp.PlanName = active.PlanName
		subscriber = active.SubscriberAccountID
	}

	for _, resource := range Resources {
		current, err := s.repo.CountUsage(ctx, resource, target, subscriber)
		if err != nil {
			return nil, apperr.FromStorage(err, "failed to count "+string(resource))
		}
		u := Usage{Resource: resource, Current: current}
		if active != nil {
			if limit, ok := active.Limits[resource]; ok {
				l := limit
				u.Limit = &l
			}
		}
		resp.Usage = append(resp.Usage, u)
	}

	return resp, nil
}
