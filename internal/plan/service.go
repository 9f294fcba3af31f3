package plan

import (
	"context"
	"database/sql"
	"errors"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"
	"gymcore/internal/tenancy"
)

type Service interface {
	Create(ctx context.Context, id auth.Identity, req PlanRequest) (*MembershipPlan, error)
	List(ctx context.Context, id auth.Identity, onlyActive bool) ([]MembershipPlan, error)
	Get(ctx context.Context, id auth.Identity, planID int) (*MembershipPlan, error)
	Update(ctx context.Context, id auth.Identity, planID int, req PlanRequest) (*MembershipPlan, error)
	Delete(ctx context.Context, id auth.Identity, planID int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, id auth.Identity, req PlanRequest) (*MembershipPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	tenantID, err := tenancy.ScopeOf(id).Resolve(req.TenantID)
	if err != nil {
		return nil, err
	}

	p := &MembershipPlan{
		TenantID:     tenantID,
		Name:         req.Name,
		PriceCents:   req.PriceCents,
		Duration:     req.Duration,
		DurationType: req.DurationType,
		Benefits:     req.Benefits,
		Active:       req.Active == nil || *req.Active,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to create plan")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, id auth.Identity, onlyActive bool) ([]MembershipPlan, error) {
	plans, err := s.repo.List(ctx, tenancy.ScopeOf(id), onlyActive)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list plans")
	}
	return plans, nil
}

func (s *service) Get(ctx context.Context, id auth.Identity, planID int) (*MembershipPlan, error) {
	p, err := s.repo.Get(ctx, tenancy.ScopeOf(id), planID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("plan")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load plan")
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id auth.Identity, planID int, req PlanRequest) (*MembershipPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	p := &MembershipPlan{
		ID:           planID,
		Name:         req.Name,
		PriceCents:   req.PriceCents,
		Duration:     req.Duration,
		DurationType: req.DurationType,
		Benefits:     req.Benefits,
		Active:       req.Active == nil || *req.Active,
	}

	updated, err := s.repo.Update(ctx, tenancy.ScopeOf(id), p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("plan")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to update plan")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id auth.Identity, planID int) error {
	n, err := s.repo.Delete(ctx, tenancy.ScopeOf(id), planID)
	if err != nil {
		return apperr.FromStorage(err, "plan is assigned to members, deactivate it instead")
	}
	if n == 0 {
		return apperr.NotFound("plan")
	}
	return nil
}
