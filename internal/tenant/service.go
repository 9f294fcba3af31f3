package tenant

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"
	"gymcore/internal/db"
	"gymcore/internal/logger"
	"gymcore/internal/saas"
	"gymcore/internal/user"

	"github.com/jmoiron/sqlx"
)

var errSuperAdminOnly = apperr.Forbidden("Insufficient permissions", []string{string(auth.RoleSuperAdmin)})

type Service interface {
	Onboard(ctx context.Context, id auth.Identity, req OnboardRequest) (*OnboardResponse, error)
	AddBranch(ctx context.Context, id auth.Identity, req BranchRequest) (*Tenant, error)
	ListMine(ctx context.Context, id auth.Identity) ([]Tenant, error)
	Get(ctx context.Context, id auth.Identity, tenantID int) (*Tenant, error)
	Suspend(ctx context.Context, id auth.Identity, tenantID int) (*Tenant, error)
	Activate(ctx context.Context, id auth.Identity, tenantID int) (*Tenant, error)
	Delete(ctx context.Context, id auth.Identity, tenantID int) error
}

// Welcomer greets a newly onboarded owner. Delivery is best effort.
type Welcomer interface {
	SendWelcome(ctx context.Context, to, name, tenantName string) error
}

type service struct {
	repo     Repository
	users    user.Service
	saas     saas.Service
	guard    saas.Guard
	tx       db.Transactor
	welcomer Welcomer
}

// NewService builds the tenant service. welcomer may be nil.
func NewService(repo Repository, users user.Service, subscriptions saas.Service, guard saas.Guard, tx db.Transactor, welcomer Welcomer) Service {
	return &service{
		repo:     repo,
		users:    users,
		saas:     subscriptions,
		guard:    guard,
		tx:       tx,
		welcomer: welcomer,
	}
}

func (s *service) Onboard(ctx context.Context, id auth.Identity, req OnboardRequest) (*OnboardResponse, error) {
	if !id.IsSuperAdmin() {
		return nil, errSuperAdminOnly
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	var resp OnboardResponse
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)

		t, err := repo.Create(ctx, name, nil)
		if err != nil {
			return apperr.FromStorage(err, "failed to create tenant")
		}

		tenantID := t.ID
		owner, err := s.users.CreateTx(ctx, tx, &user.User{
			TenantID: &tenantID,
			Name:     req.OwnerName,
			Email:    req.OwnerEmail,
			Role:     auth.RoleBranchAdmin,
		}, req.OwnerPassword)
		if err != nil {
			return err
		}

		t, err = repo.SetOwner(ctx, t.ID, owner.ID)
		if err != nil {
			return apperr.FromStorage(err, "failed to set tenant owner")
		}

		resp.Tenant = t
		resp.Owner = owner

		if req.SaaSPlanID != nil {
			sub, err := s.saas.AssignTx(ctx, tx, t.ID, saas.AssignRequest{
				PlanID:              *req.SaaSPlanID,
				SubscriberAccountID: &owner.ID,
			})
			if err != nil {
				return err
			}
			resp.Subscription = sub
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("tenant onboarded", "tenant_id", resp.Tenant.ID, "owner_id", resp.Owner.ID)

	if s.welcomer != nil {
		if err := s.welcomer.SendWelcome(ctx, resp.Owner.Email, resp.Owner.Name, resp.Tenant.Name); err != nil {
			logger.Warn("failed to queue welcome email", "tenant_id", resp.Tenant.ID, "error", err)
		}
	}
	return &resp, nil
}

// AddBranch creates a tenant owned by the caller. The branch starts on the
// same SaaS plan as the caller's tenant, counted against the same
// subscriber.
func (s *service) AddBranch(ctx context.Context, id auth.Identity, req BranchRequest) (*Tenant, error) {
	if id.TenantID == 0 {
		return nil, apperr.Validation("caller has no tenant")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	var branch *Tenant
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.guard.CheckTx(ctx, tx, id, id.TenantID, saas.ResourceBranches); err != nil {
			return err
		}

		ownerID := id.UserID
		t, err := s.repo.WithTx(tx).Create(ctx, name, &ownerID)
		if err != nil {
			return apperr.FromStorage(err, "failed to create branch")
		}
		branch = t

		parent, err := s.saas.GetSubscriptionTx(ctx, tx, id.TenantID)
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = s.saas.AssignTx(ctx, tx, t.ID, saas.AssignRequest{
			PlanID:              parent.PlanID,
			SubscriberAccountID: parent.SubscriberAccountID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("branch added", "tenant_id", branch.ID, "parent_tenant_id", id.TenantID, "owner_id", id.UserID)
	return branch, nil
}

func (s *service) ListMine(ctx context.Context, id auth.Identity) ([]Tenant, error) {
	var (
		tenants []Tenant
		err     error
	)
	if id.IsSuperAdmin() {
		tenants, err = s.repo.ListAll(ctx)
	} else {
		tenants, err = s.repo.ListOwned(ctx, id.UserID, id.TenantID)
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list tenants")
	}
	return tenants, nil
}

func (s *service) Get(ctx context.Context, id auth.Identity, tenantID int) (*Tenant, error) {
	t, err := s.load(ctx, s.repo, tenantID, false)
	if err != nil {
		return nil, err
	}
	if !visible(id, t) {
		return nil, apperr.NotFound("tenant")
	}
	return t, nil
}

func visible(id auth.Identity, t *Tenant) bool {
	if id.IsSuperAdmin() || t.ID == id.TenantID {
		return true
	}
	return t.OwnerAccountID != nil && *t.OwnerAccountID == id.UserID
}

func (s *service) load(ctx context.Context, repo Repository, tenantID int, forUpdate bool) (*Tenant, error) {
	t, err := repo.Get(ctx, tenantID, forUpdate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("tenant")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load tenant")
	}
	return t, nil
}

func (s *service) Suspend(ctx context.Context, id auth.Identity, tenantID int) (*Tenant, error) {
	return s.setStatus(ctx, id, tenantID, StatusSuspended)
}

func (s *service) Activate(ctx context.Context, id auth.Identity, tenantID int) (*Tenant, error) {
	return s.setStatus(ctx, id, tenantID, StatusActive)
}

func (s *service) setStatus(ctx context.Context, id auth.Identity, tenantID int, status Status) (*Tenant, error) {
	if !id.IsSuperAdmin() {
		return nil, errSuperAdminOnly
	}

	t, err := s.repo.SetStatus(ctx, tenantID, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("tenant")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to update tenant")
	}

	logger.Info("tenant status changed", "tenant_id", tenantID, "status", string(status))
	return t, nil
}

func (s *service) Delete(ctx context.Context, id auth.Identity, tenantID int) error {
	if !id.IsSuperAdmin() {
		return errSuperAdminOnly
	}

	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.load(ctx, repo, tenantID, true); err != nil {
			return err
		}
		if err := repo.Delete(ctx, tenantID); err != nil {
			return apperr.FromStorage(err, "failed to delete tenant")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("tenant deleted", "tenant_id", tenantID)
	return nil
}
