package user

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
	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

var errInvalidCredentials = apperr.Unauthorized("Invalid email or password")

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error)
	Me(ctx context.Context, id auth.Identity) (*User, error)

	CreateStaff(ctx context.Context, id auth.Identity, req StaffRequest) (*User, error)
	ListStaff(ctx context.Context, id auth.Identity) ([]User, error)
	DeleteStaff(ctx context.Context, id auth.Identity, userID int) error

	// CreateTx inserts u inside tx, hashing password when it is not empty.
	// A taken email is a conflict.
	CreateTx(ctx context.Context, tx *sqlx.Tx, u *User, password string) (*User, error)
}

type service struct {
	repo      Repository
	guard     saas.Guard
	tx        db.Transactor
	jwtSecret string
}

func NewService(repo Repository, guard saas.Guard, tx db.Transactor, jwtSecret string) Service {
	return &service{
		repo:      repo,
		guard:     guard,
		tx:        tx,
		jwtSecret: jwtSecret,
	}
}

// issue refuses users of a suspended tenant, then mints a token pair.
func (s *service) issue(ctx context.Context, u *User) (*LoginResponse, error) {
	id := u.Identity()
	if err := s.guard.CheckActive(ctx, id, id.TenantID); err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(id, s.jwtSecret)
	if err != nil {
		return nil, apperr.New(apperr.KindInternal, "failed to generate tokens")
	}
	return &LoginResponse{AccessToken: accessToken, RefreshToken: refreshToken, User: *u}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(req.Email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load user")
	}

	if u.PasswordHash == nil || !auth.CheckPassword(*u.PasswordHash, req.Password) {
		return nil, errInvalidCredentials
	}

	resp, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	logger.Info("user logged in", "user_id", u.ID, "role", string(u.Role))
	return resp, nil
}

// Refresh reloads the user so a changed role or tenant takes effect in the
// new tokens.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired refresh token")
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load user")
	}

	return s.issue(ctx, u)
}

func (s *service) Me(ctx context.Context, id auth.Identity) (*User, error) {
	u, err := s.repo.FindByID(ctx, id.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load user")
	}
	return u, nil
}

func (s *service) CreateStaff(ctx context.Context, id auth.Identity, req StaffRequest) (*User, error) {
	if !req.Role.IsStaff() {
		return nil, apperr.Validation("role must be STAFF, TRAINER or MANAGER")
	}
	tenantID, err := tenancy.ScopeOf(id).Resolve(req.TenantID)
	if err != nil {
		return nil, err
	}

	var created *User
	err = s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.guard.CheckTx(ctx, tx, id, tenantID, saas.ResourceStaff); err != nil {
			return err
		}
		created, err = s.CreateTx(ctx, tx, &User{
			TenantID: &tenantID,
			Name:     req.Name,
			Email:    req.Email,
			Role:     req.Role,
		}, req.Password)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("staff created", "user_id", created.ID, "tenant_id", tenantID, "role", string(created.Role))
	return created, nil
}

func (s *service) CreateTx(ctx context.Context, tx *sqlx.Tx, u *User, password string) (*User, error) {
	repo := s.repo.WithTx(tx)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	exists, err := repo.EmailExists(ctx, u.Email)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to check email")
	}
	if exists {
		return nil, apperr.Conflict("email " + u.Email + " is already registered")
	}

	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, apperr.New(apperr.KindInternal, "failed to hash password")
		}
		u.PasswordHash = &hash
	}

	created, err := repo.Create(ctx, u)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to create user")
	}
	return created, nil
}

func (s *service) ListStaff(ctx context.Context, id auth.Identity) ([]User, error) {
	users, err := s.repo.ListByRole(ctx, tenancy.ScopeOf(id), auth.StaffRoles)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list staff")
	}
	return users, nil
}

func (s *service) DeleteStaff(ctx context.Context, id auth.Identity, userID int) error {
	n, err := s.repo.DeleteByRole(ctx, tenancy.ScopeOf(id), userID, auth.StaffRoles)
	if err != nil {
		return apperr.FromStorage(err, "failed to delete staff")
	}
	if n == 0 {
		return apperr.NotFound("staff member")
	}
	return nil
}
