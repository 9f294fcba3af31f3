package locker

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"
	"gymcore/internal/calendar"
	"gymcore/internal/db"
	"gymcore/internal/logger"
	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

type Service interface {
	Create(ctx context.Context, id auth.Identity, req CreateRequest) (*Locker, error)
	List(ctx context.Context, id auth.Identity, status Status) ([]Locker, error)
	Assign(ctx context.Context, id auth.Identity, lockerID int, req AssignRequest) (*Locker, error)
	Release(ctx context.Context, id auth.Identity, lockerID int) (*Locker, error)
	ReleaseForMemberTx(ctx context.Context, tx *sqlx.Tx, memberID int) (int64, error)
	SweepExpired(ctx context.Context, today time.Time) (int64, error)
}

type service struct {
	repo     Repository
	tx       db.Transactor
	clock    calendar.Clock
	location *time.Location
}

func NewService(repo Repository, tx db.Transactor, clock calendar.Clock, location *time.Location) Service {
	if clock == nil {
		clock = time.Now
	}
	return &service{repo: repo, tx: tx, clock: clock, location: location}
}

func (s *service) Create(ctx context.Context, id auth.Identity, req CreateRequest) (*Locker, error) {
	tenantID, err := tenancy.ScopeOf(id).Resolve(req.TenantID)
	if err != nil {
		return nil, err
	}

	l, err := s.repo.Create(ctx, tenantID, req.Number)
	if err != nil {
		return nil, apperr.FromStorage(err, "locker number already exists")
	}
	return l, nil
}

func (s *service) List(ctx context.Context, id auth.Identity, status Status) ([]Locker, error) {
	lockers, err := s.repo.List(ctx, tenancy.ScopeOf(id), status)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list lockers")
	}
	return lockers, nil
}

func (s *service) Assign(ctx context.Context, id auth.Identity, lockerID int, req AssignRequest) (*Locker, error) {
	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, apperr.Validation("expiry_date must be YYYY-MM-DD")
	}
	if expiry.Before(calendar.Today(s.clock, s.location)) {
		return nil, apperr.Validation("expiry_date is in the past")
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	var result *Locker
	err = s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		scope := tenancy.ScopeOf(id)

		l, err := repo.Get(ctx, scope, lockerID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("locker")
		}
		if err != nil {
			return apperr.FromStorage(err, "failed to load locker")
		}

		memberTenant, err := repo.MemberTenant(ctx, scope, req.MemberID)
		if err != nil {
			return err
		}
		if memberTenant != l.TenantID {
			return apperr.NotFound("member")
		}

		result, err = repo.Assign(ctx, l.ID, req.MemberID, expiry, notes)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Conflict("locker " + l.Number + " is already occupied")
		}
		if err != nil {
			return apperr.FromStorage(err, "failed to assign locker")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Release(ctx context.Context, id auth.Identity, lockerID int) (*Locker, error) {
	l, err := s.repo.Release(ctx, tenancy.ScopeOf(id), lockerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("locker")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to release locker")
	}
	return l, nil
}

func (s *service) ReleaseForMemberTx(ctx context.Context, tx *sqlx.Tx, memberID int) (int64, error) {
	n, err := s.repo.WithTx(tx).ReleaseByMember(ctx, memberID)
	if err != nil {
		return 0, apperr.FromStorage(err, "failed to release member lockers")
	}
	return n, nil
}

func (s *service) SweepExpired(ctx context.Context, today time.Time) (int64, error) {
	n, err := s.repo.SweepExpired(ctx, today)
	if err != nil {
		return 0, apperr.FromStorage(err, "failed to release expired lockers")
	}
	if n > 0 {
		logger.Info("expired lockers released", "count", n, "today", today.Format("2006-01-02"))
	}
	return n, nil
}
