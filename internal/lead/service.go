package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"
	"gymcore/internal/calendar"
	"gymcore/internal/db"
	"gymcore/internal/logger"
	"gymcore/internal/member"
	"gymcore/internal/tenancy"
	"gymcore/internal/user"

	"github.com/jmoiron/sqlx"
)

type Service interface {
	Create(ctx context.Context, id auth.Identity, req CreateRequest) (*Lead, error)
	List(ctx context.Context, id auth.Identity, status Status, limit, offset int) ([]Lead, error)
	Get(ctx context.Context, id auth.Identity, leadID int) (*Lead, error)
	Contact(ctx context.Context, id auth.Identity, leadID int, req NoteRequest) (*Lead, error)
	MarkLost(ctx context.Context, id auth.Identity, leadID int, req NoteRequest) (*Lead, error)
	// Convert turns the lead into a member, creating a password-less MEMBER
	// user when the lead has an email. The member goes through the member
	// service, so the plan limit and the plan invoice apply.
	Convert(ctx context.Context, id auth.Identity, leadID int, req ConvertRequest) (*ConvertResponse, error)
}

// Options dates lead notes. A nil Clock is time.Now; a nil Location is UTC.
type Options struct {
	Clock    calendar.Clock
	Location *time.Location
}

type service struct {
	repo    Repository
	users   user.Service
	members member.Service
	tx      db.Transactor
	opts    Options
}

func NewService(repo Repository, users user.Service, members member.Service, tx db.Transactor, opts Options) Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &service{repo: repo, users: users, members: members, tx: tx, opts: opts}
}

func (s *service) today() time.Time {
	return calendar.Today(s.opts.Clock, s.opts.Location)
}

func (s *service) Create(ctx context.Context, id auth.Identity, req CreateRequest) (*Lead, error) {
	tenantID, err := tenancy.ScopeOf(id).Resolve(req.TenantID)
	if err != nil {
		return nil, err
	}

	l, err := s.repo.Create(ctx, &Lead{
		TenantID: tenantID,
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Phone:    req.Phone,
		Source:   req.Source,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to create lead")
	}
	return l, nil
}

func (s *service) List(ctx context.Context, id auth.Identity, status Status, limit, offset int) ([]Lead, error) {
	leads, err := s.repo.List(ctx, tenancy.ScopeOf(id), status, limit, offset)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list leads")
	}
	return leads, nil
}

func (s *service) Get(ctx context.Context, id auth.Identity, leadID int) (*Lead, error) {
	l, err := s.repo.Get(ctx, tenancy.ScopeOf(id), leadID, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("lead")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load lead")
	}
	return l, nil
}

func (s *service) Contact(ctx context.Context, id auth.Identity, leadID int, req NoteRequest) (*Lead, error) {
	return s.move(ctx, id, leadID, StatusContacted, req.Note)
}

func (s *service) MarkLost(ctx context.Context, id auth.Identity, leadID int, req NoteRequest) (*Lead, error) {
	return s.move(ctx, id, leadID, StatusLost, req.Note)
}

func (s *service) move(ctx context.Context, id auth.Identity, leadID int, to Status, note string) (*Lead, error) {
	var result *Lead
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		l, err := s.lock(ctx, repo, id, leadID, to)
		if err != nil {
			return err
		}

		l.Status = to
		l.Notes = appendNote(l.Notes, s.today(), note)
		result, err = repo.Save(ctx, l)
		if err != nil {
			return apperr.FromStorage(err, "failed to update lead")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) lock(ctx context.Context, repo Repository, id auth.Identity, leadID int, to Status) (*Lead, error) {
	l, err := repo.Get(ctx, tenancy.ScopeOf(id), leadID, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("lead")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load lead")
	}
	if !CanTransition(l.Status, to) {
		return nil, apperr.Conflict(fmt.Sprintf("lead is %s and cannot become %s", l.Status, to))
	}
	return l, nil
}

func (s *service) Convert(ctx context.Context, id auth.Identity, leadID int, req ConvertRequest) (*ConvertResponse, error) {
	var resp ConvertResponse
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		l, err := s.lock(ctx, repo, id, leadID, StatusConverted)
		if err != nil {
			return err
		}

		var userID *int
		if l.Email != "" {
			tenantID := l.TenantID
			u, err := s.users.CreateTx(ctx, tx, &user.User{
				TenantID: &tenantID,
				Name:     l.Name,
				Email:    l.Email,
				Role:     auth.RoleMember,
			}, "")
			if err != nil {
				return err
			}
			userID = &u.ID
		}

		tenantID := l.TenantID
		m, err := s.members.CreateInTx(ctx, tx, id, member.CreateRequest{
			TenantID: &tenantID,
			UserID:   userID,
			PlanID:   req.PlanID,
			Name:     l.Name,
			Email:    l.Email,
			Phone:    l.Phone,
			JoinDate: req.JoinDate,
		})
		if err != nil {
			return err
		}

		l.Status = StatusConverted
		l.MemberID = &m.ID
		l.Notes = appendNote(l.Notes, s.today(), "converted to member "+m.MemberCode)
		saved, err := repo.Save(ctx, l)
		if err != nil {
			return apperr.FromStorage(err, "failed to update lead")
		}

		resp = ConvertResponse{Lead: saved, MemberID: m.ID, UserID: userID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("lead converted", "lead_id", leadID, "member_id", resp.MemberID)
	return &resp, nil
}

func appendNote(notes string, day time.Time, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return notes
	}
	line := day.Format("2006-01-02") + " " + note
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
