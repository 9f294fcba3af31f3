package member

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
	"gymcore/internal/invoice"
	"gymcore/internal/locker"
	"gymcore/internal/logger"
	"gymcore/internal/metrics"
	"gymcore/internal/plan"
	"gymcore/internal/saas"
	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
)

// Renew, Freeze and GiftDays are not idempotent: each call extends the
// membership again and Renew issues another invoice.
type Service interface {
	Create(ctx context.Context, id auth.Identity, req CreateRequest) (*Member, error)
	// CreateInTx creates a member inside tx, applying the plan-limit guard
	// and the invoice side effect of Create.
	CreateInTx(ctx context.Context, tx *sqlx.Tx, id auth.Identity, req CreateRequest) (*Member, error)
	Get(ctx context.Context, id auth.Identity, memberID int) (*Member, error)
	List(ctx context.Context, id auth.Identity, filter ListFilter) ([]Member, error)
	Update(ctx context.Context, id auth.Identity, memberID int, req UpdateRequest) (*Member, error)
	Delete(ctx context.Context, id auth.Identity, memberID int) error

	AssignPlan(ctx context.Context, id auth.Identity, memberID int, req AssignPlanRequest) (*Member, error)
	Renew(ctx context.Context, id auth.Identity, memberID int, req RenewRequest) (*Member, error)
	Freeze(ctx context.Context, id auth.Identity, memberID int, req FreezeRequest) (*Member, error)
	Unfreeze(ctx context.Context, id auth.Identity, memberID int) (*Member, error)
	GiftDays(ctx context.Context, id auth.Identity, memberID int, req GiftRequest) (*Member, error)
	ToggleStatus(ctx context.Context, id auth.Identity, memberID int) (*Member, error)
	Cancel(ctx context.Context, id auth.Identity, memberID int, req CancelRequest) (*Member, error)
	UseBenefit(ctx context.Context, id auth.Identity, memberID int, name string) (*Member, error)

	ExpiringSoon(ctx context.Context, id auth.Identity) ([]Member, error)
	RecentlyExpired(ctx context.Context, id auth.Identity) ([]Member, error)
	SweepExpired(ctx context.Context, today time.Time) (int64, error)
	RemindExpiring(ctx context.Context, today time.Time) (int64, error)
}

// Notifier delivers renewal reminders.
type Notifier interface {
	SendRenewalReminder(ctx context.Context, to, name string, expiry time.Time) error
}

type Options struct {
	Clock               calendar.Clock
	Location            *time.Location
	ExpiringSoonDays    int
	RecentlyExpiredDays int
}

type Deps struct {
	Plans    plan.Repository
	Invoices invoice.Service
	Lockers  locker.Service
	Guard    saas.Guard
	Notifier Notifier
}

type service struct {
	repo Repository
	deps Deps
	tx   db.Transactor
	opts Options
}

func NewService(repo Repository, deps Deps, tx db.Transactor, opts Options) Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.ExpiringSoonDays <= 0 {
		opts.ExpiringSoonDays = 7
	}
	if opts.RecentlyExpiredDays <= 0 {
		opts.RecentlyExpiredDays = 15
	}
	return &service{repo: repo, deps: deps, tx: tx, opts: opts}
}

func (s *service) today() time.Time {
	return calendar.Today(s.opts.Clock, s.opts.Location)
}

func (s *service) Create(ctx context.Context, id auth.Identity, req CreateRequest) (*Member, error) {
	var created *Member
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		created, err = s.create(ctx, tx, id, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMemberCreated("direct")
	logger.Info("member created", "member_id", created.ID, "tenant_id", created.TenantID, "code", created.MemberCode)
	return created, nil
}

func (s *service) CreateInTx(ctx context.Context, tx *sqlx.Tx, id auth.Identity, req CreateRequest) (*Member, error) {
	created, err := s.create(ctx, tx, id, req)
	if err != nil {
		return nil, err
	}
	metrics.RecordMemberCreated("lead")
	return created, nil
}

func (s *service) create(ctx context.Context, tx *sqlx.Tx, id auth.Identity, req CreateRequest) (*Member, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	tenantID, err := tenancy.ScopeOf(id).Resolve(req.TenantID)
	if err != nil {
		return nil, err
	}

	joinDate := s.today()
	if req.JoinDate != "" {
		joinDate, err = time.Parse("2006-01-02", req.JoinDate)
		if err != nil {
			return nil, apperr.Validation("join_date must be YYYY-MM-DD")
		}
	}

	if err := s.deps.Guard.CheckTx(ctx, tx, id, tenantID, saas.ResourceMembers); err != nil {
		return nil, err
	}

	m := &Member{
		TenantID:   tenantID,
		MemberCode: fmt.Sprintf("MEM-%d", s.opts.Clock().UnixMilli()),
		UserID:     req.UserID,
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Phone:      req.Phone,
		Status:     StatusActive,
		JoinDate:   joinDate,
		Benefits:   Benefits{},
	}

	var p *plan.MembershipPlan
	if req.PlanID != nil {
		p, err = s.loadPlan(ctx, tx, tenantID, *req.PlanID)
		if err != nil {
			return nil, err
		}
		if err := startCycle(m, p, joinDate); err != nil {
			return nil, err
		}
	}

	repo := s.repo.WithTx(tx)
	created, err := repo.Create(ctx, m)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to create member")
	}

	if p != nil {
		if _, err := s.invoiceFor(ctx, tx, created, p, p.PriceCents, "plan"); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (s *service) loadPlan(ctx context.Context, tx *sqlx.Tx, tenantID, planID int) (*plan.MembershipPlan, error) {
	p, err := s.deps.Plans.WithTx(tx).Get(ctx, tenancy.Scope{TenantID: tenantID}, planID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("plan")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load plan")
	}
	if !p.Active {
		return nil, apperr.Validation("plan " + p.Name + " is not active")
	}
	return p, nil
}

// startCycle puts m on p from start: expiry per the plan duration and a
// fresh benefit snapshot.
func startCycle(m *Member, p *plan.MembershipPlan, start time.Time) error {
	expiry, err := p.ExpiryFrom(start)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	planID := p.ID
	m.PlanID = &planID
	m.JoinDate = start
	m.ExpiryDate = &expiry
	m.Benefits = SnapshotOf(p.Benefits)
	return nil
}

func (s *service) invoiceFor(ctx context.Context, tx *sqlx.Tx, m *Member, p *plan.MembershipPlan, amount int64, reason string) (*invoice.Invoice, error) {
	return s.deps.Invoices.CreateTx(ctx, tx, invoice.Draft{
		TenantID:    m.TenantID,
		MemberID:    m.ID,
		AmountCents: amount,
		Description: "Membership: " + p.Name,
		Reason:      reason,
	})
}

func (s *service) Get(ctx context.Context, id auth.Identity, memberID int) (*Member, error) {
	m, err := s.repo.Get(ctx, tenancy.ScopeOf(id), memberID, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("member")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load member")
	}
	return m, nil
}

func (s *service) List(ctx context.Context, id auth.Identity, filter ListFilter) ([]Member, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.Validation("unknown status " + string(filter.Status))
	}
	members, err := s.repo.List(ctx, tenancy.ScopeOf(id), filter)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list members")
	}
	return members, nil
}

func (s *service) Update(ctx context.Context, id auth.Identity, memberID int, req UpdateRequest) (*Member, error) {
	var result *Member
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		m, err := s.lock(ctx, repo, id, memberID)
		if err != nil {
			return err
		}
		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				return apperr.Validation("name must not be empty")
			}
			m.Name = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			m.Email = *req.Email
		}
		if req.Phone != nil {
			m.Phone = *req.Phone
		}
		result, err = repo.Save(ctx, m)
		if err != nil {
			return apperr.FromStorage(err, "failed to update member")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Delete(ctx context.Context, id auth.Identity, memberID int) error {
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		m, err := s.lock(ctx, repo, id, memberID)
		if err != nil {
			return err
		}
		if _, err := s.deps.Lockers.ReleaseForMemberTx(ctx, tx, m.ID); err != nil {
			return err
		}
		if err := repo.Delete(ctx, m.ID); err != nil {
			return apperr.FromStorage(err, "failed to delete member")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("member deleted", "member_id", memberID)
	return nil
}

func (s *service) lock(ctx context.Context, repo Repository, id auth.Identity, memberID int) (*Member, error) {
	m, err := repo.Get(ctx, tenancy.ScopeOf(id), memberID, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("member")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to load member")
	}
	return m, nil
}

// transition locks the member, checks op against the state table, lets
// apply adjust dates and side effects, and saves the member in its new
// state. Everything runs in one transaction.
func (s *service) transition(ctx context.Context, id auth.Identity, memberID int, op Operation, apply func(tx *sqlx.Tx, m *Member) error) (*Member, error) {
	var result *Member
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		m, err := s.lock(ctx, repo, id, memberID)
		if err != nil {
			return err
		}

		next, ok := Next(op, m.Status)
		if !ok {
			return transitionError(op, m.Status)
		}
		if apply != nil {
			if err := apply(tx, m); err != nil {
				return err
			}
		}
		m.Status = next

		result, err = repo.Save(ctx, m)
		if err != nil {
			return apperr.FromStorage(err, "failed to save member")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(op))
	logger.Info("member transition",
		"member_id", result.ID,
		"operation", string(op),
		"status", string(result.Status),
	)
	return result, nil
}

// AssignPlan starts the plan from the member's join date and bills its
// price.
func (s *service) AssignPlan(ctx context.Context, id auth.Identity, memberID int, req AssignPlanRequest) (*Member, error) {
	return s.transition(ctx, id, memberID, OpAssignPlan, func(tx *sqlx.Tx, m *Member) error {
		p, err := s.loadPlan(ctx, tx, m.TenantID, req.PlanID)
		if err != nil {
			return err
		}
		if err := startCycle(m, p, m.JoinDate); err != nil {
			return err
		}
		_, err = s.invoiceFor(ctx, tx, m, p, p.PriceCents, "plan")
		return err
	})
}

// Renew restarts the membership today for req.Duration months and bills
// plan price times duration.
func (s *service) Renew(ctx context.Context, id auth.Identity, memberID int, req RenewRequest) (*Member, error) {
	if req.Duration <= 0 {
		return nil, apperr.Validation("duration must be positive")
	}
	return s.transition(ctx, id, memberID, OpRenew, func(tx *sqlx.Tx, m *Member) error {
		p, err := s.loadPlan(ctx, tx, m.TenantID, req.PlanID)
		if err != nil {
			return err
		}

		today := s.today()
		expiry := calendar.AddMonths(today, req.Duration)
		planID := p.ID
		m.PlanID = &planID
		m.JoinDate = today
		m.ExpiryDate = &expiry
		m.Benefits = SnapshotOf(p.Benefits)
		m.History = appendHistory(m.History, today, fmt.Sprintf("renewed on %s for %d month(s)", p.Name, req.Duration))

		_, err = s.invoiceFor(ctx, tx, m, p, p.PriceCents*int64(req.Duration), "renewal")
		return err
	})
}

// Freeze pushes the expiry forward by req.Months; the clock keeps running.
func (s *service) Freeze(ctx context.Context, id auth.Identity, memberID int, req FreezeRequest) (*Member, error) {
	if req.Months <= 0 {
		return nil, apperr.Validation("months must be positive")
	}
	return s.transition(ctx, id, memberID, OpFreeze, func(tx *sqlx.Tx, m *Member) error {
		if m.ExpiryDate == nil {
			return apperr.Validation("member has no expiry date to extend")
		}
		expiry := calendar.AddMonths(*m.ExpiryDate, req.Months)
		m.ExpiryDate = &expiry
		m.History = appendHistory(m.History, s.today(), fmt.Sprintf("frozen for %d month(s)", req.Months), req.Reason)
		return nil
	})
}

func (s *service) Unfreeze(ctx context.Context, id auth.Identity, memberID int) (*Member, error) {
	return s.transition(ctx, id, memberID, OpUnfreeze, func(tx *sqlx.Tx, m *Member) error {
		m.History = appendHistory(m.History, s.today(), "unfrozen")
		return nil
	})
}

func (s *service) GiftDays(ctx context.Context, id auth.Identity, memberID int, req GiftRequest) (*Member, error) {
	if req.Days <= 0 {
		return nil, apperr.Validation("days must be positive")
	}
	return s.transition(ctx, id, memberID, OpGiftDays, func(tx *sqlx.Tx, m *Member) error {
		if m.ExpiryDate == nil {
			return apperr.Validation("member has no expiry date to extend")
		}
		expiry := calendar.AddDays(*m.ExpiryDate, req.Days)
		m.ExpiryDate = &expiry
		m.History = appendHistory(m.History, s.today(), fmt.Sprintf("gifted %d day(s)", req.Days), req.Note)
		return nil
	})
}

func (s *service) ToggleStatus(ctx context.Context, id auth.Identity, memberID int) (*Member, error) {
	return s.transition(ctx, id, memberID, OpToggle, nil)
}

// Cancel ends the membership and frees the member's lockers.
func (s *service) Cancel(ctx context.Context, id auth.Identity, memberID int, req CancelRequest) (*Member, error) {
	return s.transition(ctx, id, memberID, OpCancel, func(tx *sqlx.Tx, m *Member) error {
		if _, err := s.deps.Lockers.ReleaseForMemberTx(ctx, tx, m.ID); err != nil {
			return err
		}
		m.History = appendHistory(m.History, s.today(), "cancelled", req.Reason)
		return nil
	})
}

func (s *service) UseBenefit(ctx context.Context, id auth.Identity, memberID int, name string) (*Member, error) {
	return s.transition(ctx, id, memberID, OpUseBenefit, func(tx *sqlx.Tx, m *Member) error {
		for i := range m.Benefits {
			if m.Benefits[i].Name != name {
				continue
			}
			if m.Benefits[i].Used >= m.Benefits[i].Limit {
				return apperr.Conflict(fmt.Sprintf("benefit %s used up for this cycle (%d/%d)", name, m.Benefits[i].Used, m.Benefits[i].Limit))
			}
			m.Benefits[i].Used++
			return nil
		}
		return apperr.NotFound("benefit")
	})
}

func (s *service) ExpiringSoon(ctx context.Context, id auth.Identity) ([]Member, error) {
	today := s.today()
	members, err := s.repo.ExpiringBetween(ctx, tenancy.ScopeOf(id), today, calendar.AddDays(today, s.opts.ExpiringSoonDays))
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list expiring members")
	}
	return members, nil
}

func (s *service) RecentlyExpired(ctx context.Context, id auth.Identity) ([]Member, error) {
	today := s.today()
	members, err := s.repo.ExpiredBetween(ctx, tenancy.ScopeOf(id), calendar.AddDays(today, -s.opts.RecentlyExpiredDays), today)
	if err != nil {
		return nil, apperr.FromStorage(err, "failed to list expired members")
	}
	return members, nil
}

// SweepExpired is safe to run more than once a day; later runs find nothing.
func (s *service) SweepExpired(ctx context.Context, today time.Time) (int64, error) {
	n, err := s.repo.SweepExpired(ctx, today)
	if err != nil {
		return 0, apperr.FromStorage(err, "failed to expire members")
	}
	if n > 0 {
		logger.Info("members expired", "count", n, "today", today.Format("2006-01-02"))
	}
	return n, nil
}

// RemindExpiring queues a reminder for every member in the expiring-soon
// window that has an email. Delivery failures are logged and skipped.
func (s *service) RemindExpiring(ctx context.Context, today time.Time) (int64, error) {
	if s.deps.Notifier == nil {
		return 0, nil
	}
	members, err := s.repo.ExpiringBetween(ctx, tenancy.System(), today, calendar.AddDays(today, s.opts.ExpiringSoonDays))
	if err != nil {
		return 0, apperr.FromStorage(err, "failed to list expiring members")
	}

	var sent int64
	for _, m := range members {
		if m.Email == "" || m.ExpiryDate == nil {
			continue
		}
		if err := s.deps.Notifier.SendRenewalReminder(ctx, m.Email, m.Name, *m.ExpiryDate); err != nil {
			logger.Warn("renewal reminder not queued", "member_id", m.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func appendHistory(history string, day time.Time, entry string, note ...string) string {
	line := day.Format("2006-01-02") + " " + entry
	for _, n := range note {
		if n = strings.TrimSpace(n); n != "" {
			line += ": " + n
		}
	}
	if history == "" {
		return line
	}
	return history + "\n" + line
}
