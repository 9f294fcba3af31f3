package server

import (
	"gymcore/internal/config"
	"gymcore/internal/db"
	"gymcore/internal/email"
	"gymcore/internal/invoice"
	"gymcore/internal/lead"
	"gymcore/internal/locker"
	"gymcore/internal/member"
	"gymcore/internal/plan"
	"gymcore/internal/saas"
	"gymcore/internal/scheduler"
	"gymcore/internal/store"
	"gymcore/internal/tenant"
	"gymcore/internal/user"
	"gymcore/internal/wallet"

	"github.com/jmoiron/sqlx"
)

// Services is the wired domain layer shared by the HTTP server and the
// sweep binaries.
type Services struct {
	SaaS     saas.Service
	Guard    saas.Guard
	Users    user.Service
	Tenants  tenant.Service
	Plans    plan.Service
	Members  member.Service
	Invoices invoice.Service
	Wallets  wallet.Service
	Lockers  locker.Service
	Leads    lead.Service
	Store    store.Service
}

// NewServices wires every service on database. mailer may be nil, in which
// case no reminder or welcome emails are queued.
func NewServices(database *sqlx.DB, cfg *config.Config, mailer *email.Service) *Services {
	txm := db.NewTxManager(database)

	saasRepo := saas.NewRepository(database)
	guard := saas.NewGuard(saasRepo)
	saasService := saas.NewService(saasRepo, txm)

	users := user.NewService(user.NewRepository(database), guard, txm, cfg.JWTSecret)

	var welcomer tenant.Welcomer
	var notifier member.Notifier
	if mailer != nil {
		welcomer = mailer
		notifier = mailer
	}
	tenants := tenant.NewService(tenant.NewRepository(database), users, saasService, guard, txm, welcomer)

	planRepo := plan.NewRepository(database)
	wallets := wallet.NewService(wallet.NewRepository(database), txm)
	invoices := invoice.NewService(invoice.NewRepository(database), wallets, txm, invoice.Options{
		Location: cfg.Location,
		DueDays:  cfg.InvoiceDueDays,
	})
	lockers := locker.NewService(locker.NewRepository(database), txm, nil, cfg.Location)

	members := member.NewService(member.NewRepository(database), member.Deps{
		Plans:    planRepo,
		Invoices: invoices,
		Lockers:  lockers,
		Guard:    guard,
		Notifier: notifier,
	}, txm, member.Options{
		Location:            cfg.Location,
		ExpiringSoonDays:    cfg.ExpiringSoonDays,
		RecentlyExpiredDays: cfg.RecentlyExpiredDays,
	})

	leads := lead.NewService(lead.NewRepository(database), users, members, txm, lead.Options{
		Location: cfg.Location,
	})

	return &Services{
		SaaS:     saasService,
		Guard:    guard,
		Users:    users,
		Tenants:  tenants,
		Plans:    plan.NewService(planRepo),
		Members:  members,
		Invoices: invoices,
		Wallets:  wallets,
		Lockers:  lockers,
		Leads:    leads,
		Store:    store.NewService(store.NewRepository(database), invoices, txm),
	}
}

// Tasks maps the daily sweeps onto the services that own the rows.
func (s *Services) Tasks() scheduler.Tasks {
	return scheduler.Tasks{
		ReleaseLockers: s.Lockers.SweepExpired,
		ExpireMembers:  s.Members.SweepExpired,
		MarkOverdue:    s.Invoices.SweepOverdue,
		RemindExpiring: s.Members.RemindExpiring,
	}
}
