package saas

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// fakeRepo keeps plans and subscriptions in memory. usage counts are set by
// the test and read back by CountUsage.
type fakeRepo struct {
	plans     map[int]*Plan
	subs      []*Subscription
	usage     map[Resource]int
	owners    map[int]*int
	statuses  map[int]string
	err       error
	locked    []bool
	txScoped  int
	suspended int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		plans:    map[int]*Plan{},
		usage:    map[Resource]int{},
		owners:   map[int]*int{},
		statuses: map[int]string{},
	}
}

func (f *fakeRepo) WithTx(tx *sqlx.Tx) Repository {
	f.txScoped++
	return f
}

func (f *fakeRepo) CreatePlan(ctx context.Context, name string, priceCents int64, limits Limits) (*Plan, error) {
	p := &Plan{ID: len(f.plans) + 1, Name: name, PriceCents: priceCents, Limits: limits}
	f.plans[p.ID] = p
	return p, nil
}

func (f *fakeRepo) ListPlans(ctx context.Context) ([]Plan, error) {
	out := make([]Plan, 0, len(f.plans))
	for _, p := range f.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) GetPlan(ctx context.Context, id int) (*Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeRepo) UpdatePlan(ctx context.Context, id int, name string, priceCents int64, limits Limits) (*Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	p.Name, p.PriceCents, p.Limits = name, priceCents, limits
	return p, nil
}

func (f *fakeRepo) DeletePlan(ctx context.Context, id int) (int64, error) {
	if _, ok := f.plans[id]; !ok {
		return 0, nil
	}
	delete(f.plans, id)
	return 1, nil
}

func (f *fakeRepo) active(tenantID int) *Subscription {
	for _, s := range f.subs {
		if s.TenantID == tenantID && s.Status == SubscriptionActive {
			return s
		}
	}
	return nil
}

func (f *fakeRepo) ActivePlan(ctx context.Context, tenantID int, forUpdate bool) (*ActivePlan, error) {
	f.locked = append(f.locked, forUpdate)
	if f.err != nil {
		return nil, f.err
	}
	s := f.active(tenantID)
	if s == nil {
		return nil, sql.ErrNoRows
	}
	p := f.plans[s.PlanID]
	return &ActivePlan{SubscriptionID: s.ID, SubscriberAccountID: s.SubscriberAccountID, PlanName: p.Name, Limits: p.Limits}, nil
}

func (f *fakeRepo) GetActiveSubscription(ctx context.Context, tenantID int) (*Subscription, error) {
	s := f.active(tenantID)
	if s == nil {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeRepo) CreateSubscription(ctx context.Context, tenantID, planID int, subscriberAccountID *int) (*Subscription, error) {
	s := &Subscription{ID: len(f.subs) + 1, TenantID: tenantID, PlanID: planID, Status: SubscriptionActive, SubscriberAccountID: subscriberAccountID}
	f.subs = append(f.subs, s)
	return s, nil
}

func (f *fakeRepo) SuspendActive(ctx context.Context, tenantID int) (int64, error) {
	s := f.active(tenantID)
	if s == nil {
		return 0, nil
	}
	s.Status = SubscriptionSuspended
	f.suspended++
	return 1, nil
}

func (f *fakeRepo) CountUsage(ctx context.Context, resource Resource, tenantID int, subscriberAccountID *int) (int, error) {
	return f.usage[resource], nil
}

func (f *fakeRepo) TenantOwner(ctx context.Context, tenantID int) (*int, error) {
	owner, ok := f.owners[tenantID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return owner, nil
}

// TenantStatus reports Active for any tenant without an explicit status.
func (f *fakeRepo) TenantStatus(ctx context.Context, tenantID int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	status, ok := f.statuses[tenantID]
	if !ok {
		return "Active", nil
	}
	return status, nil
}

type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}
