package member

import (
	"context"
	"time"

	"gymcore/internal/auth"
	"gymcore/internal/invoice"
	"gymcore/internal/locker"
	"gymcore/internal/plan"
	"gymcore/internal/saas"
	"gymcore/internal/tenancy"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error { return fn(nil) }

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) WithTx(tx *sqlx.Tx) Repository { return m }

func (m *MockRepository) Create(ctx context.Context, mem *Member) (*Member, error) {
	args := m.Called(ctx, mem)
	if args.Get(0) == nil {
		if err := args.Error(1); err != nil {
			return nil, err
		}
		created := *mem
		return &created, nil
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, scope tenancy.Scope, id int, forUpdate bool) (*Member, error) {
	args := m.Called(ctx, scope, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, scope tenancy.Scope, filter ListFilter) ([]Member, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

// Save echoes its input unless a return value is configured.
func (m *MockRepository) Save(ctx context.Context, mem *Member) (*Member, error) {
	args := m.Called(ctx, mem)
	if args.Get(0) == nil {
		if err := args.Error(1); err != nil {
			return nil, err
		}
		saved := *mem
		return &saved, nil
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ExpiringBetween(ctx context.Context, scope tenancy.Scope, from, to time.Time) ([]Member, error) {
	args := m.Called(ctx, scope, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepository) ExpiredBetween(ctx context.Context, scope tenancy.Scope, from, to time.Time) ([]Member, error) {
	args := m.Called(ctx, scope, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepository) SweepExpired(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

type MockPlans struct {
	mock.Mock
}

func (m *MockPlans) WithTx(tx *sqlx.Tx) plan.Repository { return m }

func (m *MockPlans) Create(ctx context.Context, p *plan.MembershipPlan) (*plan.MembershipPlan, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(*plan.MembershipPlan), args.Error(1)
}

func (m *MockPlans) List(ctx context.Context, scope tenancy.Scope, onlyActive bool) ([]plan.MembershipPlan, error) {
	args := m.Called(ctx, scope, onlyActive)
	return args.Get(0).([]plan.MembershipPlan), args.Error(1)
}

func (m *MockPlans) Get(ctx context.Context, scope tenancy.Scope, id int) (*plan.MembershipPlan, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.MembershipPlan), args.Error(1)
}

func (m *MockPlans) Update(ctx context.Context, scope tenancy.Scope, p *plan.MembershipPlan) (*plan.MembershipPlan, error) {
	args := m.Called(ctx, scope, p)
	return args.Get(0).(*plan.MembershipPlan), args.Error(1)
}

func (m *MockPlans) Delete(ctx context.Context, scope tenancy.Scope, id int) (int64, error) {
	args := m.Called(ctx, scope, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvoices only records CreateTx; the member service never calls the
// rest of invoice.Service.
type MockInvoices struct {
	invoice.Service
	mock.Mock
}

func (m *MockInvoices) CreateTx(ctx context.Context, tx *sqlx.Tx, d invoice.Draft) (*invoice.Invoice, error) {
	args := m.Called(ctx, tx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

type MockLockers struct {
	locker.Service
	mock.Mock
}

func (m *MockLockers) ReleaseForMemberTx(ctx context.Context, tx *sqlx.Tx, memberID int) (int64, error) {
	args := m.Called(ctx, tx, memberID)
	return args.Get(0).(int64), args.Error(1)
}

type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Check(ctx context.Context, id auth.Identity, tenantID int, resource saas.Resource) error {
	args := m.Called(ctx, id, tenantID, resource)
	return args.Error(0)
}

func (m *MockGuard) CheckTx(ctx context.Context, tx *sqlx.Tx, id auth.Identity, tenantID int, resource saas.Resource) error {
	args := m.Called(ctx, tx, id, tenantID, resource)
	return args.Error(0)
}

func (m *MockGuard) CheckActive(ctx context.Context, id auth.Identity, tenantID int) error {
	args := m.Called(ctx, id, tenantID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendRenewalReminder(ctx context.Context, to, name string, expiry time.Time) error {
	args := m.Called(ctx, to, name, expiry)
	return args.Error(0)
}
