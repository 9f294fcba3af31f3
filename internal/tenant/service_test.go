package tenant

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"
	"gymcore/internal/saas"
	"gymcore/internal/user"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) WithTx(tx *sqlx.Tx) Repository { return m }

func (m *MockRepository) Create(ctx context.Context, name string, ownerAccountID *int) (*Tenant, error) {
	args := m.Called(ctx, name, ownerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tenant), args.Error(1)
}

func (m *MockRepository) SetOwner(ctx context.Context, id, ownerAccountID int) (*Tenant, error) {
	args := m.Called(ctx, id, ownerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tenant), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Tenant), args.Error(1)
}

func (m *MockRepository) ListOwned(ctx context.Context, accountID, tenantID int) ([]Tenant, error) {
	args := m.Called(ctx, accountID, tenantID)
	return args.Get(0).([]Tenant), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id int, forUpdate bool) (*Tenant, error) {
	args := m.Called(ctx, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tenant), args.Error(1)
}

func (m *MockRepository) SetStatus(ctx context.Context, id int, status Status) (*Tenant, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tenant), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockUsers struct {
	user.Service
	mock.Mock
}

func (m *MockUsers) CreateTx(ctx context.Context, tx *sqlx.Tx, u *user.User, password string) (*user.User, error) {
	args := m.Called(ctx, tx, u, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockSaaS struct {
	saas.Service
	mock.Mock
}

func (m *MockSaaS) GetSubscriptionTx(ctx context.Context, tx *sqlx.Tx, tenantID int) (*saas.Subscription, error) {
	args := m.Called(ctx, tx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*saas.Subscription), args.Error(1)
}

func (m *MockSaaS) AssignTx(ctx context.Context, tx *sqlx.Tx, tenantID int, req saas.AssignRequest) (*saas.Subscription, error) {
	args := m.Called(ctx, tx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*saas.Subscription), args.Error(1)
}

type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Check(ctx context.Context, id auth.Identity, tenantID int, resource saas.Resource) error {
	return m.Called(ctx, id, tenantID, resource).Error(0)
}

func (m *MockGuard) CheckTx(ctx context.Context, tx *sqlx.Tx, id auth.Identity, tenantID int, resource saas.Resource) error {
	return m.Called(ctx, tx, id, tenantID, resource).Error(0)
}

func (m *MockGuard) CheckActive(ctx context.Context, id auth.Identity, tenantID int) error {
	return m.Called(ctx, id, tenantID).Error(0)
}

type MockWelcomer struct {
	mock.Mock
}

func (m *MockWelcomer) SendWelcome(ctx context.Context, to, name, tenantName string) error {
	return m.Called(ctx, to, name, tenantName).Error(0)
}

type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error { return fn(nil) }

var (
	superAdmin  = auth.Identity{UserID: 1, Role: auth.RoleSuperAdmin}
	branchAdmin = auth.Identity{UserID: 7, TenantID: 1, Role: auth.RoleBranchAdmin}
)

type fixture struct {
	repo  *MockRepository
	users *MockUsers
	saas  *MockSaaS
	guard *MockGuard
	mail  *MockWelcomer
	svc   Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:  new(MockRepository),
		users: new(MockUsers),
		saas:  new(MockSaaS),
		guard: new(MockGuard),
		mail:  new(MockWelcomer),
	}
	f.svc = NewService(f.repo, f.users, f.saas, f.guard, fakeTx{}, f.mail)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.saas.AssertExpectations(t)
	f.guard.AssertExpectations(t)
	f.mail.AssertExpectations(t)
}

func intPtr(v int) *int { return &v }

func TestOnboard(t *testing.T) {
	ctx := context.Background()

	t.Run("creates tenant, owner and subscription", func(t *testing.T) {
		f := newFixture()
		owner := &user.User{ID: 11, TenantID: intPtr(5), Name: "Olga", Email: "owner@gym.test", Role: auth.RoleBranchAdmin}

		f.repo.On("Create", ctx, "Downtown", (*int)(nil)).Return(&Tenant{ID: 5, Name: "Downtown", Status: StatusActive}, nil)
		f.users.On("CreateTx", ctx, (*sqlx.Tx)(nil), mock.MatchedBy(func(u *user.User) bool {
			return u.Role == auth.RoleBranchAdmin && u.TenantID != nil && *u.TenantID == 5
		}), "s3cret-pass").Return(owner, nil)
		f.repo.On("SetOwner", ctx, 5, 11).Return(&Tenant{ID: 5, Name: "Downtown", Status: StatusActive, OwnerAccountID: intPtr(11)}, nil)
		f.saas.On("AssignTx", ctx, (*sqlx.Tx)(nil), 5, saas.AssignRequest{PlanID: 2, SubscriberAccountID: intPtr(11)}).
			Return(&saas.Subscription{ID: 30, TenantID: 5, PlanID: 2, Status: saas.SubscriptionActive}, nil)
		f.mail.On("SendWelcome", ctx, "owner@gym.test", "Olga", "Downtown").Return(nil)

		resp, err := f.svc.Onboard(ctx, superAdmin, OnboardRequest{
			Name:          " Downtown ",
			OwnerName:     "Olga",
			OwnerEmail:    "owner@gym.test",
			OwnerPassword: "s3cret-pass",
			SaaSPlanID:    intPtr(2),
		})
		require.NoError(t, err)
		assert.Equal(t, 11, *resp.Tenant.OwnerAccountID)
		assert.Equal(t, 11, resp.Owner.ID)
		require.NotNil(t, resp.Subscription)
		assert.Equal(t, 30, resp.Subscription.ID)
		f.assertExpectations(t)
	})

	t.Run("without a plan skips the subscription", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Create", ctx, "Downtown", (*int)(nil)).Return(&Tenant{ID: 5}, nil)
		f.users.On("CreateTx", ctx, (*sqlx.Tx)(nil), mock.Anything, "s3cret-pass").Return(&user.User{ID: 11}, nil)
		f.repo.On("SetOwner", ctx, 5, 11).Return(&Tenant{ID: 5, Name: "Downtown", OwnerAccountID: intPtr(11)}, nil)
		f.mail.On("SendWelcome", ctx, "", "", "Downtown").Return(errors.New("redis down"))

		resp, err := f.svc.Onboard(ctx, superAdmin, OnboardRequest{Name: "Downtown", OwnerPassword: "s3cret-pass"})
		require.NoError(t, err)
		assert.Nil(t, resp.Subscription)
		f.assertExpectations(t)
	})

	t.Run("taken owner email aborts", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Create", ctx, "Downtown", (*int)(nil)).Return(&Tenant{ID: 5}, nil)
		f.users.On("CreateTx", ctx, (*sqlx.Tx)(nil), mock.Anything, "").Return(nil, apperr.Conflict("Email already registered"))

		_, err := f.svc.Onboard(ctx, superAdmin, OnboardRequest{Name: "Downtown"})
		assert.True(t, apperr.Is(err, apperr.KindConflict))
		f.repo.AssertNotCalled(t, "SetOwner", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("requires super admin", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Onboard(ctx, branchAdmin, OnboardRequest{Name: "Downtown"})
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})
}

func TestAddBranch(t *testing.T) {
	ctx := context.Background()

	t.Run("inherits the parent subscription", func(t *testing.T) {
		f := newFixture()
		f.guard.On("CheckTx", ctx, (*sqlx.Tx)(nil), branchAdmin, 1, saas.ResourceBranches).Return(nil)
		f.repo.On("Create", ctx, "North", intPtr(7)).Return(&Tenant{ID: 9, Name: "North", OwnerAccountID: intPtr(7)}, nil)
		f.saas.On("GetSubscriptionTx", ctx, (*sqlx.Tx)(nil), 1).Return(&saas.Subscription{TenantID: 1, PlanID: 3, SubscriberAccountID: intPtr(7)}, nil)
		f.saas.On("AssignTx", ctx, (*sqlx.Tx)(nil), 9, saas.AssignRequest{PlanID: 3, SubscriberAccountID: intPtr(7)}).
			Return(&saas.Subscription{ID: 40, TenantID: 9, PlanID: 3}, nil)

		branch, err := f.svc.AddBranch(ctx, branchAdmin, BranchRequest{Name: "North"})
		require.NoError(t, err)
		assert.Equal(t, 9, branch.ID)
		f.assertExpectations(t)
	})

	t.Run("parent without subscription", func(t *testing.T) {
		f := newFixture()
		f.guard.On("CheckTx", ctx, (*sqlx.Tx)(nil), branchAdmin, 1, saas.ResourceBranches).Return(nil)
		f.repo.On("Create", ctx, "North", intPtr(7)).Return(&Tenant{ID: 9}, nil)
		f.saas.On("GetSubscriptionTx", ctx, (*sqlx.Tx)(nil), 1).Return(nil, apperr.NotFound("subscription"))

		_, err := f.svc.AddBranch(ctx, branchAdmin, BranchRequest{Name: "North"})
		require.NoError(t, err)
		f.saas.AssertNotCalled(t, "AssignTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("limit reached", func(t *testing.T) {
		f := newFixture()
		f.guard.On("CheckTx", ctx, (*sqlx.Tx)(nil), branchAdmin, 1, saas.ResourceBranches).
			Return(apperr.LimitExceeded("branches", 2, 2, "Basic"))

		_, err := f.svc.AddBranch(ctx, branchAdmin, BranchRequest{Name: "North"})
		assert.True(t, apperr.Is(err, apperr.KindLimitExceeded))
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blank name", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.AddBranch(ctx, branchAdmin, BranchRequest{Name: "  "})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestListMine(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.repo.On("ListAll", ctx).Return([]Tenant{{ID: 1}, {ID: 2}, {ID: 3}}, nil)
	f.repo.On("ListOwned", ctx, 7, 1).Return([]Tenant{{ID: 1}, {ID: 2}}, nil)

	all, err := f.svc.ListMine(ctx, superAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := f.svc.ListMine(ctx, branchAdmin)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	f.assertExpectations(t)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.repo.On("Get", ctx, 1, false).Return(&Tenant{ID: 1}, nil)
	f.repo.On("Get", ctx, 2, false).Return(&Tenant{ID: 2, OwnerAccountID: intPtr(7)}, nil)
	f.repo.On("Get", ctx, 3, false).Return(&Tenant{ID: 3, OwnerAccountID: intPtr(99)}, nil)
	f.repo.On("Get", ctx, 4, false).Return(nil, sql.ErrNoRows)

	tests := []struct {
		name     string
		tenantID int
		kind     apperr.Kind
	}{
		{"own tenant", 1, ""},
		{"owned branch", 2, ""},
		{"someone else's tenant", 3, apperr.KindNotFound},
		{"missing", 4, apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Get(ctx, branchAdmin, tt.tenantID)
			if tt.kind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.tenantID, got.ID)
				return
			}
			assert.True(t, apperr.Is(err, tt.kind))
		})
	}
}

func TestSuspendAndActivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.repo.On("SetStatus", ctx, 5, StatusSuspended).Return(&Tenant{ID: 5, Status: StatusSuspended}, nil)
	f.repo.On("SetStatus", ctx, 5, StatusActive).Return(&Tenant{ID: 5, Status: StatusActive}, nil)
	f.repo.On("SetStatus", ctx, 6, StatusActive).Return(nil, sql.ErrNoRows)

	got, err := f.svc.Suspend(ctx, superAdmin, 5)
	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, got.Status)

	got, err = f.svc.Activate(ctx, superAdmin, 5)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)

	_, err = f.svc.Activate(ctx, superAdmin, 6)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.Suspend(ctx, branchAdmin, 5)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("locks then cascades", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, 5, true).Return(&Tenant{ID: 5}, nil)
		f.repo.On("Delete", ctx, 5).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, superAdmin, 5))
		f.assertExpectations(t)
	})

	t.Run("missing tenant", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, 5, true).Return(nil, sql.ErrNoRows)

		err := f.svc.Delete(ctx, superAdmin, 5)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("requires super admin", func(t *testing.T) {
		f := newFixture()
		err := f.svc.Delete(ctx, branchAdmin, 5)
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})
}
