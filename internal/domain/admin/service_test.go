package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"boattours/internal/database"
	"boattours/internal/domain/booking"
	"boattours/internal/pkg/jwt"
)

func newTestService(t *testing.T) (*Service, *jwt.Service) {
	t.Helper()
	db, err := database.OpenTest(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Admin{}))

	tokens := jwt.New("test-secret", time.Hour)
	svc := NewService(NewRepository(db), tokens)
	svc.loggerf = func(string, ...interface{}) {}
	return svc, tokens
}

func register(t *testing.T, svc *Service, email string, role Role) *Admin {
	t.Helper()
	a, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Harbour Staff",
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)
	return a
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newTestService(t)
	ctx := context.Background()

	a := register(t, svc, "  Staff@Example.com ", "")
	assert.Equal(t, "staff@example.com", a.Email)
	assert.Equal(t, RoleAdmin, a.Role)
	assert.True(t, a.IsActive)
	assert.NotEqual(t, "secret123", a.PasswordHash)

	token, logged, err := svc.Login(ctx, "STAFF@example.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, logged.LastLoginAt)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, claims.AdminID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLogin_Failures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := register(t, svc, "staff@example.com", RoleAdmin)

	_, _, err := svc.Login(ctx, "staff@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	inactive := false
	_, err = svc.Update(ctx, Actor{ID: 999, Role: RoleSuperAdmin}, a.ID, UpdateRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "staff@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInactive)

	active, err := svc.IsActive(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "A",
		Email:    "not-an-email",
		Password: "123",
		Role:     "captain",
	})
	require.ErrorIs(t, err, booking.ErrValidation)

	fields := booking.Fields(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "role")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "staff@example.com", RoleAdmin)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Other",
		Email:    "STAFF@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, booking.ErrConflict)
}

func TestUpdate_Permissions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	super := register(t, svc, "super@example.com", RoleSuperAdmin)
	staff := register(t, svc, "staff@example.com", RoleAdmin)
	other := register(t, svc, "other@example.com", RoleAdmin)

	self := Actor{ID: staff.ID, Role: RoleAdmin}
	name := "Deck Hand"
	updated, err := svc.Update(ctx, self, staff.ID, UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Deck Hand", updated.Name)

	_, err = svc.Update(ctx, self, other.ID, UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	promote := RoleSuperAdmin
	_, err = svc.Update(ctx, self, staff.ID, UpdateRequest{Role: &promote})
	assert.ErrorIs(t, err, ErrForbidden)

	demote := RoleAdmin
	_, err = svc.Update(ctx, Actor{ID: super.ID, Role: RoleSuperAdmin}, super.ID, UpdateRequest{Role: &demote})
	assert.ErrorIs(t, err, ErrSelfModification)

	off := false
	_, err = svc.Update(ctx, Actor{ID: super.ID, Role: RoleSuperAdmin}, super.ID, UpdateRequest{IsActive: &off})
	assert.ErrorIs(t, err, ErrSelfModification)

	updated, err = svc.Update(ctx, Actor{ID: super.ID, Role: RoleSuperAdmin}, other.ID, UpdateRequest{Role: &promote})
	require.NoError(t, err)
	assert.Equal(t, RoleSuperAdmin, updated.Role)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	super := register(t, svc, "super@example.com", RoleSuperAdmin)
	staff := register(t, svc, "staff@example.com", RoleAdmin)
	actor := Actor{ID: super.ID, Role: RoleSuperAdmin}

	assert.ErrorIs(t, svc.Delete(ctx, actor, super.ID), ErrSelfModification)
	require.NoError(t, svc.Delete(ctx, actor, staff.ID))
	assert.ErrorIs(t, svc.Delete(ctx, actor, staff.ID), booking.ErrNotFound)

	active, err := svc.IsActive(ctx, staff.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestUpdatePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := register(t, svc, "staff@example.com", RoleAdmin)

	_, err := svc.UpdatePassword(ctx, a.ID, "wrong", "newsecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.UpdatePassword(ctx, a.ID, "secret123", "short")
	require.ErrorIs(t, err, booking.ErrValidation)
	assert.Contains(t, booking.Fields(err), "new_password")

	token, err := svc.UpdatePassword(ctx, a.ID, "secret123", "newsecret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "staff@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "staff@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.EnsureDefaultAdmin(ctx, "Root@Example.com", "changeme")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureDefaultAdmin(ctx, "root@example.com", "changeme")
	require.NoError(t, err)
	assert.False(t, created)

	admins, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, RoleSuperAdmin, admins[0].Role)
	assert.Equal(t, "root@example.com", admins[0].Email)
}

// MockAdminRepository stands in for the gorm repository when the store must misbehave.
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, a *Admin) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAdminRepository) GetByID(ctx context.Context, id int64) (*Admin, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*Admin)
	return a, args.Error(1)
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*Admin)
	return a, args.Error(1)
}

func (m *MockAdminRepository) List(ctx context.Context) ([]Admin, error) {
	args := m.Called(ctx)
	admins, _ := args.Get(0).([]Admin)
	return admins, args.Error(1)
}

func (m *MockAdminRepository) Save(ctx context.Context, a *Admin) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAdminRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAdminRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func TestIsActive_LookupError(t *testing.T) {
	repo := new(MockAdminRepository)
	repo.On("GetByID", mock.Anything, int64(1)).Return(nil, errors.New("connection reset"))
	repo.On("GetByID", mock.Anything, int64(2)).Return(nil, booking.ErrNotFound)

	svc := NewService(repo, jwt.New("x", time.Hour))

	_, err := svc.IsActive(context.Background(), 1)
	assert.Error(t, err)

	active, err := svc.IsActive(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, active)

	repo.AssertExpectations(t)
}

func TestLogin_TouchLoginFailureIsNotFatal(t *testing.T) {
	hash, err := hashPassword("secret1")
	require.NoError(t, err)

	repo := new(MockAdminRepository)
	repo.On("GetByEmail", mock.Anything, "desk@example.com").
		Return(&Admin{ID: 7, Email: "desk@example.com", PasswordHash: hash, Role: RoleAdmin, IsActive: true}, nil)
	repo.On("TouchLogin", mock.Anything, int64(7), mock.Anything).Return(errors.New("read-only transaction"))

	var logged []string
	svc := NewService(repo, jwt.New("x", time.Hour))
	svc.loggerf = func(format string, args ...interface{}) { logged = append(logged, format) }

	token, a, err := svc.Login(context.Background(), " Desk@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Nil(t, a.LastLoginAt)
	assert.Contains(t, logged[0], "last login not recorded")

	repo.AssertExpectations(t)
}
