package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/service"
	"sleekinvoices/mocks"
)

func TestAuthService_LoginSuccess(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenant := &domain.Tenant{ID: uuid.New(), Name: "Acme", Slug: "acme", IsActive: true}
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        "owner@acme.test",
		PasswordHash: hashPassword(t, "sup3r-secret"),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}

	tenantRepo.On("GetBySlug", mock.Anything, "acme").Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenant.ID, "owner@acme.test").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "acme",
		Email:      "Owner@acme.test",
		Password:   "sup3r-secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, claims.TenantID)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	// A refresh token must never pass as an access token.
	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)

	tenantRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenant := &domain.Tenant{ID: uuid.New(), Slug: "acme", IsActive: true}
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        "owner@acme.test",
		PasswordHash: hashPassword(t, "correct-password"),
		IsActive:     true,
	}

	tenantRepo.On("GetBySlug", mock.Anything, "acme").Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenant.ID, "owner@acme.test").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "acme",
		Email:      "owner@acme.test",
		Password:   "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_LoginUnknownTenant(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenantRepo.On("GetBySlug", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	// Unknown tenant and bad password are indistinguishable to the caller.
	_, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "ghost",
		Email:      "owner@ghost.test",
		Password:   "whatever-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_LoginInactiveTenant(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenant := &domain.Tenant{ID: uuid.New(), Slug: "closed", IsActive: false}
	tenantRepo.On("GetBySlug", mock.Anything, "closed").Return(tenant, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "closed",
		Email:      "owner@closed.test",
		Password:   "whatever-1",
	})
	assert.ErrorIs(t, err, domain.ErrTenantInactive)
	userRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_SignupCreatesWorkspaceAdmin(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenantID := uuid.New()
	var created *domain.User

	tenantRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Tenant")).
		Run(func(args mock.Arguments) {
			tenant := args.Get(1).(*domain.Tenant)
			tenant.ID = tenantID
		}).Return(nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.User)
			created.ID = uuid.New()
		}).Return(nil)

	pair, err := svc.Signup(context.Background(), service.SignupInput{
		WorkspaceName: "Acme Design",
		WorkspaceSlug: "Acme-Design",
		FullName:      "Jordan Doe",
		Email:         "Jordan@Acme.test",
		Password:      "sup3r-secret",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, tenantID, created.TenantID)
	assert.Equal(t, "jordan@acme.test", created.Email)
	assert.Equal(t, domain.RoleAdmin, created.Role)
	assert.True(t, created.IsActive)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenantID, claims.TenantID)

	tenantRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestAuthService_RefreshToken(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenant := &domain.Tenant{ID: uuid.New(), Slug: "acme", IsActive: true}
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        "owner@acme.test",
		PasswordHash: hashPassword(t, "sup3r-secret"),
		IsActive:     true,
	}

	tenantRepo.On("GetBySlug", mock.Anything, "acme").Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenant.ID, "owner@acme.test").Return(user, nil)
	userRepo.On("GetByID", mock.Anything, tenant.ID, user.ID).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "acme",
		Email:      "owner@acme.test",
		Password:   "sup3r-secret",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not a valid refresh token.
	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
