package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appidentity "github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/notification"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authEnv struct {
	db           *gorm.DB
	mailer       *notification.RecordingMailer
	notifier     *notification.EmailNotifier
	jwtService   *auth.JWTService
	resetStore   *auth.InMemoryResetTokenStore
	authSvc      *appidentity.AuthService
	userSvc      *appidentity.UserService
	userRepo     identity.UserRepository
	supplierRepo partner.SupplierRepository
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&identity.User{}, &partner.Supplier{}))

	env := &authEnv{
		db:           db,
		mailer:       notification.NewRecordingMailer(),
		resetStore:   auth.NewInMemoryResetTokenStore(),
		userRepo:     persistence.NewGormUserRepository(db),
		supplierRepo: persistence.NewGormSupplierRepository(db),
	}
	env.notifier = notification.NewEmailNotifier(env.mailer, zap.NewNop())
	env.jwtService = auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-for-auth-service",
		TokenExpiration: time.Hour,
		Issuer:          "marketplace-test",
	})

	scope := persistence.NewGormIdentityTransactionScope(db)
	env.authSvc = appidentity.NewAuthService(env.userRepo, scope, env.jwtService, env.resetStore, env.notifier, zap.NewNop())
	env.userSvc = appidentity.NewUserService(env.userRepo, zap.NewNop())

	return env
}

func registerRequest(userType string) appidentity.RegisterRequest {
	return appidentity.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		UserType: userType,
	}
}

func TestAuthService_RegisterCustomer(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	result, err := env.authSvc.Register(ctx, registerRequest("customer"))
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, "customer", result.User.Type)

	claims, err := env.jwtService.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.String(), claims.UserID)
	assert.Equal(t, "customer", claims.UserType)

	// no supplier profile for customers
	_, err = env.supplierRepo.FindByUserID(ctx, result.User.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	env.notifier.Wait()
	require.Len(t, env.mailer.Sent(), 1)
	assert.Equal(t, "alice@example.com", env.mailer.Sent()[0].To)
}

func TestAuthService_RegisterSupplierCreatesProfile(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	req := registerRequest("supplier")
	req.CompanyName = "Acme Tools"

	result, err := env.authSvc.Register(ctx, req)
	require.NoError(t, err)

	supplier, err := env.supplierRepo.FindByUserID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Tools", supplier.Name)
}

func TestAuthService_RegisterSupplierDefaultsProfileName(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	result, err := env.authSvc.Register(ctx, registerRequest("supplier"))
	require.NoError(t, err)

	supplier, err := env.supplierRepo.FindByUserID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", supplier.Name)
}

func TestAuthService_RegisterRejectsDuplicates(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	_, err := env.authSvc.Register(ctx, registerRequest("customer"))
	require.NoError(t, err)

	t.Run("duplicate username", func(t *testing.T) {
		req := registerRequest("customer")
		req.Email = "other@example.com"
		_, err := env.authSvc.Register(ctx, req)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "USERNAME_TAKEN", domainErr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		req := registerRequest("customer")
		req.Username = "bob"
		_, err := env.authSvc.Register(ctx, req)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	})
}

func TestAuthService_Login(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	_, err := env.authSvc.Register(ctx, registerRequest("customer"))
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := env.authSvc.Login(ctx, appidentity.LoginRequest{Username: "alice", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "alice", result.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.authSvc.Login(ctx, appidentity.LoginRequest{Username: "alice", Password: "wrong-password"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := env.authSvc.Login(ctx, appidentity.LoginRequest{Username: "nobody", Password: "password123"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	result, err := env.authSvc.Register(ctx, registerRequest("customer"))
	require.NoError(t, err)
	env.notifier.Wait()
	registrationMails := len(env.mailer.Sent())

	require.NoError(t, env.authSvc.RequestPasswordReset(ctx, appidentity.PasswordResetRequest{Email: "alice@example.com"}))
	env.notifier.Wait()
	require.Len(t, env.mailer.Sent(), registrationMails+1)

	token, err := env.resetStore.Issue(ctx, result.User.ID.String(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, env.authSvc.ConfirmPasswordReset(ctx, appidentity.PasswordResetConfirm{
		Token:       token,
		NewPassword: "newpassword456",
	}))

	_, err = env.authSvc.Login(ctx, appidentity.LoginRequest{Username: "alice", Password: "password123"})
	assert.Error(t, err)

	_, err = env.authSvc.Login(ctx, appidentity.LoginRequest{Username: "alice", Password: "newpassword456"})
	assert.NoError(t, err)
}

func TestAuthService_PasswordResetUnknownEmailIsSilent(t *testing.T) {
	env := newAuthEnv(t)

	err := env.authSvc.RequestPasswordReset(context.Background(), appidentity.PasswordResetRequest{Email: "ghost@example.com"})
	require.NoError(t, err)

	env.notifier.Wait()
	assert.Empty(t, env.mailer.Sent())
}

func TestAuthService_ConfirmPasswordResetInvalidToken(t *testing.T) {
	env := newAuthEnv(t)

	err := env.authSvc.ConfirmPasswordReset(context.Background(), appidentity.PasswordResetConfirm{
		Token:       "bogus",
		NewPassword: "newpassword456",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_RESET_TOKEN", domainErr.Code)
}

func TestUserService_UpdateProfile(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	result, err := env.authSvc.Register(ctx, registerRequest("customer"))
	require.NoError(t, err)

	phone := "+1234567890"
	address := "42 Main St"
	info, err := env.userSvc.UpdateProfile(ctx, result.User.ID, appidentity.UpdateProfileRequest{
		Phone:   &phone,
		Address: &address,
	})
	require.NoError(t, err)
	assert.Equal(t, phone, info.Phone)
	assert.Equal(t, address, info.Address)

	reloaded, err := env.userSvc.GetProfile(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, phone, reloaded.Phone)
}

func TestUserService_ToggleAcceptingOrders(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	req := registerRequest("supplier")
	result, err := env.authSvc.Register(ctx, req)
	require.NoError(t, err)

	accepting, err := env.userSvc.ToggleAcceptingOrders(ctx, result.User.ID)
	require.NoError(t, err)
	assert.False(t, accepting)

	accepting, err = env.userSvc.ToggleAcceptingOrders(ctx, result.User.ID)
	require.NoError(t, err)
	assert.True(t, accepting)
}

func TestUserService_ToggleAcceptingOrdersCustomerRejected(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	result, err := env.authSvc.Register(ctx, registerRequest("customer"))
	require.NoError(t, err)

	_, err = env.userSvc.ToggleAcceptingOrders(ctx, result.User.ID)
	assert.Error(t, err)
}

func TestUserService_GetProfileUnknownUser(t *testing.T) {
	env := newAuthEnv(t)

	_, err := env.userSvc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
