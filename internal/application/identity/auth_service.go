package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/notification"
)

// resetTokenTTL bounds how long a password reset token stays redeemable
const resetTokenTTL = 30 * time.Minute

// AuthService handles registration, login and password resets
type AuthService struct {
	userRepo   identity.UserRepository
	scope      TransactionScope
	jwtService *auth.JWTService
	resetStore auth.ResetTokenStore
	notifier   notification.Notifier
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	scope TransactionScope,
	jwtService *auth.JWTService,
	resetStore auth.ResetTokenStore,
	notifier notification.Notifier,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		scope:      scope,
		jwtService: jwtService,
		resetStore: resetStore,
		notifier:   notifier,
		logger:     logger,
	}
}

// Register creates a new account. A supplier account gets its supplier
// profile in the same transaction, named after the company name when
// given, otherwise after the username.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already taken")
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
	}

	user, err := identity.NewUser(req.Username, req.Email, req.Password, identity.UserType(req.UserType))
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := user.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}
	if req.CompanyName != "" {
		if err := user.SetCompanyName(req.CompanyName); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}

		if user.IsSupplier() {
			name := req.CompanyName
			if name == "" {
				name = user.Username
			}
			supplier, err := partner.NewSupplier(user.ID, name)
			if err != nil {
				return err
			}
			return repos.Suppliers().Save(ctx, supplier)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("type", string(user.Type)))

	s.notifier.UserRegistered(ctx, notification.UserRegisteredData{
		Email:    user.Email,
		Username: user.Username,
	})

	return s.authResult(user)
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("login for unknown username", zap.String("username", req.Username))
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Warn("login with wrong password", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	return s.authResult(user)
}

// RequestPasswordReset issues a reset token and mails it to the user.
// An unknown email is not an error so the endpoint does not reveal
// which addresses exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.resetStore.Issue(ctx, user.ID.String(), resetTokenTTL)
	if err != nil {
		return err
	}

	s.logger.Info("password reset token issued", zap.String("user_id", user.ID.String()))

	s.notifier.PasswordReset(ctx, notification.PasswordResetData{
		Email:    user.Email,
		Username: user.Username,
		Token:    token,
		TTL:      resetTokenTTL,
	})

	return nil
}

// ConfirmPasswordReset redeems a reset token and sets the new password
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req PasswordResetConfirm) error {
	userID, err := s.resetStore.Consume(ctx, req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrResetTokenNotFound) {
			return shared.NewDomainError("INVALID_RESET_TOKEN", "Reset token is invalid or expired")
		}
		return err
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return shared.NewDomainError("INVALID_RESET_TOKEN", "Reset token is invalid or expired")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset completed", zap.String("user_id", user.ID.String()))

	return nil
}

func (s *AuthService) authResult(user *identity.User) (*AuthResult, error) {
	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		UserType: string(user.Type),
	})
	if err != nil {
		s.logger.Error("failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	return &AuthResult{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserInfo(user),
	}, nil
}
