package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
)

// RegisterRequest represents an account registration
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=150"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	UserType    string `json:"user_type" binding:"required,oneof=customer supplier"`
	Phone       string `json:"phone" binding:"omitempty,max=15"`
	CompanyName string `json:"company_name" binding:"omitempty,max=100"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PasswordResetRequest asks for a reset token to be mailed
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirm redeems a reset token for a new password
type PasswordResetConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UpdateProfileRequest updates mutable account fields. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	Phone       *string `json:"phone" binding:"omitempty"`
	Address     *string `json:"address" binding:"omitempty"`
	CompanyName *string `json:"company_name" binding:"omitempty"`
}

// UserInfo represents an account in API responses
type UserInfo struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Type              string    `json:"type"`
	Phone             string    `json:"phone,omitempty"`
	Address           string    `json:"address,omitempty"`
	CompanyName       string    `json:"company_name,omitempty"`
	IsAcceptingOrders bool      `json:"is_accepting_orders"`
	CreatedAt         time.Time `json:"created_at"`
}

// AuthResult is returned by login and registration
type AuthResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserInfo  `json:"user"`
}

// ToUserInfo converts a domain user to its API representation
func ToUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		Type:              string(user.Type),
		Phone:             user.Phone,
		Address:           user.Address,
		CompanyName:       user.CompanyName,
		IsAcceptingOrders: user.IsAcceptingOrders,
		CreatedAt:         user.CreatedAt,
	}
}
