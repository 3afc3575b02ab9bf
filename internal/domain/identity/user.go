package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserType distinguishes buyers from sellers
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeSupplier UserType = "supplier"
)

// IsValid checks if the user type is valid
func (t UserType) IsValid() bool {
	return t == UserTypeCustomer || t == UserTypeSupplier
}

// Password cost for bcrypt
const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents an account in the marketplace.
// It is the aggregate root for account-related operations.
type User struct {
	shared.BaseAggregateRoot
	Username     string   `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string   `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string   `gorm:"type:varchar(128);not null"`
	Type         UserType `gorm:"type:varchar(10);not null;default:'customer';index"`
	Phone        string   `gorm:"type:varchar(15)"`
	Address      string   `gorm:"type:text"`

	// Supplier-only fields
	CompanyName       string `gorm:"type:varchar(100)"`
	IsAcceptingOrders bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user account
func NewUser(username, email, password string, userType UserType) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !userType.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER_TYPE", "User type must be customer or supplier")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		Type:              userType,
		IsAcceptingOrders: true,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// IsSupplier returns true if the account belongs to a supplier
func (u *User) IsSupplier() bool {
	return u.Type == UserTypeSupplier
}

// CheckPassword verifies the given password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetPhone sets the user's phone number
func (u *User) SetPhone(phone string) error {
	if phone != "" && len(phone) > 15 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 15 characters")
	}

	u.Phone = strings.TrimSpace(phone)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetAddress sets the user's free-form contact address
func (u *User) SetAddress(address string) {
	u.Address = strings.TrimSpace(address)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// SetCompanyName sets the supplier's company name
func (u *User) SetCompanyName(name string) error {
	if !u.IsSupplier() {
		return shared.NewDomainError("NOT_A_SUPPLIER", "Only supplier accounts have a company name")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 100 characters")
	}

	u.CompanyName = strings.TrimSpace(name)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ToggleAcceptingOrders flips the supplier's order-intake flag
func (u *User) ToggleAcceptingOrders() error {
	if !u.IsSupplier() {
		return shared.NewDomainError("NOT_A_SUPPLIER", "Only supplier accounts accept orders")
	}

	u.IsAcceptingOrders = !u.IsAcceptingOrders
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// DisplayName returns the company name for suppliers when set, otherwise the username
func (u *User) DisplayName() string {
	if u.CompanyName != "" {
		return u.CompanyName
	}
	return u.Username
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// validateUsername validates the username
func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 150 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 150 characters")
	}
	for _, r := range username {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '.' || r == '-') {
			return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, dots, underscores, and hyphens")
		}
	}
	return nil
}

// validateEmail validates the email address
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return nil
}

// validatePassword validates password strength
func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates inputs beyond 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
