package shopping

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// DeliveryAddress represents a saved delivery address belonging to a user.
// At most one address per user carries IsDefault=true; the repository
// clears the flag on siblings when a new default is chosen.
type DeliveryAddress struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Label     string    `gorm:"type:varchar(50)"`
	City      string    `gorm:"type:varchar(100);not null"`
	Street    string    `gorm:"type:varchar(200);not null"`
	House     string    `gorm:"type:varchar(20);not null"`
	Apartment string    `gorm:"type:varchar(20)"`
	Phone     string    `gorm:"type:varchar(15)"`
	IsDefault bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (DeliveryAddress) TableName() string {
	return "delivery_addresses"
}

// NewDeliveryAddress creates a new delivery address
func NewDeliveryAddress(userID uuid.UUID, city, street, house string) (*DeliveryAddress, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if strings.TrimSpace(city) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}
	if strings.TrimSpace(street) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Street cannot be empty")
	}
	if strings.TrimSpace(house) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "House cannot be empty")
	}

	return &DeliveryAddress{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		City:              strings.TrimSpace(city),
		Street:            strings.TrimSpace(street),
		House:             strings.TrimSpace(house),
	}, nil
}

// Update replaces the address fields
func (a *DeliveryAddress) Update(label, city, street, house, apartment, phone string) error {
	if strings.TrimSpace(city) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}
	if strings.TrimSpace(street) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street cannot be empty")
	}
	if strings.TrimSpace(house) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "House cannot be empty")
	}

	a.Label = strings.TrimSpace(label)
	a.City = strings.TrimSpace(city)
	a.Street = strings.TrimSpace(street)
	a.House = strings.TrimSpace(house)
	a.Apartment = strings.TrimSpace(apartment)
	a.Phone = strings.TrimSpace(phone)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// MarkDefault flags this address as the user's default
func (a *DeliveryAddress) MarkDefault() {
	a.IsDefault = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// ClearDefault removes the default flag
func (a *DeliveryAddress) ClearDefault() {
	a.IsDefault = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// BelongsTo reports whether the address is owned by the given user
func (a *DeliveryAddress) BelongsTo(userID uuid.UUID) bool {
	return a.UserID == userID
}

// String returns a single-line human readable rendering of the address
func (a *DeliveryAddress) String() string {
	parts := []string{a.City, a.Street, a.House}
	if a.Apartment != "" {
		parts = append(parts, "apt. "+a.Apartment)
	}
	return strings.Join(parts, ", ")
}
