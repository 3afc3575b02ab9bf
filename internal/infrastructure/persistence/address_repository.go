package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shopping"
	"gorm.io/gorm"
)

// GormDeliveryAddressRepository implements DeliveryAddressRepository using GORM
type GormDeliveryAddressRepository struct {
	db *gorm.DB
}

// NewGormDeliveryAddressRepository creates a new GormDeliveryAddressRepository
func NewGormDeliveryAddressRepository(db *gorm.DB) *GormDeliveryAddressRepository {
	return &GormDeliveryAddressRepository{db: db}
}

// FindByID finds an address by its ID
func (r *GormDeliveryAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.DeliveryAddress, error) {
	var address shopping.DeliveryAddress
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

// FindByUser finds all addresses belonging to a user, default first
func (r *GormDeliveryAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]shopping.DeliveryAddress, error) {
	var addresses []shopping.DeliveryAddress
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// CountByUser counts addresses belonging to a user
func (r *GormDeliveryAddressRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&shopping.DeliveryAddress{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an address
func (r *GormDeliveryAddressRepository) Save(ctx context.Context, address *shopping.DeliveryAddress) error {
	return r.db.WithContext(ctx).Save(address).Error
}

// Delete deletes an address
func (r *GormDeliveryAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&shopping.DeliveryAddress{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearDefaultForUser clears the default flag on all of a user's addresses
func (r *GormDeliveryAddressRepository) ClearDefaultForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&shopping.DeliveryAddress{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

// Ensure GormDeliveryAddressRepository implements DeliveryAddressRepository
var _ shopping.DeliveryAddressRepository = (*GormDeliveryAddressRepository)(nil)
