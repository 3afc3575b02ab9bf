package shopping

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shopping"
)

// AddressService handles delivery address management. At most one
// address per user is the default; the first address becomes the
// default automatically.
type AddressService struct {
	addressRepo shopping.DeliveryAddressRepository
	logger      *zap.Logger
}

// NewAddressService creates a new address service
func NewAddressService(addressRepo shopping.DeliveryAddressRepository, logger *zap.Logger) *AddressService {
	return &AddressService{addressRepo: addressRepo, logger: logger}
}

// List returns the user's addresses, default first
func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error) {
	addresses, err := s.addressRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]AddressResponse, len(addresses))
	for i := range addresses {
		responses[i] = ToAddressResponse(&addresses[i])
	}
	return responses, nil
}

// Create adds a new delivery address
func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	address, err := shopping.NewDeliveryAddress(userID, req.City, req.Street, req.House)
	if err != nil {
		return nil, err
	}
	if err := address.Update(req.Label, req.City, req.Street, req.House, req.Apartment, req.Phone); err != nil {
		return nil, err
	}

	count, err := s.addressRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.IsDefault || count == 0 {
		if err := s.addressRepo.ClearDefaultForUser(ctx, userID); err != nil {
			return nil, err
		}
		address.MarkDefault()
	}

	if err := s.addressRepo.Save(ctx, address); err != nil {
		return nil, err
	}

	resp := ToAddressResponse(address)
	return &resp, nil
}

// Update changes an existing address
func (s *AddressService) Update(ctx context.Context, userID, addressID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	address, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if err := address.Update(req.Label, req.City, req.Street, req.House, req.Apartment, req.Phone); err != nil {
		return nil, err
	}

	if req.IsDefault && !address.IsDefault {
		if err := s.addressRepo.ClearDefaultForUser(ctx, userID); err != nil {
			return nil, err
		}
		address.MarkDefault()
	}

	if err := s.addressRepo.Save(ctx, address); err != nil {
		return nil, err
	}

	resp := ToAddressResponse(address)
	return &resp, nil
}

// SetDefault makes the address the user's default, clearing any other
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}

	if err := s.addressRepo.ClearDefaultForUser(ctx, userID); err != nil {
		return err
	}
	address.MarkDefault()

	return s.addressRepo.Save(ctx, address)
}

// Delete removes an address
func (s *AddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}

	return s.addressRepo.Delete(ctx, address.ID)
}

func (s *AddressService) findOwned(ctx context.Context, userID, addressID uuid.UUID) (*shopping.DeliveryAddress, error) {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if !address.BelongsTo(userID) {
		return nil, shared.ErrForbidden
	}
	return address, nil
}
