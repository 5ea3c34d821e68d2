package service

import (
	"context"

	"binday/internal/application/dto"
	"binday/internal/domain/entity"
)

// AddressService owns the configured address. Changing the address is what
// invalidates the schedule cache; that orchestration lives with the caller.
type AddressService interface {
	// Get returns the configured address, or ErrDataUnavailable when none is
	// set yet.
	Get(ctx context.Context) (entity.Address, error)
	// Set persists the address. Returns true when the address actually
	// changed, so the caller knows to wipe the cached schedule.
	Set(ctx context.Context, req dto.SetAddressRequest) (changed bool, err error)
}
