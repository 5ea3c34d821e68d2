package service

import (
	"context"
	"errors"
	"fmt"

	"binday/internal/application/dto"
	"binday/internal/domain/entity"
	"binday/internal/domain/repository"
	appErrors "binday/internal/pkg/errors"
	"binday/internal/pkg/logger"
)

type addressService struct {
	archive repository.ArchiveRepository
	log     logger.Logger
}

// NewAddressService creates a new instance of the AddressService
// implementation.
func NewAddressService(archive repository.ArchiveRepository, log logger.Logger) AddressService {
	return &addressService{archive: archive, log: log}
}

// Get returns the configured address.
func (s *addressService) Get(ctx context.Context) (entity.Address, error) {
	var address entity.Address
	if err := s.archive.Load(ctx, repository.ArchiveKey(repository.ArchiveNameAddress), &address); err != nil {
		return entity.Address{}, err
	}
	return address, nil
}

// Set persists the address and reports whether it changed.
func (s *addressService) Set(ctx context.Context, req dto.SetAddressRequest) (bool, error) {
	current, err := s.Get(ctx)
	if err != nil && !errors.Is(err, appErrors.ErrDataUnavailable) {
		return false, err
	}

	next := entity.Address{ID: req.ID, Title: req.Title}
	if err == nil && current == next {
		return false, nil
	}
	if err := s.archive.Save(ctx, repository.ArchiveKey(repository.ArchiveNameAddress), next); err != nil {
		return false, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Address set to %q (location %d)", next.Title, next.ID))
	return true, nil
}
