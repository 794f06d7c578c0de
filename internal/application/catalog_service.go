package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	addonDomain "github.com/staybook/service-booking/internal/domain/addon"
	"github.com/staybook/service-booking/internal/domain/pricing"
	roomDomain "github.com/staybook/service-booking/internal/domain/room"
)

// CatalogService manages rooms and the add-on catalog.
type CatalogService struct {
	rooms  roomDomain.Repository
	addOns addonDomain.Repository
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(rooms roomDomain.Repository, addOns addonDomain.Repository, logger *zap.Logger) *CatalogService {
	return &CatalogService{rooms: rooms, addOns: addOns, logger: logger}
}

// CreateRoom adds a room (admin only).
func (s *CatalogService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomDTO, error) {
	r, err := roomDomain.New(req.Name, req.Type, req.NightlyRate, req.Capacity, req.Amenities)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	s.logger.Info("room created", zap.String("room_id", r.ID.String()), zap.Int64("nightly_rate", r.NightlyRate))
	return toRoomDTO(r), nil
}

// GetRoom returns a room by ID.
func (s *CatalogService) GetRoom(ctx context.Context, id uuid.UUID) (*RoomDTO, error) {
	r, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRoomDTO(r), nil
}

// CreateAddOn adds an entry to the add-on catalog (admin only).
func (s *CatalogService) CreateAddOn(ctx context.Context, req CreateAddOnRequest) (*AddOnDTO, error) {
	mode, err := pricing.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	a, err := addonDomain.New(req.Code, req.Name, mode, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := s.addOns.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save add-on: %w", err)
	}
	s.logger.Info("add-on created", zap.String("code", a.Code), zap.String("mode", a.Mode.String()))
	return toAddOnDTO(a), nil
}

// ListAddOns returns the active catalog.
func (s *CatalogService) ListAddOns(ctx context.Context) ([]*AddOnDTO, error) {
	addOns, err := s.addOns.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]*AddOnDTO, len(addOns))
	for i, a := range addOns {
		dtos[i] = toAddOnDTO(a)
	}
	return dtos, nil
}
