package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	roomDomain "github.com/staybook/service-booking/internal/domain/room"
)

// GormRoomRepository implements room.Repository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID returns a room by ID.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, roomDomain.ErrRoomNotFound
		}
		return nil, err
	}
	return toRoomDomain(&model), nil
}

// Save persists a new room.
func (r *GormRoomRepository) Save(ctx context.Context, room *roomDomain.Room) error {
	model := toRoomModel(room)
	return translateWriteError(r.db.WithContext(ctx).Create(&model).Error)
}

func toRoomModel(r *roomDomain.Room) RoomModel {
	return RoomModel{
		ID:          r.ID,
		Name:        r.Name,
		RoomType:    r.Type,
		NightlyRate: r.NightlyRate,
		Capacity:    r.Capacity,
		Amenities:   r.Amenities,
		IsActive:    r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRoomDomain(m *RoomModel) *roomDomain.Room {
	return &roomDomain.Room{
		ID:          m.ID,
		Name:        m.Name,
		Type:        m.RoomType,
		NightlyRate: m.NightlyRate,
		Capacity:    m.Capacity,
		Amenities:   []string(m.Amenities),
		Active:      m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
