package room

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/apperror"
)

var (
	ErrRoomNotFound = apperror.New(apperror.KindNotFound, "room not found")
	ErrRoomInactive = apperror.New(apperror.KindInvalid, "room is not available for booking")
	ErrInvalidRoom  = apperror.New(apperror.KindInvalid, "invalid room")
)

// Room is a bookable unit. Its rate and capacity do not change while a
// booking references it.
type Room struct {
	ID          uuid.UUID
	Name        string
	Type        string
	NightlyRate int64
	Capacity    int
	Amenities   []string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New validates and creates an active room.
func New(name, roomType string, nightlyRate int64, capacity int, amenities []string) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRoom)
	}
	if nightlyRate <= 0 {
		return nil, fmt.Errorf("%w: nightly rate must be positive", ErrInvalidRoom)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", ErrInvalidRoom)
	}
	now := time.Now().UTC()
	return &Room{
		ID:          uuid.New(),
		Name:        name,
		Type:        strings.TrimSpace(roomType),
		NightlyRate: nightlyRate,
		Capacity:    capacity,
		Amenities:   normalizeAmenities(amenities),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Repository is the persistence port for rooms.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	Save(ctx context.Context, r *Room) error
}

func normalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
