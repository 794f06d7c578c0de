package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Name        string                      `gorm:"type:varchar(120);not null"`
	RoomType    string                      `gorm:"type:varchar(50)"`
	NightlyRate int64                       `gorm:"not null"`
	Capacity    int                         `gorm:"not null"`
	Amenities   datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	IsActive    bool                        `gorm:"not null"`
	CreatedAt   time.Time                   `gorm:"not null"`
	UpdatedAt   time.Time                   `gorm:"not null"`
}

// TableName sets the table name.
func (RoomModel) TableName() string { return "rooms" }

// AddOnModel is the GORM model for the add_ons catalog table.
type AddOnModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Mode      string    `gorm:"type:varchar(30);not null"`
	UnitPrice int64     `gorm:"not null"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (AddOnModel) TableName() string { return "add_ons" }

// CouponModel is the GORM model for the coupons table.
type CouponModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code          string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	DiscountType  string    `gorm:"type:varchar(20);not null"`
	DiscountValue int64     `gorm:"not null"`
	MinOrderValue int64     `gorm:"not null;default:0"`
	MaxDiscount   int64     `gorm:"not null;default:0"`
	ExpiresAt     time.Time `gorm:"not null"`
	UsageLimit    int       `gorm:"not null;default:0"`
	UsedCount     int       `gorm:"not null;default:0"`
	IsActive      bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (CouponModel) TableName() string { return "coupons" }

// BookingModel is the GORM persistence model for the bookings table.
type BookingModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RoomID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	CheckIn       time.Time  `gorm:"not null"`
	CheckOut      time.Time  `gorm:"not null"`
	Adults        int        `gorm:"not null"`
	Children      int        `gorm:"not null"`
	YoungChildren int        `gorm:"not null"`
	CouponID      *uuid.UUID `gorm:"type:uuid"`
	CouponCode    string     `gorm:"type:varchar(50)"`
	BasePrice     int64      `gorm:"not null"`
	AddOnTotal    int64      `gorm:"not null"`
	Discount      int64      `gorm:"not null"`
	TotalPrice    int64      `gorm:"not null"`
	Currency      string     `gorm:"type:varchar(3);not null"`
	Status        string     `gorm:"type:varchar(20);not null;index"`
	PaymentStatus string     `gorm:"type:varchar(20);not null"`
	CancelledAt   *time.Time
	Version       int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM.
func (BookingModel) TableName() string { return "bookings" }

// BookingAddOnModel is a priced add-on line of a booking.
type BookingAddOnModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code      string    `gorm:"type:varchar(50);not null"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Mode      string    `gorm:"type:varchar(30);not null"`
	UnitPrice int64     `gorm:"not null"`
	Quantity  int       `gorm:"not null"`
	LineTotal int64     `gorm:"not null"`
}

// TableName specifies the table name for GORM.
func (BookingAddOnModel) TableName() string { return "booking_add_ons" }

// AllModels lists every model managed by AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&RoomModel{}, &AddOnModel{}, &CouponModel{}, &BookingModel{}, &BookingAddOnModel{},
	}
}
