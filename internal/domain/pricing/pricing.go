// Package pricing computes stay prices: occupancy-adjusted base price, add-on
// lines and coupon discounts. All amounts are integer minor currency units.
package pricing

import (
	"fmt"
	"time"

	"github.com/staybook/service-booking/internal/platform/apperror"
)

// MinorPerUnit is the number of minor units in one whole currency unit.
const MinorPerUnit = 100

var (
	ErrInvalidGuests    = apperror.New(apperror.KindInvalid, "invalid guest counts")
	ErrCapacityExceeded = apperror.New(apperror.KindInvalid, "guest count exceeds room capacity")
	ErrInvalidQuantity  = apperror.New(apperror.KindInvalid, "add-on quantity must be positive")
	ErrInvalidStay      = apperror.New(apperror.KindInvalid, "stay must be at least one night")
)

// GuestCounts holds the occupancy of a stay. Young children are not billed.
type GuestCounts struct {
	Adults        int `json:"adults"`
	Children      int `json:"children"`
	YoungChildren int `json:"youngChildren"`
}

// Billable returns the number of guests that count towards pricing.
func (g GuestCounts) Billable() int {
	return g.Adults + g.Children
}

// Validate checks the counts against a room capacity. A capacity of zero
// disables the capacity check.
func (g GuestCounts) Validate(capacity int) error {
	if g.Adults < 1 || g.Children < 0 || g.YoungChildren < 0 {
		return fmt.Errorf("%w: at least one adult is required", ErrInvalidGuests)
	}
	if capacity > 0 && g.Billable() > capacity {
		return fmt.Errorf("%w: %d guests, capacity %d", ErrCapacityExceeded, g.Billable(), capacity)
	}
	return nil
}

// GuestMultiplier is 1 for a single guest plus 0.5 for each additional billable guest.
func GuestMultiplier(g GuestCounts) float64 {
	extra := g.Billable() - 1
	if extra < 0 {
		extra = 0
	}
	return 1 + float64(extra)*0.5
}

// BasePrice returns nights * nightlyRate * GuestMultiplier rounded half-up to
// the nearest whole currency unit. Integer arithmetic keeps the result exact.
func BasePrice(nightlyRate int64, nights int, g GuestCounts) int64 {
	billable := g.Billable()
	if billable < 1 {
		billable = 1
	}
	// multiplier = (billable + 1) / 2
	num := nightlyRate * int64(nights) * int64(billable+1)
	const half = 2 * MinorPerUnit
	return (num + half/2) / half * MinorPerUnit
}

// Selection is an add-on picked for a stay.
type Selection struct {
	Code      string
	Name      string
	Mode      Mode
	UnitPrice int64
	Quantity  int
}

// Line is a priced add-on.
type Line struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Mode      Mode   `json:"mode"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Total     int64  `json:"total"`
}

// PriceAddOns prices every selection. A zero quantity counts as one.
func PriceAddOns(selections []Selection, g GuestCounts, nights int) ([]Line, int64, error) {
	lines := make([]Line, 0, len(selections))
	var total int64
	for _, s := range selections {
		if !s.Mode.Valid() {
			return nil, 0, fmt.Errorf("%w: add-on %s", ErrUnknownMode, s.Code)
		}
		qty := s.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return nil, 0, fmt.Errorf("%w: add-on %s", ErrInvalidQuantity, s.Code)
		}
		line := Line{
			Code:      s.Code,
			Name:      s.Name,
			Mode:      s.Mode,
			UnitPrice: s.UnitPrice,
			Quantity:  qty,
			Total:     s.Mode.Price(s.UnitPrice, g.Billable(), nights) * int64(qty),
		}
		lines = append(lines, line)
		total += line.Total
	}
	return lines, total, nil
}

// Discounter computes a discount for an order amount at a point in time.
type Discounter interface {
	Code() string
	Discount(orderAmount int64, now time.Time) (int64, error)
}

// Input gathers everything needed to price a stay.
type Input struct {
	NightlyRate int64
	Guests      GuestCounts
	Nights      int
	AddOns      []Selection
	Coupon      Discounter
}

// Quote is a full price breakdown.
type Quote struct {
	Nights          int     `json:"nights"`
	GuestMultiplier float64 `json:"guestMultiplier"`
	BasePrice       int64   `json:"basePrice"`
	AddOns          []Line  `json:"addOns"`
	AddOnTotal      int64   `json:"addOnTotal"`
	OrderAmount     int64   `json:"orderAmount"`
	CouponCode      string  `json:"couponCode,omitempty"`
	Discount        int64   `json:"discount"`
	Total           int64   `json:"total"`
}

// Compute prices a stay. now is only consulted for the coupon expiry check.
func Compute(in Input, now time.Time) (Quote, error) {
	if in.Nights < 1 {
		return Quote{}, ErrInvalidStay
	}
	lines, addOnTotal, err := PriceAddOns(in.AddOns, in.Guests, in.Nights)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Nights:          in.Nights,
		GuestMultiplier: GuestMultiplier(in.Guests),
		BasePrice:       BasePrice(in.NightlyRate, in.Nights, in.Guests),
		AddOns:          lines,
		AddOnTotal:      addOnTotal,
	}
	q.OrderAmount = q.BasePrice + q.AddOnTotal

	if in.Coupon != nil {
		discount, err := in.Coupon.Discount(q.OrderAmount, now)
		if err != nil {
			return Quote{}, err
		}
		q.CouponCode = in.Coupon.Code()
		q.Discount = discount
	}

	q.Total = q.OrderAmount - q.Discount
	if q.Total < 0 {
		q.Total = 0
	}
	return q, nil
}
