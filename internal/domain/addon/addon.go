// Package addon holds the catalog of extras that can be attached to a stay.
package addon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/domain/pricing"
	"github.com/staybook/service-booking/internal/platform/apperror"
)

var (
	ErrAddOnNotFound = apperror.New(apperror.KindNotFound, "add-on not found")
	ErrInvalidAddOn  = apperror.New(apperror.KindInvalid, "invalid add-on")
)

// AddOn is a catalog entry.
type AddOn struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Mode      pricing.Mode
	UnitPrice int64
	Active    bool
	CreatedAt time.Time
}

// NormalizeCode canonicalises add-on codes (lower snake case).
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// New creates an active catalog entry.
func New(code, name string, mode pricing.Mode, unitPrice int64) (*AddOn, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidAddOn)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %v", pricing.ErrUnknownMode, mode)
	}
	if unitPrice < 0 {
		return nil, fmt.Errorf("%w: unit price cannot be negative", ErrInvalidAddOn)
	}
	if strings.TrimSpace(name) == "" {
		name = code
	}
	return &AddOn{
		ID:        uuid.New(),
		Code:      code,
		Name:      strings.TrimSpace(name),
		Mode:      mode,
		UnitPrice: unitPrice,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Select turns the catalog entry into a priced selection.
func (a *AddOn) Select(quantity int) pricing.Selection {
	return pricing.Selection{
		Code:      a.Code,
		Name:      a.Name,
		Mode:      a.Mode,
		UnitPrice: a.UnitPrice,
		Quantity:  quantity,
	}
}

// Repository is the persistence port for the add-on catalog.
type Repository interface {
	Save(ctx context.Context, a *AddOn) error
	// FindActiveByCodes returns active add-ons keyed by code.
	FindActiveByCodes(ctx context.Context, codes []string) (map[string]*AddOn, error)
	ListActive(ctx context.Context) ([]*AddOn, error)
}
