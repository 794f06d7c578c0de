package pricing

import (
	"fmt"
	"strings"

	"github.com/staybook/service-booking/internal/platform/apperror"
)

// ErrUnknownMode is returned when an add-on pricing mode is not recognised.
var ErrUnknownMode = apperror.New(apperror.KindInvalid, "unknown add-on pricing mode")

// Mode determines how an add-on's unit price scales with guests and nights.
type Mode uint8

const (
	ModePerPersonPerNight Mode = iota + 1
	ModePerPerson
	ModeOneTime
	ModePerStay
)

var modeNames = map[Mode]string{
	ModePerPersonPerNight: "per_person_per_night",
	ModePerPerson:         "per_person",
	ModeOneTime:           "one_time",
	ModePerStay:           "per_stay",
}

// ParseMode resolves a mode from its wire name.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// String returns the wire name of the mode.
func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// Price returns the price of a single unit of an add-on for the stay.
func (m Mode) Price(unitPrice int64, guests, nights int) int64 {
	switch m {
	case ModePerPersonPerNight:
		return unitPrice * int64(guests) * int64(nights)
	case ModePerPerson:
		return unitPrice * int64(guests)
	case ModeOneTime, ModePerStay:
		return unitPrice
	}
	panic(fmt.Sprintf("pricing: unhandled mode %d", uint8(m)))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
