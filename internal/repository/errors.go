package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	"github.com/staybook/service-booking/internal/platform/apperror"
)

// PostgreSQL SQLSTATE codes surfaced as domain errors.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

var errDuplicate = apperror.NewConflictError("record already exists")

// translateWriteError maps constraint violations raised by the database to
// domain errors. The bookings_no_overlap exclusion constraint backs the
// availability check made inside the creating transaction.
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return bookingDomain.ErrRoomUnavailable
		case pgUniqueViolation:
			return errDuplicate
		}
	}
	return err
}
