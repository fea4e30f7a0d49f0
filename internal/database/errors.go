package database

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrSeatsUnavailable is returned when a seat adjustment would drive the
	// available seat count below zero or above the aircraft capacity.
	ErrSeatsUnavailable = errors.New("not enough seats available")
)

// IsUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation (duplicate key).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
