package persistence

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// referenceAttempts bounds how often a save is retried with a freshly
// generated human-facing reference after a duplicate key error.
const referenceAttempts = 3

// isUniqueViolation reports whether err is a duplicate key error,
// either GORM's translated form or the raw postgres 23505.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// retryOnUniqueViolation runs save, regenerating the colliding
// reference and trying again while the database reports a duplicate
// key, up to attempts tries. Any other error returns immediately.
func retryOnUniqueViolation(attempts int, regenerate func(), save func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			regenerate()
		}
		if err = save(); err == nil || !isUniqueViolation(err) {
			return err
		}
	}
	return err
}
