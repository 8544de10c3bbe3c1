package domain

import (
	"errors"
	"fmt"
)

// Business-rule outcomes returned as typed errors.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("already exists")
	ErrNotFound         = errors.New("not found")
	ErrExpired          = errors.New("link expired")
	ErrForbidden        = errors.New("forbidden")
	ErrExhausted        = errors.New("slug retry limit exceeded")
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrDuplicateKey is the store-level uniqueness violation. The service
	// layer maps it to ErrConflict or retries, depending on the operation.
	ErrDuplicateKey = errors.New("duplicate key")
)

// DuplicateKeyError reports which active-set uniqueness constraint an insert
// violated, so the slug-collision retry can tell a slug race from a URL race.
type DuplicateKeyError struct {
	Field string // "slug" or "original_url"
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on %s", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// ConflictError carries the already-shortened record so callers can show it
// instead of creating a duplicate.
type ConflictError struct {
	Existing *Link
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("original url already shortened as %q", e.Existing.Slug)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsExpired(err error) bool { return errors.Is(err, ErrExpired) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
