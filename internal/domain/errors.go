package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrBottleNotFound signals a missing bottle (or one owned by another user).
	ErrBottleNotFound = errors.New("bottle not found")
	// ErrWhiskyNotFound signals a missing reference whisky.
	ErrWhiskyNotFound = errors.New("whisky not found")
	// ErrDistilleryNotFound signals a missing reference distillery.
	ErrDistilleryNotFound = errors.New("distillery not found")
	// ErrWishlistItemNotFound signals a missing wishlist item.
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	// ErrUserNotFound signals a missing user account.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmailTaken signals a registration with an email that is already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidArgument signals a programmer error, e.g. ranking with k < 1.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrValidation signals invalid user input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized signals a missing or invalid access token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials signals a wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoFlavorProfile signals that a bottle has no usable flavor profile.
	ErrNoFlavorProfile = errors.New("bottle has no flavor profile")
	// ErrSuggestProviderError signals a flavor suggestion provider failure.
	ErrSuggestProviderError = errors.New("flavor suggestion provider error")
	// ErrSuggestQuotaExceeded signals an exhausted suggestion token budget.
	ErrSuggestQuotaExceeded = errors.New("flavor suggestion quota exceeded")
	// ErrNotImplemented signals a disabled or unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// FieldError wraps ErrValidation with the offending field name.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// NewFieldError creates a validation error for a single field.
func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
