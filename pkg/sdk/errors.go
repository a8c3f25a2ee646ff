package caskbook

import "github.com/kailas-cloud/caskbook/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrWhiskyNotFound     = domain.ErrWhiskyNotFound
	ErrDistilleryNotFound = domain.ErrDistilleryNotFound
	ErrValidation         = domain.ErrValidation
	ErrInvalidArgument    = domain.ErrInvalidArgument
)
