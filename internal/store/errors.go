package store

import "errors"

// Sentinel errors returned by the stores. Handlers map these onto HTTP
// statuses; anything else is a storage failure and surfaces as-is.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrDuplicate          = errors.New("already exists")
	ErrInUse              = errors.New("still referenced")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOrderNotPending    = errors.New("order is not pending")
)
