package entity

import "errors"

// Error taxonomy shared by the controllers and the HTTP layer. Controllers
// wrap these with context; the HTTP layer matches with errors.Is and maps
// each to a status code.
var (
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
)
