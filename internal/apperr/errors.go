package apperr

import "errors"

var (
	ErrDocsDirNotFound  = errors.New("docs directory not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
)
