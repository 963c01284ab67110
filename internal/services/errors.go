package services

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers
var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("operation not allowed")
	ErrInvalidRatingValue = errors.New("rating value must be between 1 and 10")
	ErrInvalidPosition    = errors.New("position must be one of GK, DF, MF, FW")
	ErrInvalidMediaType   = errors.New("media type must be gif or tweet")
	ErrEmptyContent       = errors.New("content is required")
	ErrUsernameTaken      = errors.New("username already exists")
)
