package usecase

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrSourceUnavailable    = errors.New("standings source unavailable")
	ErrConfigurationMissing = errors.New("configuration missing")
)
