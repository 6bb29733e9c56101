// Package app holds the application services and business logic.
package app

//go:generate mockgen -destination=mocks_test.go -package=app_test weightduel/internal/domain EntryRepository,SessionRepository

import "errors"

// Manual entry bounds, in pounds.
const (
	MinWeight = 50.0
	MaxWeight = 500.0
)

var (
	// ErrUnknownUser indicates a user outside the configured pair.
	ErrUnknownUser = errors.New("unknown user")
	// ErrWeightOutOfRange indicates a manual weight outside [MinWeight, MaxWeight].
	ErrWeightOutOfRange = errors.New("weight out of range")
	// ErrInvalidDate indicates a date that could not be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrBadUpload indicates an import stream that could not be read as CSV.
	ErrBadUpload = errors.New("unreadable upload")
	// ErrInvalidUnit indicates a unit other than "lb" or "kg".
	ErrInvalidUnit = errors.New("unit must be \"kg\" or \"lb\"")
)
