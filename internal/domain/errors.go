package domain

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnknownHabit     = errors.New("unknown habit id")
	ErrInvalidIntensity = errors.New("intensity must be between 1 and 5")
	ErrProfileNotFound  = errors.New("profile not found")
)
