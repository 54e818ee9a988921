package config

import "errors"

var (
	// ErrNilDestination is returned when Load receives a nil pointer.
	ErrNilDestination = errors.New("config: destination must not be nil")
	// ErrParse wraps environment parsing failures.
	ErrParse = errors.New("config: cannot parse environment")
)
