package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidSnapshot = errors.New("invalid timer snapshot")
)
