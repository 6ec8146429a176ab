package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrConflict     = errors.New("domain: conflict")
	ErrUnauthorized = errors.New("domain: unauthorized")

	// ErrInvalidTransition is returned when a violation lifecycle move is
	// not allowed from the current state. Callers wrap it with the current
	// and attempted states.
	ErrInvalidTransition = errors.New("domain: invalid state transition")

	// ErrInsufficientData means a baseline cannot be computed from the
	// available history. It is handled internally by detectors (skip the
	// metric) and never surfaced to API callers.
	ErrInsufficientData = errors.New("domain: insufficient data for baseline")

	// ErrMalformedRecord means an activity's metrics payload is missing or
	// non-numeric. The record is excluded and the run marked degraded.
	ErrMalformedRecord = errors.New("domain: malformed activity record")

	// ErrStoreUnavailable means the activity store query failed. It aborts
	// the whole detection run: no partial window is better than a wrong one.
	ErrStoreUnavailable = errors.New("domain: activity store unavailable")
)
