// Package common defines shared sentinel errors used across keepup
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store and lookup errors.
	ErrNotFound = errors.New("not found")

	// Caller-supplied data rejected before any remote call. Never retried
	// automatically.
	ErrValidation = errors.New("validation error")

	// Remote provider or network failure. The whole operation is safe to
	// retry unless paired with ErrInconsistentState.
	ErrUnavailable = errors.New("upstream unavailable")

	// A remote mutation succeeded but local persistence did not. Requires a
	// corrective re-sync, not a blind retry.
	ErrInconsistentState = errors.New("inconsistent state")

	// Identity provider outcomes.
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNoLinkedAccount = errors.New("no linked google account")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
