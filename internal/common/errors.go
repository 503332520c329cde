// Package common defines shared constants and sentinel errors used across
// the backend layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors. Wrap with field context where it matters.
	ErrorValidation = errors.New("validation error")

	// Registration guard rejections.
	ErrIPBlocked          = errors.New("registration from this address is blocked")
	ErrEmailAlreadyTaken  = errors.New("email already registered")
	ErrAccountNotApproved = errors.New("account not approved")

	// Payment provider failures (declines and transport errors alike).
	ErrPaymentProvider = errors.New("payment provider error")

	// Token lifecycle errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
