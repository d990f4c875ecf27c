package services

import "errors"

// Sentinel errors returned by the auth core. The HTTP error handler maps
// them to response statuses; anything else is treated as internal.
var (
	ErrInvalidContact       = errors.New("invalid email or phone number")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired otp")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrUserNotFound         = errors.New("user not found")
	ErrSessionNotFound      = errors.New("refresh session not found")
)
