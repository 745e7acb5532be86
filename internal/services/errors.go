package services

import "errors"

// Validation and token failures are ordinary outcomes here: handlers map
// them to status codes, nothing in this package panics or retries.
var (
	ErrEmailRequired    = errors.New("email field is required")
	ErrEmailTaken       = errors.New("user already exists with this email")
	ErrNotFound         = errors.New("user not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token expired")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrSamePassword     = errors.New("new password cannot be the same as old password")
	ErrWrongPassword    = errors.New("old password is incorrect")
	ErrNoData           = errors.New("no data found for given ticker")
)
