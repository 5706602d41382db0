package service

import "errors"

var (
	// Validation
	ErrInvalidSessionCode = errors.New("session code must be 8 uppercase alphanumeric characters")
	ErrInvalidUserName    = errors.New("user name must be 3-30 letters, digits, underscore or hyphen")
	ErrInvalidDayOfWeek   = errors.New("day of week must be between 0 and 6")
	ErrInvalidTimeFormat  = errors.New("time must be a zero-padded HH:MM string")
	ErrInvalidTimeRange   = errors.New("end time must be after start time")
	ErrInvalidMinDuration = errors.New("minimum duration must be a positive number of minutes")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")

	// Lookup failures. A session that is absent and one that has
	// expired are deliberately indistinguishable to callers.
	ErrSessionNotFound  = errors.New("session not found or expired")
	ErrUserNotFound     = errors.New("user not found")
	ErrIntervalNotFound = errors.New("interval not found")

	// Authorization
	ErrNotSameUser      = errors.New("caller identity does not match user name")
	ErrNotIntervalOwner = errors.New("interval belongs to another user")

	// Conflicts
	ErrDuplicateInterval       = errors.New("identical interval already exists")
	ErrUserAlreadyExists       = errors.New("user name already taken")
	ErrCodeGenerationExhausted = errors.New("could not generate a unique session code")

	// Lifecycle
	ErrSessionReadOnly = errors.New("cannot modify expired session")

	// Auth plumbing
	ErrRefreshTokenInvalid = errors.New("refresh token invalid or revoked")
)
