package domain

import "errors"

var (
	// ErrNotFound means a lookup missed (unknown user, location, or news item).
	ErrNotFound = errors.New("not found")

	// ErrWrongPassword means the shared club password did not match.
	ErrWrongPassword = errors.New("wrong password")

	// ErrForbidden means the caller's identity does not carry the admin flag.
	ErrForbidden = errors.New("admin privileges required")

	// ErrDuplicateName means a user with the same login handle already exists.
	ErrDuplicateName = errors.New("username already taken")

	// ErrInvalidStatus means an attendance status outside going/not_going/maybe.
	ErrInvalidStatus = errors.New("invalid attendance status")

	// ErrUpdateFailed means the record store accepted the write but the
	// re-read page was missing required properties.
	ErrUpdateFailed = errors.New("record store update failed")
)
