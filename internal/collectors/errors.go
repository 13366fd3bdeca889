package collectors

import "errors"

var (
	ErrUserNotFound     = errors.New("User not found")
	ErrAlreadyPending   = errors.New("A collector application is already under review")
	ErrAlreadyCollector = errors.New("User is already an approved collector")
	ErrInvalidID        = errors.New("Invalid identity document")
	ErrNotPending       = errors.New("No pending application for this user")
	ErrNotCollector     = errors.New("User is not an approved collector")
)
