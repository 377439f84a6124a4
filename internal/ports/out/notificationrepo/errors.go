package notificationrepo

import "errors"

var (
	// ErrNotFound indicates the notification does not exist for the subject.
	ErrNotFound = errors.New("notification not found")

	// ErrAlreadyExists indicates a notification already exists with the provided ID.
	ErrAlreadyExists = errors.New("notification already exists")
)
