package walletrepo

import "errors"

var (
	// ErrNotFound indicates the requested wallet does not exist.
	ErrNotFound = errors.New("wallet not found")

	// ErrAlreadyExists indicates a wallet already exists for the ID or profile.
	ErrAlreadyExists = errors.New("wallet already exists")
)
