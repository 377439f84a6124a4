package investmentrepo

import "errors"

var (
	ErrNotFound      = errors.New("investment not found")
	ErrAlreadyExists = errors.New("investment already exists")
)
