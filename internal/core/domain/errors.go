package domain

import "errors"

var (
	ErrNotFound         = errors.New("domain: not found")
	ErrNotAuthenticated = errors.New("domain: not authenticated")
	ErrInvalidTheme     = errors.New("domain: invalid theme")
	ErrInvalidArgument  = errors.New("domain: invalid argument")
)
