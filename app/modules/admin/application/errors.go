package adminservice

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid admin password")
	ErrNotAdmin           = errors.New("admin session required")
)
