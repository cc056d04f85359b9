package model

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("request is not pending")
	ErrDuplicatePending = errors.New("pending request already exists")
	ErrForbidden        = errors.New("access denied")
	ErrInvalidInput     = errors.New("invalid input")
)
