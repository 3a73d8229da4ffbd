package domain

import "errors"

var (
	ErrTitleRequired = errors.New("title is required")
	ErrOwnerRequired = errors.New("owner is required")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("project not found")
)
