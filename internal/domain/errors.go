package domain

import "errors"

var (
	ErrNotFound             = errors.New("document not found")
	ErrAlreadyExists        = errors.New("document already exists")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidStep          = errors.New("invalid setup step")
	ErrInvalidMenu          = errors.New("invalid menu data structure")
	ErrUnknownRole          = errors.New("unknown role")
)
