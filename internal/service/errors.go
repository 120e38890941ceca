package service

import "errors"

// Sentinel errors returned by services. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrNotPending         = errors.New("request not found or already processed")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrAlreadyFavorite    = errors.New("already in favorites")
	ErrNameTaken          = errors.New("name already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoCategory         = errors.New("no categories found, please create a category first")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUpstream           = errors.New("recommendation service unavailable")
)
