// Package common defines shared sentinel errors used across the chat
// service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// service specific errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// auth errors (invalid or malformed token)
	ErrInvalidToken = errors.New("invalid token")

	// token lifecycle errors
	ErrTokenExpired = errors.New("token expired")
)
