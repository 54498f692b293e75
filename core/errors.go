package core

import "errors"

var (
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenInvalidated = errors.New("token has been invalidated")
	ErrInvalidToken     = errors.New("invalid token")

	ErrCodeTaken       = errors.New("code is already pending")
	ErrCodeGeneration  = errors.New("could not generate a unique code")
	ErrDirectOnly      = errors.New("login links are only issued in direct messages")
	ErrBindingNotFound = errors.New("binding not found")
)
