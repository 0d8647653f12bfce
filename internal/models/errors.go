package models

import (
	"errors"
)

var ErrClientNotFound = errors.New("client not found")

var (
	ErrCedulaRequired  = errors.New("models: cedula required")
	ErrCedulaNotLinked = errors.New("models: no cedula linked to this account")
)
