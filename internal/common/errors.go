// Package common defines shared constants and sentinel errors used across
// the bookmarker service layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInfrastructure = errors.New("service unavailable")
	ErrForbidden      = errors.New("access to resources denied")

	// Credential errors.
	ErrDuplicateCredential = errors.New("credentials taken")
	ErrInvalidCredentials  = errors.New("credentials incorrect")

	// Bearer token errors. All of them are reported to clients as ErrUnauthorized.
	ErrUnauthorized = errors.New("unauthorized")
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// DuplicateError reports a uniqueness conflict on one or more fields.
// It matches ErrDuplicateCredential with errors.Is.
type DuplicateError struct {
	Fields []string
}

func (e *DuplicateError) Error() string {
	return "[" + strings.Join(e.Fields, ",") + "] " + ErrDuplicateCredential.Error()
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateCredential
}

// ConflictError is returned by repositories when a write violates a unique
// constraint. Field is empty when the column could not be determined.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return ErrorAlreadyExists.Error()
	}
	return e.Field + ": " + ErrorAlreadyExists.Error()
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrorAlreadyExists
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
