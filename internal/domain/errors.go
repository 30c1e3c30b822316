// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Hierarchy-related errors
	ErrOrphanReference = errors.New("parent reference does not exist")
	ErrNotOwner        = errors.New("acting user does not own this entity's company")
	// ErrBrokenChain means an intermediate parent link is missing. Cascade
	// deletes make this unreachable in normal operation; it is treated as
	// fatal for the request and logged, never surfaced as user-recoverable.
	ErrBrokenChain = errors.New("ownership chain is broken")

	// Geometry errors
	ErrInvalidGeometry = errors.New("invalid geometry")

	// Rotation-ledger errors
	ErrAmbiguousLink = errors.New("rotation must reference exactly one plantation")
	ErrUniqueness    = errors.New("uniqueness violation")
)
