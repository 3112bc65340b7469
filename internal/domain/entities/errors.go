package entities

import (
	"errors"
	"fmt"
)

// Persistence errors
var (
	// ErrStoreUnreachable is returned when a store is unconfigured, down or timed out
	ErrStoreUnreachable = errors.New("store unreachable")
	// ErrStoreRejected is returned when a store answered but refused the operation
	ErrStoreRejected = errors.New("store rejected operation")
	// ErrSchemaTypeMismatch is the store rejection caused by a user_id column type incompatibility
	ErrSchemaTypeMismatch = fmt.Errorf("%w: user_id type mismatch", ErrStoreRejected)
	// ErrEmptyResponse is returned when a store returned no rows for an insert
	ErrEmptyResponse = errors.New("store returned no data")
)

// Identity errors
var (
	ErrIdentityUnavailable = errors.New("identity unavailable")
	ErrInvalidToken        = errors.New("invalid token")
)

// Live session errors
var (
	ErrSessionNotFound = errors.New("live session not found")
)
