package store

import "errors"

// Key and value errors returned by Container and Context mutators.
var (
	ErrInvalidKey   = errors.New("invalid key")
	ErrReservedKey  = errors.New("key collides with a reserved name")
	ErrInvalidValue = errors.New("invalid value")
)

// Lookup errors.
var (
	ErrUnknownContainer = errors.New("unknown container")
	ErrItemNotFound     = errors.New("item not found")
)

// Sync and comparison errors.
var (
	ErrIncompatible     = errors.New("contexts are structurally incompatible")
	ErrUnknownOperation = errors.New("unknown sync operation")
	ErrNotAContext      = errors.New("value is neither a Context nor a context holder")
)

// ErrSnapshotExperimental is returned by CreateSnapshot unless the caller
// explicitly opts into the unstable snapshot format.
var ErrSnapshotExperimental = errors.New("snapshots are experimental; opt in with AllowExperimental")
