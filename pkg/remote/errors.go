package remote

import "errors"

// Root-map resolution errors.
var (
	ErrEmptyRootMap        = errors.New("root map must be a non-empty mapping")
	ErrRootKeyNotFound     = errors.New("key not found in root map")
	ErrModuleNotFound      = errors.New("module not found in registry")
	ErrPathNotFound        = errors.New("path did not resolve in namespace")
	ErrInvalidRootMapEntry = errors.New("invalid root map entry")
)

// Operator errors.
var (
	ErrNoRoot             = errors.New("no root bound")
	ErrUnknownEraseAction = errors.New("unknown erase action")
)
