package vocabulary

import "errors"

var (
	ErrUnknownGroup  = errors.New("unknown vocabulary group")
	ErrEmptyGroup    = errors.New("vocabulary group has no items")
	ErrInvalidConfig = errors.New("invalid vocabulary config")
)
