package types

import "errors"

// Domain errors for type validation
var (
	ErrUnknownElementType = errors.New("unknown element type")
	ErrInvalidChunkKind   = errors.New("invalid chunk kind")
	ErrTableNotIsolated   = errors.New("table chunk references more than one segment")
)
