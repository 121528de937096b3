package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the sentinel wrapped by every AddOrder validation
// failure. The more specific errors below are unexported, so callers outside
// this package distinguish the exact reason by inspecting the error string.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	errZeroQuantity  = fmt.Errorf("%w: quantity must be > 0", ErrInvalidArgument)
	errZeroPrice     = fmt.Errorf("%w: price must be > 0", ErrInvalidArgument)
	errNonIncreasing = fmt.Errorf("%w: order id must be strictly increasing", ErrInvalidArgument)
)
