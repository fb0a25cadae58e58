package scoring

import "errors"

// Sentinel error kinds for this package.
var (
	ErrModelNotReady = errors.New("model not ready")
	ErrInvalidParams = errors.New("invalid model parameters")
	ErrLoadParams    = errors.New("load model parameters failed")
)
