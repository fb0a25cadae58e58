package config

import (
	"errors"
)

// ErrInvalidConfig marks a configuration that loaded cleanly but fails
// validation, such as an empty listen address or a simulator with every
// step set to zero.
var ErrInvalidConfig = errors.New("invalid config")

// ErrLoadConfig marks a failure to read or parse a configuration source.
var ErrLoadConfig = errors.New("load config failed")
