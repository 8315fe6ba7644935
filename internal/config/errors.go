package config

import (
	"errors"
)

// Sentinel error kinds for this package. Loading faults (unreadable or
// unparsable sources) and validation faults (a config that parsed but
// cannot drive the engine) are distinguishable via errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
