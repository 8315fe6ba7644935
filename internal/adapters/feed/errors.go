package feed

import "errors"

// Sentinel kinds for feed errors.
var (
	ErrInvalidScope = errors.New("invalid feed scope")
	ErrFetch        = errors.New("feed fetch failed")
)
