package commentary

import "errors"

// Sentinel kinds for commentary errors. They surface only through
// TestConnection; normal generation substitutes the fallback instead.
var (
	ErrDisabled        = errors.New("remote commentary disabled")
	ErrInvalidEndpoint = errors.New("invalid commentary endpoint")
	ErrInvalidKey      = errors.New("invalid commentary key")
	ErrRemoteCall      = errors.New("commentary call failed")
)
