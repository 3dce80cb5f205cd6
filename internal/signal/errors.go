package signal

import "errors"

// Sentinel errors for device signal operations.
var (
	// ErrUnknownCategory means the category is not a device channel.
	ErrUnknownCategory = errors.New("unknown signal category")

	// ErrUnknownState means the requested state is not on or off.
	ErrUnknownState = errors.New("unknown signal state")

	// ErrDeviceUnavailable wraps any transport-level failure talking to
	// the indicator device (connection refused, timeout, non-2xx status).
	ErrDeviceUnavailable = errors.New("indicator device unavailable")
)
