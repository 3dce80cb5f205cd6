// Package signal drives the remote per-category LED indicator device.
//
// The device is a binary-state indicator with one channel per item
// category, controlled over a fixed HTTP contract:
//
//	GET {endpoint}/led/{on|off}/{category}
//
// Signal() runs the found-report sequence (activate, blocking dwell,
// deactivate) with a short per-command timeout and no retries. SetState()
// drives a single command for manual operator control. Transport failures
// surface as ErrDeviceUnavailable and never affect already-persisted
// report state; that separation is enforced by the report intake, which
// only calls this package after its ledger append has committed.
package signal
