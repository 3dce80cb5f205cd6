// Package report implements the report ledger and the intake workflow.
//
// The ledger is append-only: reports get a server-assigned, non-decreasing
// creation timestamp, are never mutated, and are removed only by explicit
// administrator deletion (which is an idempotent no-op for unknown IDs).
//
// The intake is the core state machine of the system:
//
//	Received -> Validated -> Persisted -> (Signaled | Completed)
//
// with the single most important invariant being persist-before-signal:
// for a found report the ledger append is durable before the indicator
// device is touched, and a device failure is surfaced as a partial success
// without compensation. See Intake.Submit.
package report
