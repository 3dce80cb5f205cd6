package report

import (
	"context"
	"fmt"

	"github.com/foundline/foundline-core/internal/infrastructure/logging"
	"github.com/foundline/foundline-core/internal/registry"
	"github.com/foundline/foundline-core/internal/signal"
)

// Signaler is the device dependency of the intake. Signal blocks for the
// full activate-dwell-deactivate sequence.
type Signaler interface {
	Signal(ctx context.Context, category signal.Category) error
}

// Broadcaster receives ledger events for the live dashboard feed.
// A nil Broadcaster disables events.
type Broadcaster interface {
	Broadcast(channel string, payload any)
}

// Event channels published by the intake.
const (
	EventReportCreated = "report.created"
)

// SubmitRequest is the input to a report submission.
type SubmitRequest struct {
	IdentityKey string
	Kind        Kind
	Category    string
	Description string
}

// SubmitResult is the terminal outcome of an accepted submission.
//
// Report is always the persisted record. SignalErr is non-nil when the
// report kind required a device signal and the device could not be driven:
// the record stands, the notification was not delivered, and callers must
// surface that as a partial success distinct from an intake rejection.
type SubmitResult struct {
	Report    *Report
	SignalErr error
}

// Intake runs the report submission state machine:
//
//	Received -> Validated -> Persisted -> (Signaled | Completed)
//
// Validation rejects unknown kinds and unregistered identities with nothing
// persisted. Once validation passes, the ledger append is unconditional and
// is never rolled back, in particular not when the subsequent device
// signal for a found report fails. The report-of-record must survive a
// flaky indicator.
type Intake struct {
	identities registry.Repository
	ledger     Repository
	signaler   Signaler
	events     Broadcaster
	logger     *logging.Logger
}

// NewIntake creates the intake service. signaler is required; events may be
// nil.
func NewIntake(identities registry.Repository, ledger Repository, signaler Signaler, logger *logging.Logger) *Intake {
	return &Intake{
		identities: identities,
		ledger:     ledger,
		signaler:   signaler,
		logger:     logger.With("component", "intake"),
	}
}

// SetBroadcaster attaches the live event feed.
func (in *Intake) SetBroadcaster(b Broadcaster) {
	in.events = b
}

// Submit validates, persists, and (for found reports) signals a report.
//
// Rejections return a nil result and one of ErrInvalidKind or
// ErrUnregisteredIdentity; the ledger is untouched. An accepted submission
// always returns the persisted report; check SubmitResult.SignalErr for the
// partial-success case. For found reports the call blocks for the device's
// full hold sequence.
func (in *Intake) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	// Received -> Validated
	if !IsValidKind(req.Kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, req.Kind)
	}

	admitted, err := in.identities.Exists(ctx, req.IdentityKey)
	if err != nil {
		return nil, fmt.Errorf("admission check: %w", err)
	}
	if !admitted {
		return nil, fmt.Errorf("%w: %q", ErrUnregisteredIdentity, req.IdentityKey)
	}

	// Validated -> Persisted. Unconditional from here on: the append is
	// durable before any device I/O is attempted.
	rep := &Report{
		IdentityKey: req.IdentityKey,
		Kind:        req.Kind,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := in.ledger.Append(ctx, rep); err != nil {
		return nil, fmt.Errorf("persisting report: %w", err)
	}

	in.logger.Info("report persisted",
		"report_id", rep.ID,
		"identity_key", rep.IdentityKey,
		"kind", rep.Kind,
		"category", rep.Category,
	)
	if in.events != nil {
		in.events.Broadcast(EventReportCreated, rep)
	}

	// Persisted -> Completed: lost reports have no device interaction.
	if rep.Kind == KindLost {
		return &SubmitResult{Report: rep}, nil
	}

	// Persisted -> Signaled. A device failure is terminal for the
	// notification only; the ledger entry is neither retried nor
	// reverted.
	if err := in.signaler.Signal(ctx, signal.Category(rep.Category)); err != nil {
		in.logger.Warn("signal failed after persist",
			"report_id", rep.ID,
			"category", rep.Category,
			"error", err,
		)
		return &SubmitResult{Report: rep, SignalErr: err}, nil
	}

	return &SubmitResult{Report: rep}, nil
}
