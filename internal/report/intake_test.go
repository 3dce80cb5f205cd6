package report

import (
	"context"
	"errors"
	"testing"

	"github.com/foundline/foundline-core/internal/infrastructure/config"
	"github.com/foundline/foundline-core/internal/infrastructure/logging"
	"github.com/foundline/foundline-core/internal/registry"
	"github.com/foundline/foundline-core/internal/signal"
)

// fakeRegistry admits a fixed set of keys.
type fakeRegistry struct {
	keys map[string]bool
}

func (f *fakeRegistry) Create(_ context.Context, _ *registry.Identity) error { return nil }
func (f *fakeRegistry) Exists(_ context.Context, key string) (bool, error) { return f.keys[key], nil }
func (f *fakeRegistry) List(_ context.Context) ([]registry.Identity, error) { return nil, nil }
func (f *fakeRegistry) Count(_ context.Context) (int, error)                { return len(f.keys), nil }

// fakeLedger records appends in memory and tracks call order relative to
// the signaler via a shared event log.
type fakeLedger struct {
	reports []Report
	events  *[]string
	fail    bool
}

func (f *fakeLedger) Append(_ context.Context, r *Report) error {
	if f.fail {
		return errors.New("disk full")
	}
	r.ID = "rpt-test"
	f.reports = append(f.reports, *r)
	if f.events != nil {
		*f.events = append(*f.events, "append")
	}
	return nil
}

func (f *fakeLedger) List(_ context.Context, _ Filter) ([]Report, error) { return f.reports, nil }
func (f *fakeLedger) ListWithIdentity(_ context.Context) ([]Row, error)  { return nil, nil }
func (f *fakeLedger) Delete(_ context.Context, _ string) error           { return nil }
func (f *fakeLedger) Count(_ context.Context) (int, error)               { return len(f.reports), nil }

// fakeSignaler records signalled categories and can be made to fail.
type fakeSignaler struct {
	categories []signal.Category
	events     *[]string
	err        error
}

func (f *fakeSignaler) Signal(_ context.Context, category signal.Category) error {
	if f.events != nil {
		*f.events = append(*f.events, "signal")
	}
	if f.err != nil {
		return f.err
	}
	f.categories = append(f.categories, category)
	return nil
}

// fakeBroadcaster captures broadcast events.
type fakeBroadcaster struct {
	channels []string
}

func (f *fakeBroadcaster) Broadcast(channel string, _ any) {
	f.channels = append(f.channels, channel)
}

func testLogger() *logging.Logger {
	return logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
}

func newTestIntake(admitted ...string) (*Intake, *fakeLedger, *fakeSignaler) {
	keys := make(map[string]bool, len(admitted))
	for _, k := range admitted {
		keys[k] = true
	}
	var events []string
	ledger := &fakeLedger{events: &events}
	signaler := &fakeSignaler{events: &events}
	intake := NewIntake(&fakeRegistry{keys: keys}, ledger, signaler, testLogger())
	return intake, ledger, signaler
}

func TestSubmit_InvalidKindRejected(t *testing.T) {
	intake, ledger, _ := newTestIntake("alice-1")

	result, err := intake.Submit(context.Background(), SubmitRequest{
		IdentityKey: "alice-1",
		Kind:        "stolen",
	})
	if !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("Submit() error = %v, want ErrInvalidKind", err)
	}
	if result != nil {
		t.Error("rejected submission should return a nil result")
	}
	if len(ledger.reports) != 0 {
		t.Error("rejected submission must not touch the ledger")
	}
}

func TestSubmit_UnregisteredIdentityRejected(t *testing.T) {
	intake, ledger, signaler := newTestIntake("alice-1")

	_, err := intake.Submit(context.Background(), SubmitRequest{
		IdentityKey: "stranger",
		Kind:        KindFound,
		Category:    "phone",
	})
	if !errors.Is(err, ErrUnregisteredIdentity) {
		t.Fatalf("Submit() error = %v, want ErrUnregisteredIdentity", err)
	}
	if len(ledger.reports) != 0 {
		t.Error("rejected submission must not touch the ledger")
	}
	if len(signaler.categories) != 0 {
		t.Error("rejected submission must not signal the device")
	}
}

func TestSubmit_LostReportDoesNotSignal(t *testing.T) {
	intake, ledger, signaler := newTestIntake("alice-1")

	result, err := intake.Submit(context.Background(), SubmitRequest{
		IdentityKey: "alice-1",
		Kind:        KindLost,
		Category:    "wallet",
		Description: "black leather",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Report == nil || result.SignalErr != nil {
		t.Fatalf("lost report should complete cleanly, got %+v", result)
	}
	if len(ledger.reports) != 1 {
		t.Fatalf("ledger has %d reports, want 1", len(ledger.reports))
	}
	if len(signaler.categories) != 0 {
		t.Error("lost reports must not drive the indicator")
	}
}

func TestSubmit_FoundReportSignalsAfterPersist(t *testing.T) {
	intake, ledger, signaler := newTestIntake("alice-1")

	result, err := intake.Submit(context.Background(), SubmitRequest{
		IdentityKey: "alice-1",
		Kind:        KindFound,
		Category:    "phone",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.SignalErr != nil {
		t.Fatalf("SignalErr = %v, want nil", result.SignalErr)
	}
	if len(signaler.categories) != 1 || signaler.categories[0] != signal.CategoryPhone {
		t.Errorf("signalled categories = %v, want [phone]", signaler.categories)
	}

	// The append must be durable before the device is touched.
	events := *ledger.events
	if len(events) != 2 || events[0] != "append" || events[1] != "signal" {
		t.Errorf("event order = %v, want [append signal]", events)
	}
}

func TestSubmit_SignalFailureKeepsReport(t *testing.T) {
	intake, ledger, signaler := newTestIntake("alice-1")
	signaler.err = signal.ErrDeviceUnavailable

	result, err := intake.Submit(context.Background(), SubmitRequest{
		IdentityKey: "alice-1",
		Kind:        KindFound,
		Category:    "umbrella",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v; a signal failure is not an intake error", err)
	}
	if result.Report == nil {
		t.Fatal("the persisted report must be returned despite the signal failure")
	}
	if !errors.Is(result.SignalErr, signal.ErrDeviceUnavailable) {
		t.Errorf("SignalErr = %v, want ErrDeviceUnavailable", result.SignalErr)
	}
	// No compensation: the ledger entry stands.
	if len(ledger.reports) != 1 {
		t.Errorf("ledger has %d reports after signal failure, want 1", len(ledger.reports))
	}
}

func TestSubmit_PersistFailureStopsEverything(t *testing.T) {
	intake, ledger, signaler := newTestIntake("alice-1")
	ledger.fail = true

	result, err := intake.Submit(context.Background(), SubmitRequest{
		IdentityKey: "alice-1",
		Kind:        KindFound,
		Category:    "phone",
	})
	if err == nil {
		t.Fatal("Submit() should fail when the ledger append fails")
	}
	if result != nil {
		t.Error("failed submission should return a nil result")
	}
	if len(signaler.categories) != 0 {
		t.Error("the device must not be signalled when nothing was persisted")
	}
}

func TestSubmit_UnknownCategoryAcceptedForLost(t *testing.T) {
	// Category membership is a device-layer concern. The intake stores
	// whatever was submitted.
	intake, ledger, _ := newTestIntake("alice-1")

	result, err := intake.Submit(context.Background(), SubmitRequest{
		IdentityKey: "alice-1",
		Kind:        KindLost,
		Category:    "bicycle",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Report.Category != "bicycle" {
		t.Errorf("category = %q, want bicycle", result.Report.Category)
	}
	if len(ledger.reports) != 1 {
		t.Errorf("ledger has %d reports, want 1", len(ledger.reports))
	}
}

func TestSubmit_BroadcastsCreatedEvent(t *testing.T) {
	intake, _, _ := newTestIntake("alice-1")
	events := &fakeBroadcaster{}
	intake.SetBroadcaster(events)

	_, err := intake.Submit(context.Background(), SubmitRequest{
		IdentityKey: "alice-1",
		Kind:        KindLost,
		Category:    "wallet",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(events.channels) != 1 || events.channels[0] != EventReportCreated {
		t.Errorf("broadcast channels = %v, want [%s]", events.channels, EventReportCreated)
	}
}
