package signal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/foundline/foundline-core/internal/infrastructure/config"
	"github.com/foundline/foundline-core/internal/infrastructure/logging"
)

// Recorder receives a telemetry point for every device command attempt.
// A nil Recorder disables telemetry.
type Recorder interface {
	RecordSignal(category Category, state State, outcome string, duration time.Duration)
}

// Telemetry outcome values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Controller drives the remote per-category LED indicator.
//
// The device speaks a fixed HTTP contract: GET {endpoint}/led/{on|off}/{category}
// with success meaning any response arrived (no transport error). The
// controller makes no retries and holds no state about the device; a failure
// on either command of a Signal sequence aborts the sequence. If the process
// dies between activate and deactivate, the indicator stays lit. That gap
// is accepted.
//
// All methods are safe for concurrent use. Concurrent Signal calls for the
// same category may interleave their on/off commands; callers get no
// cross-request ordering guarantee.
type Controller struct {
	endpoint string
	hold     time.Duration
	client   *http.Client
	logger   *logging.Logger
	recorder Recorder
}

// New creates a Controller from device configuration.
func New(cfg config.DeviceConfig, logger *logging.Logger) *Controller {
	return &Controller{
		endpoint: cfg.Endpoint,
		hold:     cfg.GetHold(),
		client: &http.Client{
			Timeout: cfg.GetCallTimeout(),
		},
		logger: logger.With("component", "signal"),
	}
}

// SetRecorder attaches an optional telemetry recorder.
func (c *Controller) SetRecorder(r Recorder) {
	c.recorder = r
}

// Hold returns the configured dwell duration.
func (c *Controller) Hold() time.Duration {
	return c.hold
}

// Signal runs the full indicator sequence for a found report:
// activate the category channel, hold for the configured dwell with the
// calling goroutine blocked, then deactivate.
//
// Any transport failure aborts the sequence and returns an error wrapping
// ErrDeviceUnavailable. The dwell is deliberately synchronous: external
// dashboards depend on the activate-wait-deactivate timing, so the request
// that triggered the signal blocks until the sequence completes.
func (c *Controller) Signal(ctx context.Context, category Category) error {
	if !IsValidCategory(category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	if err := c.send(ctx, category, StateOn); err != nil {
		return err
	}

	c.logger.Debug("indicator held", "category", category, "hold", c.hold)
	time.Sleep(c.hold)

	return c.send(ctx, category, StateOff)
}

// SetState drives a single on/off command with no dwell and no automatic
// deactivation. Used by the operator-facing manual control surface.
func (c *Controller) SetState(ctx context.Context, category Category, state State) error {
	if !IsValidCategory(category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if !IsValidState(state) {
		return fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
	return c.send(ctx, category, state)
}

// send issues one device command and records its telemetry point.
func (c *Controller) send(ctx context.Context, category Category, state State) error {
	url := fmt.Sprintf("%s/led/%s/%s", c.endpoint, state, category)

	start := time.Now()
	err := c.get(ctx, url)
	elapsed := time.Since(start)

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	if c.recorder != nil {
		c.recorder.RecordSignal(category, state, outcome, elapsed)
	}

	if err != nil {
		c.logger.Warn("device command failed",
			"category", category,
			"state", state,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return fmt.Errorf("%w: %s %s: %w", ErrDeviceUnavailable, state, category, err)
	}

	c.logger.Info("device command sent",
		"category", category,
		"state", state,
		"duration_ms", elapsed.Milliseconds(),
	)
	return nil
}

// get performs the HTTP GET. Any response counts as success: the device
// firmware acknowledges with plain text and no meaningful status code.
func (c *Controller) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("device returned status %d", resp.StatusCode)
	}
	return nil
}
