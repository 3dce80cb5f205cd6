package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/foundline/foundline-core/internal/signal"
)

// RecordSignal writes one telemetry point per indicator command attempt.
// It satisfies signal.Recorder. The write is non-blocking; data is batched
// and sent asynchronously, and dropped silently when disconnected.
func (c *Client) RecordSignal(category signal.Category, state signal.State, outcome string, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"signal",
		map[string]string{
			"kiosk":    c.kioskID,
			"category": string(category),
			"action":   string(state),
			"outcome":  outcome,
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Milliseconds()),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
