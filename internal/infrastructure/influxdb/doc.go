// Package influxdb provides optional signal telemetry.
//
// When enabled, every indicator command attempt is recorded as a point in
// the "signal" measurement, tagged with kiosk, category, action, and
// outcome. Writes are batched and asynchronous so telemetry never delays
// an indicator pulse; when the backend is unreachable the points are
// dropped, not queued indefinitely.
package influxdb
