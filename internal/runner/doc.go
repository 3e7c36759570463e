// Package runner executes brightness passes.
//
// A pass is one complete sweep: acquire the single-instance lock, resolve the
// season and solar windows for the current instant, detect the connected
// displays, and for each display evaluate the brightness curve and write the
// result over DDC/CI. Failures are isolated per display so one unreachable
// monitor never blocks the others; the pass reports partial failure instead.
//
// Optional collaborators (run history, MQTT state publishing, InfluxDB
// telemetry, desktop notifications) are plain interfaces and may be nil; the
// coordinator only drives peripherals it was given.
package runner
