// Package monitor discovers DDC/CI-capable external displays and reads and
// writes their brightness through the ddcutil command-line tool.
//
// Discovery parses the terse output of "ddcutil detect --terse" into Display
// values carrying the display number used for addressing and the identity
// fields (manufacturer, model, serial) used for per-monitor profile lookup.
// Brightness access goes through VCP feature code 0x10, the standard MCCS
// luminance control.
//
// Every external command runs under a context with a bounded timeout, so a
// wedged I2C bus cannot stall a brightness pass indefinitely. Laptop-internal
// panels do not speak DDC/CI and never appear in detection results.
package monitor
