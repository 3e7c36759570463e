// Package config handles loading and validating the brightness daemon configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (EMB_* pattern)
//   - Validation of required fields and value ranges
//   - Default value handling
//
// Range validation lives here, at the boundary: the schedule engine and the
// run coordinator assume adjust_steps, the offset, and the profiles are
// already in range when they receive them. Per-monitor profile entries must
// be complete for both seasons; partial entries are rejected at load time
// rather than surfacing as errors mid-pass.
//
// Usage:
//
//	cfg, err := config.Load(config.DefaultPath())
//	if errors.Is(err, config.ErrFileNotFound) {
//	    cfg = config.Default()
//	}
package config
