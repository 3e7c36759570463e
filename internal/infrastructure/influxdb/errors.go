package influxdb

import "errors"

var (
	// ErrDisabled is returned by Connect when the influxdb section of the
	// config has enabled: false.
	ErrDisabled = errors.New("influxdb: disabled in configuration")

	// ErrConnectionFailed wraps failures while establishing the initial
	// connection, check with errors.Is.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrNotConnected is returned by operations on a client whose
	// connection was never established or already closed. Write errors
	// after connect surface asynchronously through SetOnError instead.
	ErrNotConnected = errors.New("influxdb: not connected")
)
