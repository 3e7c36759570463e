// Package notify delivers desktop notifications about brightness changes.
//
// The default implementation shells out to notify-send, which reaches any
// freedesktop-compliant notification daemon. A Noop implementation exists for
// headless sessions and for configurations with notifications disabled, so
// callers never need to branch on whether notifications are available.
package notify
