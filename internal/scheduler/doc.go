// Package scheduler drives brightness passes on a fixed wall-clock interval.
//
// Ticks are aligned to multiples of the interval from midnight local time,
// matching cron-style "*/12" semantics: a 12 minute interval fires at :00,
// :12, :24 and so on, not at arbitrary offsets depending on when the daemon
// started. One extra pass runs immediately at startup so a freshly booted
// session does not wait up to a full interval with wrong brightness.
package scheduler
