package mqtt

import "fmt"

// Topic prefixes for the brightness daemon.
//
// All topics live under a single root so a broker ACL can grant the daemon
// write access with one rule.
const (
	// TopicPrefix is the root of all daemon topics.
	TopicPrefix = "monitorbrightness"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "monitorbrightness/system"
)

// Topics provides builders for the daemon's MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// DisplayState returns the retained state topic for one display, keyed by
// serial number so the topic survives ddcutil renumbering displays.
//
// Example: monitorbrightness/state/htpk500289
func (Topics) DisplayState(serial string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, serial)
}

// RunSummary returns the topic for per-pass summary events.
//
// Example: monitorbrightness/run
func (Topics) RunSummary() string {
	return fmt.Sprintf("%s/run", TopicPrefix)
}

// SystemStatus returns the system status topic carrying online/offline
// announcements and the Last Will message.
//
// Example: monitorbrightness/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDisplayStates returns a pattern matching every display state topic.
// Exposed for consumers and tests, the daemon itself never subscribes.
//
// Pattern: monitorbrightness/state/+
func (Topics) AllDisplayStates() string {
	return fmt.Sprintf("%s/state/+", TopicPrefix)
}
