// Package mqtt publishes brightness state to an MQTT broker.
//
// The daemon is a pure publisher: after every brightness pass it announces the
// applied level per display on retained state topics, so home automation
// systems can fold monitor brightness into their dashboards without polling.
// There are no subscriptions.
//
// Topic hierarchy:
//
//	monitorbrightness/state/{serial}   retained per-display brightness state
//	monitorbrightness/run              per-pass summary event (not retained)
//	monitorbrightness/system/status    online/offline status with LWT
//
// The client reconnects automatically with exponential backoff. Publishing
// while disconnected fails fast with ErrNotConnected rather than queueing, as
// the next pass will publish fresh state anyway.
package mqtt
