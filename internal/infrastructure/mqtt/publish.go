package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// Maximum payload size for MQTT messages (1MB).
// This prevents resource exhaustion and aligns with typical broker limits.
const maxPayloadSize = 1 << 20 // 1MB

// DisplayState is the payload published to a per-display state topic.
type DisplayState struct {
	Display    int    `json:"display"`
	Model      string `json:"model,omitempty"`
	Serial     string `json:"serial"`
	Brightness int    `json:"brightness"`
	Season     string `json:"season"`
	Timestamp  string `json:"timestamp"`
}

// RunSummary is the payload published after every brightness pass.
type RunSummary struct {
	Season          string `json:"season"`
	SolarFallback   bool   `json:"solar_fallback,omitempty"`
	DisplaysFound   int    `json:"displays_found"`
	DisplaysChanged int    `json:"displays_changed"`
	DisplaysFailed  int    `json:"displays_failed"`
	Timestamp       string `json:"timestamp"`
}

// Publish sends a message to the specified MQTT topic.
//
// Parameters:
//   - topic: The topic to publish to (e.g., "monitorbrightness/state/abc123")
//   - payload: The message payload (JSON, max 1MB)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishDisplayState publishes a retained per-display brightness state.
// Retention means a dashboard connecting between passes still sees the
// current level.
func (c *Client) PublishDisplayState(state DisplayState) error {
	if state.Timestamp == "" {
		state.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: marshalling display state: %w", ErrPublishFailed, err)
	}

	topic := Topics{}.DisplayState(state.Serial)
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}

// PublishRunSummary publishes a non-retained summary event for one pass.
func (c *Client) PublishRunSummary(summary RunSummary) error {
	if summary.Timestamp == "" {
		summary.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("%w: marshalling run summary: %w", ErrPublishFailed, err)
	}

	return c.Publish(Topics{}.RunSummary(), payload, byte(c.cfg.QoS), false)
}
