package mqtt

import (
	"fmt"
)

// maxPayloadSize caps outgoing messages at 1MB. State snapshots are a few
// hundred bytes; anything near this limit indicates a bug upstream, and most
// brokers reject oversized messages anyway.
const maxPayloadSize = 1 << 20

// Publish sends one message to a topic.
//
// The mirror publishes state snapshots retained, so consumers that subscribe
// later still receive the current household state; an empty retained payload
// clears a topic when its object disappears. The call blocks until the
// broker acknowledges or the publish timeout elapses — with auto-reconnect
// active, a short broker outage surfaces here as a timeout rather than a
// dropped message.
//
// Parameters:
//   - topic: Destination topic (see Topics for the layout)
//   - payload: JSON payload, or empty to clear a retained topic
//   - qos: Delivery guarantee, 0-2
//   - retained: Whether the broker keeps the message for future subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
//
// Example:
//
//	topic := client.Topics().PlayerVolume("RINCON_123")
//	err := client.Publish(topic, []byte(`{"volume":25}`), 1, true)
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

// PublishString publishes a string payload; shorthand for Publish with
// []byte(payload).
func (c *Client) PublishString(topic string, payload string, qos byte, retained bool) error {
	return c.Publish(topic, []byte(payload), qos, retained)
}

// PublishRetained publishes a retained message at the configured default QoS.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}
