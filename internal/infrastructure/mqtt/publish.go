package mqtt

import "fmt"

// maxPayloadSize caps outbound payloads at 1MB. Notices and tray
// state are tiny; anything near this limit is a bug upstream.
const maxPayloadSize = 1 << 20

// Publish sends payload to topic at the given QoS level. Retained
// messages are re-delivered by the broker to every new subscriber;
// BattWatch retains state topics (ui, system status) and not notices.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishRetained publishes a retained message at the configured
// default QoS. The tray state publisher uses this for the icon and
// tooltip topics so front-ends see current state as soon as they
// subscribe.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}
