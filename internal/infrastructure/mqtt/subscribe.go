package mqtt

import "fmt"

// Subscribe registers handler for messages on topic. BattWatch itself
// subscribes only to battwatch/command; wildcard patterns (+, #) work
// for tooling built on this package.
//
// The subscription is tracked locally and replayed after a reconnect,
// so callers subscribe once and forget.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if handler == nil {
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.subMu.Lock()
	c.subscriptions[topic] = subscription{topic: topic, qos: qos, handler: handler}
	c.subMu.Unlock()

	token := c.client.Subscribe(topic, qos, c.wrapHandler(handler))
	subscribeErr := error(nil)
	if !token.WaitTimeout(publishTimeout) {
		subscribeErr = fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, publishTimeout)
	} else if err := token.Error(); err != nil {
		subscribeErr = fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	if subscribeErr != nil {
		// Untrack so a failed subscription is not replayed on reconnect.
		c.subMu.Lock()
		delete(c.subscriptions, topic)
		c.subMu.Unlock()
	}
	return subscribeErr
}
