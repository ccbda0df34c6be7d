package broker

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher publishes serialized events to a topic.
type Publisher interface {
	// Publish sends the payload to the given topic.
	Publish(topic string, payload []byte) error
	// Close releases the underlying connection.
	Close()
}

// mqttPublisher is the MQTT-backed Publisher implementation.
type mqttPublisher struct {
	client mqtt.Client
}

// NewPublisher connects to the configured MQTT broker and returns a Publisher.
// The initial connection is retried with exponential backoff so a broker that
// is still starting up does not fail the whole service boot.
func NewPublisher(cfg Config) (Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port))
	opts.SetUsername(cfg.User)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	err := backoff.Retry(func() error {
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return token.Error()
		}
		return nil
	}, backoff.WithMaxRetries(bo, 4))
	if err != nil {
		return nil, fmt.Errorf("could not establish MQTT connection after retries: %w", err)
	}

	return &mqttPublisher{client: client}, nil
}

// Publish sends the payload with QoS 1 so the broker acknowledges delivery.
func (p *mqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, token.Error())
	}
	return nil
}

// Close gracefully disconnects from the broker.
func (p *mqttPublisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
