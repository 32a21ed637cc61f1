// Package mqtt republishes hub broadcasts to an MQTT topic.
package mqtt

import (
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	// quiesce is how long Disconnect waits for in-flight work, in milliseconds.
	quiesce = 250
)

var errPublishTimeout = errors.New("mqtt publish timed out")

// Client is the subset of paho.Client the bridge uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Bridge is a hub subscriber that forwards every message to Topic.
type Bridge struct {
	client Client
	topic  string
}

// NewBridge wraps an already connected client.
func NewBridge(client Client, topic string) *Bridge {
	return &Bridge{client: client, topic: topic}
}

// Dial connects to broker and returns a bridge publishing to topic.
func Dial(broker, clientID, topic string) (*Bridge, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}

	log.WithFields(log.Fields{
		"broker": broker,
		"topic":  topic,
	}).Info("MQTT bridge connected")
	return NewBridge(client, topic), nil
}

// Send publishes msg at QoS 0 without retention.
func (b *Bridge) Send(msg []byte) error {
	token := b.client.Publish(b.topic, 0, false, msg)
	if !token.WaitTimeout(publishTimeout) {
		return errPublishTimeout
	}
	return token.Error()
}

// Close disconnects from the broker.
func (b *Bridge) Close() {
	b.client.Disconnect(quiesce)
}
