package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// DefaultPublishTimeout bounds connect and publish round trips
const DefaultPublishTimeout = 5 * time.Second

// Publisher sends reports to an MQTT broker as JSON
type Publisher struct {
	Timeout time.Duration

	client paho.Client
	topic  string
}

// NewPublisher connects to brokerURL (e.g. tcp://localhost:1883)
func NewPublisher(brokerURL, clientID, topic string) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(DefaultPublishTimeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			glog.Warningf("mqtt connection lost: %v", err)
		})

	p := &Publisher{
		Timeout: DefaultPublishTimeout,
		client:  paho.NewClient(opts),
		topic:   topic,
	}
	if err := p.wait(p.client.Connect()); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", brokerURL, err)
	}
	glog.V(1).Infof("mqtt connected to %s", brokerURL)
	return p, nil
}

// Topic returns the topic a report for device is published on
func (p *Publisher) Topic(device string) string {
	return p.topic + "/" + sanitizeTopic(device)
}

// Publish sends r as a retained JSON message
func (p *Publisher) Publish(r *Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	topic := p.Topic(r.Device)
	if err := p.wait(p.client.Publish(topic, 1, true, payload)); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	glog.V(1).Infof("published report to %s", topic)
	return nil
}

// Close disconnects from the broker
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func (p *Publisher) wait(token paho.Token) error {
	if !token.WaitTimeout(p.Timeout) {
		return errors.New("timed out")
	}
	return token.Error()
}

// sanitizeTopic replaces characters that are not allowed in a topic level
func sanitizeTopic(s string) string {
	out := []byte(s)
	for i, c := range out {
		switch c {
		case '/', '+', '#', ' ':
			out[i] = '_'
		}
	}
	if len(out) > 0 && out[0] == '_' {
		out = out[1:]
	}
	if len(out) == 0 {
		return "unknown"
	}
	return string(out)
}
