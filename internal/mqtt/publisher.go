// internal/mqtt/publisher.go
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/kestrel-avionics/adcd/internal/bus"
	cfg "github.com/kestrel-avionics/adcd/internal/config"
)

// Publisher bridges the in-process report topic to an MQTT broker.
// Delivery is best-effort: a report superseded before the bridge gets
// to it is simply skipped, matching the bus semantics.
type Publisher struct {
	client MQTT.Client
	topic  string
	qos    byte
}

func NewPublisher(c cfg.MQTTConfig) (*Publisher, error) {
	opts := MQTT.NewClientOptions()
	opts.AddBroker(c.Broker)
	opts.SetClientID(c.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(false)
	opts.SetOnConnectHandler(func(cl MQTT.Client) {
		zap.S().Infof("mqtt: connected to broker")
	})
	opts.SetConnectionLostHandler(func(cl MQTT.Client, err error) {
		zap.S().Warnf("mqtt: connection lost: %v", err)
	})

	client := MQTT.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return &Publisher{
		client: client,
		topic:  c.Topic,
		qos:    c.QoS,
	}, nil
}

// Run forwards bus publications until the context is cancelled.
func (p *Publisher) Run(ctx context.Context, sub *bus.Subscription) {
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Notify():
			rep, ok := sub.Update()
			if !ok {
				continue
			}

			payload, err := json.Marshal(rep)
			if err != nil {
				zap.S().Errorf("mqtt: marshal report: %v", err)
				continue
			}

			// Fire and forget. The report is stale the moment the
			// next cycle publishes; waiting on the token here would
			// turn transport lag into sampling backpressure.
			p.client.Publish(p.topic, p.qos, false, payload)
		}
	}
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
