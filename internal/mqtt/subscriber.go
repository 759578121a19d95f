// internal/mqtt/subscriber.go
package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	cfg "github.com/kestrel-avionics/adcd/internal/config"
	"github.com/kestrel-avionics/adcd/internal/report"
)

// Subscriber mirrors the broker-side report stream as a latest-value
// source, so the diagnostics probe can run against a daemon in
// another process the same way it runs against the in-process bus.
type Subscriber struct {
	client MQTT.Client

	mu   sync.Mutex
	last report.Report
	seq  uint64
	seen uint64
}

func NewSubscriber(c cfg.MQTTConfig) (*Subscriber, error) {
	s := &Subscriber{}

	opts := MQTT.NewClientOptions()
	opts.AddBroker(c.Broker)
	opts.SetClientID(c.ClientID + "-probe")
	opts.SetAutoReconnect(true)

	client := MQTT.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	token := client.Subscribe(c.Topic, c.QoS, func(_ MQTT.Client, msg MQTT.Message) {
		var rep report.Report
		if err := json.Unmarshal(msg.Payload(), &rep); err != nil {
			zap.S().Errorf("mqtt: bad report payload: %v", err)
			return
		}
		s.store(rep)
	})
	if token.Wait() && token.Error() != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("mqtt subscribe: %w", token.Error())
	}

	s.client = client
	return s, nil
}

func (s *Subscriber) store(rep report.Report) {
	s.mu.Lock()
	s.seq++
	s.last = rep
	s.mu.Unlock()
}

// Update returns the newest report not yet seen by this subscriber.
func (s *Subscriber) Update() (report.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == s.seen {
		return report.Report{}, false
	}
	s.seen = s.seq
	return s.last, true
}

func (s *Subscriber) Close() {
	if s.client != nil {
		s.client.Disconnect(250)
	}
}
