package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/gproute/core/monitoring"
	"github.com/kilianp07/gproute/core/records"
	"github.com/kilianp07/gproute/infra/logger"
)

// RecordSink publishes each record as JSON on <topic>/<run_id>/<kind>.
type RecordSink struct {
	cli        pahoClient
	topic      string
	qos        map[string]byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

// NewRecordSink connects to the broker described by cfg.
func NewRecordSink(cfg Config) (*RecordSink, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_sink")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", cfg.Broker, token.Error())
	}
	return &RecordSink{
		cli:        c,
		topic:      cfg.Topic,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		logger:     log,
	}, nil
}

// TopicFor returns the topic a record is published on.
func (s *RecordSink) TopicFor(r records.Record) string {
	return fmt.Sprintf("%s/%s/%s", s.topic, r.RunID, r.Kind)
}

// Emit publishes r, retrying with exponential backoff. The final failure is
// reported to the monitor.
func (s *RecordSink) Emit(ctx context.Context, r records.Record) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("mqtt: marshal record: %w", err)
	}
	topic := s.TopicFor(r)
	qos := s.qos[string(r.Kind)]

	var publishErr error
retry:
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		token := s.cli.Publish(topic, qos, s.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			s.logger.Debugf("published %s generation %d to %s", r.Kind, r.Generation, topic)
			return nil
		}
		s.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt == s.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			publishErr = ctx.Err()
			break retry
		case <-time.After(s.backoff * time.Duration(1<<attempt)):
		}
	}
	monitoring.CaptureException(publishErr, map[string]string{
		"module":     "mqtt",
		"run_id":     r.RunID,
		"kind":       string(r.Kind),
		"generation": strconv.Itoa(r.Generation),
	})
	return fmt.Errorf("mqtt: publish %s: %w", topic, publishErr)
}

// Close disconnects from the broker.
func (s *RecordSink) Close() error {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
	return nil
}
