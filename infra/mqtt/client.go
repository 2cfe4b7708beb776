// Package mqtt publishes run records to an MQTT broker.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/gproute/core/records"
)

// Auth methods accepted in Config.AuthMethod.
const (
	AuthNone     = "none"
	AuthPassword = "username_password"
	AuthTLS      = "tls"
	AuthBoth     = "both"
)

// Config describes the broker connection and how records are published.
// QoS is keyed by record kind; kinds without an entry use QoS 0.
type Config struct {
	Broker         string          `json:"broker"`
	ClientID       string          `json:"client_id"`
	Username       string          `json:"username"`
	Password       string          `json:"password"`
	AuthMethod     string          `json:"auth_method"`
	UseTLS         bool            `json:"use_tls"`
	ClientCert     string          `json:"client_cert"`
	ClientKey      string          `json:"client_key"`
	CABundle       string          `json:"ca_bundle"`
	Topic          string          `json:"topic"`
	Retain         bool            `json:"retain"`
	QoS            map[string]byte `json:"qos"`
	LWTTopic       string          `json:"lwt_topic"`
	LWTPayload     string          `json:"lwt_payload"`
	LWTQoS         byte            `json:"lwt_qos"`
	LWTRetain      bool            `json:"lwt_retain"`
	MaxRetries     int             `json:"max_retries"`
	Backoff        time.Duration   `json:"backoff"`
	ConnectTimeout time.Duration   `json:"connect_timeout"`
	KeepAlive      time.Duration   `json:"keep_alive"`
	TLSConfig      *tls.Config     `json:"-"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "gproute/runs"
	}
	if c.ClientID == "" {
		c.ClientID = "gproute"
	}
	if c.AuthMethod == "" {
		c.AuthMethod = AuthPassword
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.Backoff <= 0 {
		c.Backoff = 100 * time.Millisecond
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = 30 * time.Second
	}
}

// Validate checks the broker, the auth method and the QoS levels.
func (c *Config) Validate() error {
	if c.Broker == "" {
		return errors.New("mqtt: broker is required")
	}
	switch c.AuthMethod {
	case "", AuthNone, AuthPassword, AuthTLS, AuthBoth:
	default:
		return fmt.Errorf("mqtt: unknown auth_method %q", c.AuthMethod)
	}
	for kind, q := range c.QoS {
		if !records.Kind(kind).Valid() {
			return fmt.Errorf("mqtt: qos for unknown kind %q", kind)
		}
		if q > 2 {
			return fmt.Errorf("mqtt: qos %d for %s", q, kind)
		}
	}
	if c.LWTQoS > 2 {
		return fmt.Errorf("mqtt: lwt qos %d", c.LWTQoS)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("mqtt: negative max_retries")
	}
	return nil
}

// pahoClient is the subset of paho.Client used by the sink.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewClientOptions builds the paho options for cfg.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.KeepAlive > 0 {
		opts.SetKeepAlive(cfg.KeepAlive)
	}
	password := cfg.AuthMethod == "" || cfg.AuthMethod == AuthPassword || cfg.AuthMethod == AuthBoth
	if password && cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS || cfg.AuthMethod == AuthTLS || cfg.AuthMethod == AuthBoth {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig returns cfg.TLSConfig or builds one from the PEM files.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("mqtt: tls requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("mqtt: load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("mqtt: read ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("mqtt: no certificate in %s", c.CABundle)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}
