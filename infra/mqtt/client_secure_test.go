package mqtt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/gproute/core/records"
)

// helper to generate self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("gen key: %v", err)
	}
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("create cert: %v", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = dir + "/cert.pem"
	keyFile = dir + "/key.pem"
	caFile = dir + "/ca.pem"
	if err := os.WriteFile(certFile, certPEM, 0644); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0644); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if err := os.WriteFile(caFile, certPEM, 0644); err != nil {
		t.Fatalf("write ca: %v", err)
	}
	return
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	cfg := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}
	tlsCfg, err := cfg.LoadTLSConfig()
	if err != nil {
		t.Fatalf("load tls: %v", err)
	}
	if len(tlsCfg.Certificates) == 0 {
		t.Fatalf("no certs loaded")
	}
	if tlsCfg.RootCAs == nil {
		t.Fatalf("no root CAs")
	}
}

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("opts: %v", err)
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Fatalf("auth not set")
	}
}

func TestNewClientOptionsRequiresBroker(t *testing.T) {
	if _, err := NewClientOptions(Config{ClientID: "id"}); err == nil {
		t.Fatalf("expected error without broker")
	}
}

func TestConfigValidate(t *testing.T) {
	good := Config{Broker: "tcp://localhost:1883", QoS: map[string]byte{"best": 1, "generation": 0}}
	if err := good.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	bad := []Config{
		{Broker: "tcp://b", AuthMethod: "kerberos"},
		{Broker: "tcp://b", QoS: map[string]byte{"best": 3}},
		{Broker: "tcp://b", QoS: map[string]byte{"weather": 1}},
		{Broker: "tcp://b", LWTQoS: 5},
		{Broker: "tcp://b", MaxRetries: -1},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Fatalf("expected error for %+v", c)
		}
	}
}

func TestSetDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	if c.Topic != "gproute/runs" || c.AuthMethod != AuthPassword || c.Backoff != 100*time.Millisecond || c.KeepAlive != 30*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func useMock(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } })
}

func testRecord(t *testing.T, kind records.Kind) records.Record {
	t.Helper()
	r, err := records.New("run-1", kind, 3, map[string]float64{"best": 12.5})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return r
}

func TestQoSSettings(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", Topic: "runs", QoS: map[string]byte{"best": 2}}
	s, err := NewRecordSink(cfg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	if err := s.Emit(context.Background(), testRecord(t, records.KindBest)); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := s.Emit(context.Background(), testRecord(t, records.KindGeneration)); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(mc.published) != 2 {
		t.Fatalf("expected 2 publishes, got %d", len(mc.published))
	}
	if mc.published[0].qos != 2 || mc.published[1].qos != 0 {
		t.Fatalf("qos not applied: %+v", mc.published)
	}
	if mc.published[0].topic != "runs/run-1/best" {
		t.Fatalf("unexpected topic %s", mc.published[0].topic)
	}
}

func TestPayloadIsRecordJSON(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	s, err := NewRecordSink(Config{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	in := testRecord(t, records.KindGeneration)
	if err := s.Emit(context.Background(), in); err != nil {
		t.Fatalf("emit: %v", err)
	}
	var out records.Record
	if err := json.Unmarshal(mc.published[0].payload, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RunID != "run-1" || out.Kind != records.KindGeneration || out.Generation != 3 {
		t.Fatalf("unexpected record %+v", out)
	}
	if mc.published[0].topic != "gproute/runs/run-1/generation" {
		t.Fatalf("default topic not applied: %s", mc.published[0].topic)
	}
}

func TestLWTConfigured(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", LWTTopic: "lwt", LWTPayload: "bye", LWTQoS: 1}
	s, err := NewRecordSink(cfg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	if !mc.opts.WillEnabled {
		t.Fatalf("will not enabled")
	}
	if mc.opts.WillTopic != "lwt" || string(mc.opts.WillPayload) != "bye" {
		t.Fatalf("will options incorrect")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(mc.published) != 0 {
		t.Fatalf("unexpected publish on disconnect")
	}
	if !mc.disconnected {
		t.Fatalf("disconnect not called")
	}
}

func TestRetryLogic(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	useMock(t, mc)
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, Backoff: time.Millisecond}
	s, err := NewRecordSink(cfg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	if err := s.Emit(context.Background(), testRecord(t, records.KindBest)); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(mc.published) != 2 {
		t.Fatalf("expected retries")
	}
}

func TestConnectError(t *testing.T) {
	mc := &mockClient{connectErr: fmt.Errorf("refused")}
	useMock(t, mc)
	if _, err := NewRecordSink(Config{Broker: "tcp://localhost:1883"}); err == nil {
		t.Fatalf("expected connect error")
	}
}

// mockClient implements pahoClient for tests
type mockClient struct {
	opts      *paho.ClientOptions
	published []struct {
		topic   string
		qos     byte
		payload []byte
	}
	publishErrs  []error
	connectErr   error
	disconnected bool
}

func (m *mockClient) IsConnected() bool { return true }
func (m *mockClient) Connect() paho.Token {
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(nil)
	}
	return &dummyToken{err: m.connectErr}
}
func (m *mockClient) Disconnect(uint) { m.disconnected = true }
func (m *mockClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	b, _ := payload.([]byte)
	m.published = append(m.published, struct {
		topic   string
		qos     byte
		payload []byte
	}{topic, qos, b})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }
