package sink

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	bufferCapacity = 64
)

// MQTT publishes committed batches to an MQTT broker. Batches that
// cannot be delivered while the broker is unreachable are held in a
// fixed-size ring buffer and replayed on reconnect.
type MQTT struct {
	client paho.Client
	topic  string

	mu      sync.Mutex
	staged  []Report
	backlog *ringBuffer
}

// NewMQTT creates a sink connected to the given broker. The initial
// connect is retried in the background by the client, but a connect
// that does not complete within the timeout fails construction.
func NewMQTT(broker, topic, clientID string) (*MQTT, error) {
	m := &MQTT{
		topic:   topic,
		backlog: newRingBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(m.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("sink: connection lost: %v", err)
		})

	m.client = paho.NewClient(opts)
	token := m.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return m, nil
}

// ReportState stages one state change in the open batch.
func (m *MQTT) ReportState(pressed bool) error {
	m.mu.Lock()
	m.staged = append(m.staged, Report{Pressed: pressed, At: time.Now()})
	m.mu.Unlock()
	return nil
}

// Commit seals the open batch and publishes it as one message. If the
// broker is unreachable the batch is queued for replay instead.
func (m *MQTT) Commit() error {
	m.mu.Lock()
	staged := m.staged
	m.staged = nil
	m.mu.Unlock()

	if len(staged) == 0 {
		return nil
	}

	payload, err := FormatPayload(staged, time.Now())
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return m.send(bufferedMsg{topic: m.topic, payload: payload})
}

// PublishSystem sends a lifecycle event (STARTUP, SHUTDOWN). Retained
// with QoS 1 so late subscribers see the daemon's last known state.
func (m *MQTT) PublishSystem(event, reason string) error {
	payload, err := FormatSystemPayload(event, reason, time.Now())
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return m.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: true})
}

func (m *MQTT) send(msg bufferedMsg) error {
	if !m.client.IsConnected() {
		m.mu.Lock()
		m.backlog.push(msg)
		m.mu.Unlock()
		return nil
	}

	token := m.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		m.mu.Lock()
		m.backlog.push(msg)
		m.mu.Unlock()
		return fmt.Errorf("publish timeout, queued for replay")
	}
	if err := token.Error(); err != nil {
		m.mu.Lock()
		m.backlog.push(msg)
		m.mu.Unlock()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// onConnect replays any batches queued while disconnected.
func (m *MQTT) onConnect(client paho.Client) {
	m.mu.Lock()
	msgs := m.backlog.drainAll()
	m.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("sink: reconnected, replaying %d queued messages", len(msgs))
	for _, msg := range msgs {
		token := client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		if !token.WaitTimeout(publishTimeout) || token.Error() != nil {
			log.Printf("sink: replay failed for %s: %v", msg.topic, token.Error())
		}
	}
}

// IsConnected reports whether the broker connection is up.
func (m *MQTT) IsConnected() bool {
	return m.client.IsConnected()
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.client.Disconnect(1000) // 1 second timeout
	return nil
}
