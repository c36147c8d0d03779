package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/filipsPL/aprs-is-wx/internal/wx"
)

// Telemetry is the station telemetry message published on the MQTT side
// of the pipeline. Sensor fields are pointers so a missing reading stays
// distinguishable from a zero one.
type Telemetry struct {
	StationID   string    `json:"station_id"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature *float64  `json:"temperature_c,omitempty"`
	Humidity    *float64  `json:"humidity_pct,omitempty"`
	Pressure    *float64  `json:"pressure_hpa,omitempty"`
	Battery     *float64  `json:"battery_v,omitempty"`
	Sequence    *int      `json:"sequence,omitempty"`
}

// MQTTConfig configures an MQTTSource.
type MQTTConfig struct {
	Broker   string
	Port     int
	ClientID string
	Topic    string
}

// MQTTSource subscribes to a telemetry topic and keeps the latest valid
// message as the current observation. Latest blocks until the first
// message arrives or the context expires.
type MQTTSource struct {
	client mqtt.Client
	cfg    MQTTConfig
	logger *slog.Logger

	mu     sync.RWMutex
	latest *wx.Observation

	ready     chan struct{}
	readyOnce sync.Once

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMQTTSource(cfg MQTTConfig, logger *slog.Logger) *MQTTSource {
	s := &MQTTSource{
		cfg:    cfg,
		logger: logger,
		ready:  make(chan struct{}),
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)

	// Session settings
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	// Keepalive / timeouts
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("mqtt connected", "broker", cfg.Broker, "port", cfg.Port)
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// Connect establishes the broker connection and subscribes to the
// telemetry topic. Subscribing happens before returning so a retained
// message is picked up immediately.
func (s *MQTTSource) Connect(ctx context.Context) error {
	select {
	case <-s.stopCh:
		return fmt.Errorf("source stopped")
	default:
	}

	token := s.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			break
		}

		select {
		case <-ctx.Done():
			s.client.Disconnect(0)
			return ctx.Err()
		case <-s.stopCh:
			s.client.Disconnect(0)
			return fmt.Errorf("source stopped")
		default:
		}
	}

	if err := s.subscribe(); err != nil {
		s.client.Disconnect(0)
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

func (s *MQTTSource) subscribe() error {
	qos := byte(1) // At least once delivery

	token := s.client.Subscribe(s.cfg.Topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", s.cfg.Topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", s.cfg.Topic, token.Error())
	}

	s.logger.Info("subscribed to mqtt topic", "topic", s.cfg.Topic, "qos", qos)
	return nil
}

func (s *MQTTSource) handleMessage(topic string, payload []byte) {
	var t Telemetry
	if err := json.Unmarshal(payload, &t); err != nil {
		s.logger.Warn("failed to parse telemetry message",
			"topic", topic,
			"error", err,
			"payload", string(payload),
		)
		return
	}

	if err := validateTelemetry(t); err != nil {
		s.logger.Warn("invalid telemetry message",
			"topic", topic,
			"station_id", t.StationID,
			"error", err,
		)
		return
	}

	obs := observationFromTelemetry(t)

	s.mu.Lock()
	s.latest = &obs
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	s.logger.Debug("telemetry observation updated",
		"station_id", t.StationID,
		"timestamp", t.Timestamp,
	)
}

// Latest returns the most recent telemetry observation, waiting for the
// first message if none has arrived yet.
func (s *MQTTSource) Latest(ctx context.Context) (wx.Observation, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return wx.Observation{}, fmt.Errorf("waiting for telemetry: %w", ctx.Err())
	case <-s.stopCh:
		return wx.Observation{}, fmt.Errorf("source stopped")
	}

	s.mu.RLock()
	obs := *s.latest
	s.mu.RUnlock()
	return obs, nil
}

// Disconnect stops the source and closes the MQTT connection. Idempotent.
func (s *MQTTSource) Disconnect() {
	s.stopOnce.Do(func() { close(s.stopCh) })

	if s.client != nil && s.client.IsConnected() {
		token := s.client.Unsubscribe(s.cfg.Topic)
		token.WaitTimeout(2 * time.Second)
	}
	if s.client != nil {
		s.client.Disconnect(250)
	}
	s.logger.Info("mqtt source disconnected")
}

func validateTelemetry(t Telemetry) error {
	if t.StationID == "" {
		return fmt.Errorf("station_id is required")
	}
	if t.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}

	if t.Humidity != nil {
		if *t.Humidity < 0 || *t.Humidity > 100 {
			return fmt.Errorf("humidity_pct out of range: %f (must be 0-100)", *t.Humidity)
		}
	}
	if t.Pressure != nil {
		if *t.Pressure <= 0 {
			return fmt.Errorf("pressure_hpa must be positive: %f", *t.Pressure)
		}
	}

	if t.Temperature == nil && t.Humidity == nil && t.Pressure == nil {
		return fmt.Errorf("at least one sensor reading (temperature, humidity, or pressure) is required")
	}
	return nil
}

// observationFromTelemetry maps the telemetry schema (Celsius, percent,
// hPa) onto the observation model, carrying only the readings present.
func observationFromTelemetry(t Telemetry) wx.Observation {
	var obs wx.Observation
	if t.Temperature != nil {
		obs.Temperature = &wx.Temperature{Value: *t.Temperature, Unit: wx.Celsius}
	}
	if t.Humidity != nil {
		h := *t.Humidity
		obs.Humidity = &h
	}
	if t.Pressure != nil {
		obs.Pressure = &wx.Pressure{Value: *t.Pressure, Unit: wx.Hectopascals}
	}
	return obs
}
