package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/benmeehan/otp-display/internal/constants"
	"github.com/benmeehan/otp-display/internal/metrics_collectors"
	"github.com/benmeehan/otp-display/internal/models"
	"github.com/benmeehan/otp-display/pkg/identity"
	"github.com/benmeehan/otp-display/pkg/mqtt"
	"github.com/rs/zerolog"
)

// DeviceStatus is the part of a heartbeat that comes from the running device.
type DeviceStatus struct {
	SSID         string
	Synchronized bool
	Period       int64
}

// HeartbeatService publishes a status report at a fixed interval. It is
// driven from the main loop through Tick and never starts goroutines.
type HeartbeatService struct {
	PubTopic       string
	Interval       time.Duration
	QOS            int
	PublishTimeout time.Duration
	DeviceInfo     identity.DeviceInfoInterface
	MqttClient     mqtt.MQTTClient
	Metrics        *metrics_collectors.MetricsRegistry
	Status         func() DeviceStatus
	Logger         zerolog.Logger

	lastSent time.Time
	sent     bool
}

// NewHeartbeatService initializes a new HeartbeatService.
func NewHeartbeatService(pubTopic string, interval time.Duration, qos int, deviceInfo identity.DeviceInfoInterface,
	mqttClient mqtt.MQTTClient, metrics *metrics_collectors.MetricsRegistry, status func() DeviceStatus, logger zerolog.Logger) *HeartbeatService {

	return &HeartbeatService{
		PubTopic:       pubTopic,
		Interval:       interval,
		QOS:            qos,
		PublishTimeout: 100 * time.Millisecond,
		DeviceInfo:     deviceInfo,
		MqttClient:     mqttClient,
		Metrics:        metrics,
		Status:         status,
		Logger:         logger,
	}
}

// Tick publishes a heartbeat if the interval has elapsed since the last one.
// It reports whether a publish was attempted.
func (h *HeartbeatService) Tick(now time.Time) bool {
	if h.sent && now.Sub(h.lastSent) < h.Interval {
		return false
	}
	h.sent = true
	h.lastSent = now

	if !h.MqttClient.IsConnected() {
		h.Logger.Debug().Msg("Skipping heartbeat, broker not connected")
		return true
	}

	payload, err := json.Marshal(h.build(now))
	if err != nil {
		h.Logger.Error().Err(err).Msg("Failed to serialize heartbeat message")
		return true
	}

	token := h.MqttClient.Publish(h.PubTopic, byte(h.QOS), false, payload)
	if !token.WaitTimeout(h.PublishTimeout) {
		h.Logger.Debug().Msg("Heartbeat publish still in flight")
		return true
	}
	if err := token.Error(); err != nil {
		h.Logger.Error().Err(err).Msg("Failed to publish heartbeat message")
	} else {
		h.Logger.Debug().Msg("Heartbeat published successfully")
	}
	return true
}

func (h *HeartbeatService) build(now time.Time) models.Heartbeat {
	hb := models.Heartbeat{
		DeviceID:        h.DeviceInfo.GetDeviceID(),
		FirmwareVersion: constants.FirmwareVersion(),
		Timestamp:       now.UTC(),
		Status:          constants.StatusRunning,
	}

	if h.Status != nil {
		st := h.Status()
		hb.SSID = st.SSID
		hb.Synchronized = st.Synchronized
		hb.Period = st.Period
		if !st.Synchronized {
			hb.Status = constants.StatusUnsynchronized
		}
	}

	if h.Metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), h.PublishTimeout)
		hb.Metrics = h.Metrics.CollectAll(ctx)
		cancel()
	}
	return hb
}
