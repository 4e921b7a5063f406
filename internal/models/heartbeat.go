package models

import "time"

// Heartbeat represents the periodic device status report published over MQTT.
// It never carries secrets or codes.
type Heartbeat struct {
	DeviceID        string         `json:"device_id"`
	FirmwareVersion string         `json:"firmware_version"`
	Timestamp       time.Time      `json:"timestamp"`
	Status          string         `json:"status"`
	SSID            string         `json:"ssid,omitempty"`
	Synchronized    bool           `json:"synchronized"`
	Period          int64          `json:"period"`
	Metrics         map[string]any `json:"metrics,omitempty"`
}
