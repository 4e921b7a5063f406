package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benmeehan/otp-display/internal/constants"
	"github.com/benmeehan/otp-display/internal/models"
	"github.com/benmeehan/otp-display/pkg/file"
	"github.com/go-playground/validator/v10"
)

// Config represents the structure of the configuration file.
type Config struct {
	WiFi struct {
		Interface      string                `yaml:"interface"`                       // Wireless interface driven through nmcli
		NmcliPath      string                `yaml:"nmcli_path"`                      // Path to the nmcli binary
		KnownNetworks  []models.KnownNetwork `yaml:"known_networks" validate:"dive"`  // Networks the device may join
		ScanTimeout    time.Duration         `yaml:"scan_timeout" validate:"gt=0"`    // Budget for one radio scan
		ConnectTimeout time.Duration         `yaml:"connect_timeout" validate:"gt=0"` // Single-shot budget per candidate
		IncludeHidden  *bool                 `yaml:"include_hidden"`                  // Ask the radio for hidden networks
		CommandTimeout time.Duration         `yaml:"command_timeout" validate:"gt=0"` // Timeout for one nmcli invocation
	} `yaml:"wifi"`

	Storage struct {
		EEPROMFile string `yaml:"eeprom_file" validate:"required"`            // File holding the persistent byte image
		Size       int    `yaml:"size" validate:"gte=128"`                    // Size of the byte image
		BaseOffset int    `yaml:"base_offset" validate:"gte=0,ltefield=Size"` // Offset of the credential regions
	} `yaml:"storage"`

	Time struct {
		NTPServer      string        `yaml:"ntp_server" validate:"required"`  // NTP server host
		QueryTimeout   time.Duration `yaml:"query_timeout" validate:"gt=0"`   // Timeout for one NTP query
		RetryInterval  time.Duration `yaml:"retry_interval" validate:"gt=0"`  // Delay between queries while unsynchronized
		ResyncInterval time.Duration `yaml:"resync_interval" validate:"gt=0"` // Delay between queries once synchronized
		SyncTimeout    time.Duration `yaml:"sync_timeout" validate:"gt=0"`    // Boot budget for the first synchronization
	} `yaml:"time"`

	Display struct {
		Backend string `yaml:"backend" validate:"oneof=log terminal"` // Renderer implementation
	} `yaml:"display"`

	Restart struct {
		Mode     string `yaml:"mode" validate:"oneof=process reboot"` // How a device restart is performed
		ExitCode int    `yaml:"exit_code" validate:"gt=0,lt=256"`     // Process exit code asking the supervisor to restart
	} `yaml:"restart"`

	Logging struct {
		Level      string `yaml:"level" validate:"oneof=trace debug info warn error"` // Minimum log level
		File       string `yaml:"file"`                                               // Rotating log file, empty disables it
		MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`                       // Rotate after this many megabytes
		MaxBackups int    `yaml:"max_backups" validate:"gte=0"`                       // Rotated files to keep
	} `yaml:"logging"`

	Identity struct {
		DeviceFile string `yaml:"device_file" validate:"required"` // Path to the device identity file
	} `yaml:"identity"`

	Heartbeat struct {
		Enabled        bool          `yaml:"enabled"`                                                      // Enable/disable the MQTT heartbeat
		Broker         string        `yaml:"broker" validate:"required_if=Enabled true"`                   // MQTT broker address
		ClientID       string        `yaml:"client_id"`                                                    // MQTT client ID prefix
		CACertificate  string        `yaml:"ca_certificate"`                                               // Path to the CA certificate, empty disables TLS
		Username       string        `yaml:"username"`                                                     // MQTT username
		Password       string        `yaml:"password"`                                                     // MQTT password
		Topic          string        `yaml:"topic" validate:"required_if=Enabled true"`                    // MQTT topic for heartbeats
		Interval       time.Duration `yaml:"interval" validate:"gt=0"`                                     // Interval between heartbeats
		QOS            int           `yaml:"qos" validate:"gte=0,lte=2"`                                   // MQTT QoS level
		ConnectTimeout time.Duration `yaml:"connect_timeout" validate:"gt=0"`                              // Budget for the first broker connection
		Metrics        []string      `yaml:"metrics" validate:"dive,oneof=memory uptime cpu storage wifi"` // Collectors included in each heartbeat
	} `yaml:"heartbeat"`

	OTP struct {
		Secrets []models.OTPSecret `yaml:"secrets" validate:"min=1,max=6,dive"` // Services shown on the display
	} `yaml:"otp"`
}

// LoadConfig loads the YAML configuration from the specified file, applies
// defaults and validates the result.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ApplyDefaults fills every unset field with the firmware default.
func (c *Config) ApplyDefaults() {
	if c.WiFi.Interface == "" {
		c.WiFi.Interface = "wlan0"
	}
	if c.WiFi.NmcliPath == "" {
		c.WiFi.NmcliPath = "nmcli"
	}
	if c.WiFi.ScanTimeout == 0 {
		c.WiFi.ScanTimeout = constants.ScanTimeout
	}
	if c.WiFi.ConnectTimeout == 0 {
		c.WiFi.ConnectTimeout = constants.ConnectTimeout
	}
	if c.WiFi.IncludeHidden == nil {
		includeHidden := true
		c.WiFi.IncludeHidden = &includeHidden
	}
	if c.WiFi.CommandTimeout == 0 {
		c.WiFi.CommandTimeout = 15 * time.Second
	}

	if c.Storage.EEPROMFile == "" {
		c.Storage.EEPROMFile = "/var/lib/otp-display/eeprom.bin"
	}
	if c.Storage.Size == 0 {
		c.Storage.Size = 512
	}

	if c.Time.NTPServer == "" {
		c.Time.NTPServer = "pool.ntp.org"
	}
	if c.Time.QueryTimeout == 0 {
		c.Time.QueryTimeout = 2 * time.Second
	}
	if c.Time.RetryInterval == 0 {
		c.Time.RetryInterval = 2 * time.Second
	}
	if c.Time.ResyncInterval == 0 {
		c.Time.ResyncInterval = 30 * time.Minute
	}
	if c.Time.SyncTimeout == 0 {
		c.Time.SyncTimeout = constants.SyncTimeout
	}

	if c.Display.Backend == "" {
		c.Display.Backend = "log"
	}

	if c.Restart.Mode == "" {
		c.Restart.Mode = "process"
	}
	if c.Restart.ExitCode == 0 {
		c.Restart.ExitCode = 75
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 1
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 2
	}

	if c.Identity.DeviceFile == "" {
		c.Identity.DeviceFile = "/var/lib/otp-display/device.json"
	}

	if c.Heartbeat.ClientID == "" {
		c.Heartbeat.ClientID = "otp-display"
	}
	if c.Heartbeat.Interval == 0 {
		c.Heartbeat.Interval = time.Minute
	}
	if c.Heartbeat.ConnectTimeout == 0 {
		c.Heartbeat.ConnectTimeout = 5 * time.Second
	}
	if c.Heartbeat.Metrics == nil {
		c.Heartbeat.Metrics = []string{"memory", "uptime", "cpu", "storage", "wifi"}
	}
}

// Validate checks field bounds and the credential layout.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fmt.Errorf("invalid config: %w", validationErrors)
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	ssids := make([]string, 0, len(c.WiFi.KnownNetworks))
	for _, n := range c.WiFi.KnownNetworks {
		// The validator counts runes; storage fields are bytes.
		if len(n.SSID) > models.MaxSSIDLength {
			return fmt.Errorf("invalid config: ssid %q is longer than %d bytes", n.SSID, models.MaxSSIDLength)
		}
		if len(n.Password) > models.MaxPasswordLength {
			return fmt.Errorf("invalid config: password for %q is longer than %d bytes", n.SSID, models.MaxPasswordLength)
		}
		ssids = append(ssids, n.SSID)
	}
	if len(SliceToSet(ssids)) != len(ssids) {
		return errors.New("invalid config: wifi.known_networks lists an ssid more than once")
	}

	if c.Storage.BaseOffset+models.CredentialSpan > c.Storage.Size {
		return fmt.Errorf("invalid config: storage base_offset %d leaves no room for %d credential bytes in %d",
			c.Storage.BaseOffset, models.CredentialSpan, c.Storage.Size)
	}
	return nil
}
