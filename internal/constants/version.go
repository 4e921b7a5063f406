package constants

import "github.com/Masterminds/semver/v3"

// Version is the firmware version, overridden at build time with
// -ldflags "-X github.com/benmeehan/otp-display/internal/constants.Version=1.2.3".
var Version = "0.1.0"

// FirmwareVersion returns the normalized semantic version, or "0.0.0-dev" when
// the build-time value is not a valid version.
func FirmwareVersion() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return "0.0.0-dev"
	}
	return v.String()
}

// Heartbeat statuses
const (
	// StatusRunning indicates the device is showing codes
	StatusRunning = "running"
	// StatusUnsynchronized indicates the wall clock lost synchronization after boot
	StatusUnsynchronized = "unsynchronized"
)
