package constants

import "time"

const (
	// OTPPeriodSeconds is the fixed TOTP rotation period.
	OTPPeriodSeconds = 30
	// MaxOTPSecrets is the number of codes the grid can hold.
	MaxOTPSecrets = 6
	// MaxSecretBytes bounds a decoded OTP key.
	MaxSecretBytes = 32

	// UIRefreshInterval throttles OTP grid redraws within one epoch second.
	UIRefreshInterval = 100 * time.Millisecond
	// LoopIdleDelay is slept at the end of each main loop iteration.
	LoopIdleDelay = 10 * time.Millisecond

	// SSIDDisplayWidth is how many bytes of a network name fit on one status line.
	SSIDDisplayWidth = 16
)

// Status screen headers.
const (
	HeaderInit = "Initializing"
	HeaderWiFi = "WiFi"
	HeaderNTP  = "NTP Sync"
)
