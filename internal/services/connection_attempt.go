package services

import (
	"fmt"
	"time"

	"github.com/benmeehan/otp-display/internal/constants"
	"github.com/benmeehan/otp-display/internal/utils"
	"github.com/benmeehan/otp-display/pkg/display"
	"github.com/benmeehan/otp-display/pkg/radio"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// AttemptResult is the outcome of one connection attempt.
type AttemptResult int

const (
	AttemptConnected AttemptResult = iota
	AttemptFailed
)

func (r AttemptResult) String() string {
	if r == AttemptConnected {
		return "connected"
	}
	return "failed"
}

// ConnectionAttempt makes exactly one bounded association attempt.
type ConnectionAttempt struct {
	radio    radio.Driver
	renderer display.Renderer
	clock    clockwork.Clock
	logger   zerolog.Logger
}

// NewConnectionAttempt initializes a new ConnectionAttempt
func NewConnectionAttempt(driver radio.Driver, renderer display.Renderer, clock clockwork.Clock, logger zerolog.Logger) *ConnectionAttempt {
	return &ConnectionAttempt{
		radio:    driver,
		renderer: renderer,
		clock:    clock,
		logger:   logger,
	}
}

// Attempt resets the radio, starts association and polls until connected or
// budget has elapsed. A failed attempt leaves the radio disconnected.
func (ca *ConnectionAttempt) Attempt(ssid, password string, budget time.Duration) AttemptResult {
	logger := ca.logger.With().Str("ssid", ssid).Logger()
	shown := display.Truncate(ssid, constants.SSIDDisplayWidth)

	if err := ca.radio.Disconnect(true); err != nil {
		logger.Warn().Err(err).Msg("Failed to reset radio before connecting")
	}
	ca.clock.Sleep(constants.RadioSettleDelay)
	if err := ca.radio.SetStationMode(); err != nil {
		logger.Warn().Err(err).Msg("Failed to set station mode")
	}
	ca.clock.Sleep(constants.RadioSettleDelay)

	showStatus(ca.renderer, logger, constants.HeaderWiFi, "Connecting to\n"+shown)
	logger.Info().Dur("budget", budget).Msg("Attempting to connect")

	if err := ca.radio.BeginConnect(ssid, password); err != nil {
		logger.Error().Err(err).Msg("Failed to start association")
		return ca.fail(logger, shown)
	}

	var dots ellipsis
	var lastUI time.Time
	uiShown := false
	result := utils.PollWithTimeout(ca.clock, constants.ConnectPollInterval, budget, func() bool {
		if ca.radio.PollConnectionStatus() == radio.Connected {
			return true
		}
		if !uiShown || ca.clock.Since(lastUI) >= constants.ConnectUIInterval {
			showStatus(ca.renderer, logger, constants.HeaderWiFi, "Connecting to\n"+shown+dots.next())
			lastUI = ca.clock.Now()
			uiShown = true
		}
		return false
	})

	if result == utils.PollSuccess {
		logger.Info().Msg("Connected")
		showStatus(ca.renderer, logger, constants.HeaderWiFi, fmt.Sprintf("Connected to\n%s", shown))
		ca.clock.Sleep(constants.CandidateHold)
		return AttemptConnected
	}

	logger.Warn().Msg("Connection attempt timed out")
	return ca.fail(logger, shown)
}

func (ca *ConnectionAttempt) fail(logger zerolog.Logger, shown string) AttemptResult {
	showStatus(ca.renderer, logger, constants.HeaderWiFi, fmt.Sprintf("Failed to\nconnect to\n%s", shown))
	ca.clock.Sleep(constants.CandidateHold)
	if err := ca.radio.Disconnect(false); err != nil {
		logger.Warn().Err(err).Msg("Failed to disconnect after failed attempt")
	}
	return AttemptFailed
}
