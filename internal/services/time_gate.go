package services

import (
	"time"

	"github.com/benmeehan/otp-display/internal/constants"
	"github.com/benmeehan/otp-display/internal/utils"
	"github.com/benmeehan/otp-display/pkg/display"
	"github.com/benmeehan/otp-display/pkg/radio"
	"github.com/benmeehan/otp-display/pkg/timesync"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// TimeGateResult is the outcome of waiting for the wall clock.
type TimeGateResult int

const (
	TimeSynchronized TimeGateResult = iota
	TimeSyncTimeout
	TimeConnectionLost
)

func (r TimeGateResult) String() string {
	switch r {
	case TimeSynchronized:
		return "synchronized"
	case TimeSyncTimeout:
		return "sync_timeout"
	case TimeConnectionLost:
		return "connection_lost"
	default:
		return "unknown"
	}
}

// TimeGate blocks boot until the clock is synchronized.
type TimeGate struct {
	timeSync timesync.Service
	radio    radio.Driver
	renderer display.Renderer
	clock    clockwork.Clock
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewTimeGate initializes a new TimeGate
func NewTimeGate(
	timeSync timesync.Service,
	driver radio.Driver,
	renderer display.Renderer,
	clock clockwork.Clock,
	timeout time.Duration,
	logger zerolog.Logger,
) *TimeGate {
	return &TimeGate{
		timeSync: timeSync,
		radio:    driver,
		renderer: renderer,
		clock:    clock,
		timeout:  timeout,
		logger:   logger,
	}
}

// Wait services the time source every poll interval until it reports
// synchronized, the timeout elapses or the radio drops its connection.
func (g *TimeGate) Wait() TimeGateResult {
	showStatus(g.renderer, g.logger, constants.HeaderNTP, "Syncing...")

	lost := false
	result := utils.PollWithTimeout(g.clock, constants.SyncPollInterval, g.timeout, func() bool {
		if g.timeSync.IsSynchronized() {
			return true
		}
		g.timeSync.Step()
		if g.radio.PollConnectionStatus() != radio.Connected {
			lost = true
			return true
		}
		return g.timeSync.IsSynchronized()
	})

	switch {
	case lost:
		g.logger.Error().Msg("WiFi disconnected during time sync")
		showStatus(g.renderer, g.logger, constants.HeaderNTP, "WiFi disconnected\nRestarting...")
		return TimeConnectionLost
	case result == utils.PollTimedOut:
		g.logger.Error().Dur("timeout", g.timeout).Msg("Time sync failed")
		showStatus(g.renderer, g.logger, constants.HeaderNTP, "NTP sync failed\nRestarting...")
		return TimeSyncTimeout
	}

	g.logger.Info().Int64("epoch", g.timeSync.NowEpochSeconds()).Msg("Time synchronized")
	showStatus(g.renderer, g.logger, constants.HeaderNTP, "Synchronized")
	g.clock.Sleep(constants.SyncSuccessHold)
	return TimeSynchronized
}
