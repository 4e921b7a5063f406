package services

import (
	"context"
	"time"

	"github.com/benmeehan/otp-display/internal/constants"
	"github.com/benmeehan/otp-display/pkg/timesync"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Heartbeater is ticked once per loop iteration.
type Heartbeater interface {
	Tick(now time.Time) bool
}

// DeviceLoop is the single top-level loop that runs after boot.
type DeviceLoop struct {
	timeSync  timesync.Service
	engine    *OTPRefreshService
	heartbeat Heartbeater
	clock     clockwork.Clock
	logger    zerolog.Logger

	lastRender time.Time
	lastEpoch  int64
}

// NewDeviceLoop initializes a new DeviceLoop. heartbeat may be nil.
func NewDeviceLoop(timeSync timesync.Service, engine *OTPRefreshService, heartbeat Heartbeater, clock clockwork.Clock, logger zerolog.Logger) *DeviceLoop {
	return &DeviceLoop{
		timeSync:  timeSync,
		engine:    engine,
		heartbeat: heartbeat,
		clock:     clock,
		logger:    logger,
		lastEpoch: -1,
	}
}

// Iterate runs one loop iteration without the idle delay. It reports whether
// the OTP grid was redrawn.
func (l *DeviceLoop) Iterate() bool {
	l.timeSync.Step()

	epoch := l.timeSync.NowEpochSeconds()
	now := l.clock.Now()
	rendered := false

	if epoch != l.lastEpoch || now.Sub(l.lastRender) >= constants.UIRefreshInterval {
		if err := l.engine.Tick(epoch); err != nil {
			l.logger.Warn().Err(err).Msg("Failed to render OTP grid")
		}
		l.lastRender = now
		l.lastEpoch = epoch
		rendered = true
	}

	if l.heartbeat != nil {
		l.heartbeat.Tick(now)
	}
	return rendered
}

// Run iterates until ctx is cancelled.
func (l *DeviceLoop) Run(ctx context.Context) error {
	l.logger.Info().Msg("Entering display loop")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info().Msg("Display loop stopped")
			return ctx.Err()
		default:
		}

		l.Iterate()
		l.clock.Sleep(constants.LoopIdleDelay)
	}
}
