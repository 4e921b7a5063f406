package services

import (
	"errors"
	"fmt"

	"github.com/benmeehan/otp-display/internal/constants"
	"github.com/benmeehan/otp-display/pkg/device"
	"github.com/benmeehan/otp-display/pkg/display"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// FatalError is a boot failure that ends in a device restart. Header and
// Body are shown before the grace delay; an empty Header keeps the screen
// as the failing stage left it.
type FatalError struct {
	Header string
	Body   string
	Reason string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal boot failure: %s", e.Reason)
}

// Stage is one step of the boot sequence.
type Stage func() error

// BootSequence runs named stages in registration order.
type BootSequence struct {
	stages    *orderedmap.OrderedMap[string, Stage]
	renderer  display.Renderer
	restarter device.Restarter
	clock     clockwork.Clock
	logger    zerolog.Logger
}

// NewBootSequence initializes an empty BootSequence
func NewBootSequence(renderer display.Renderer, restarter device.Restarter, clock clockwork.Clock, logger zerolog.Logger) *BootSequence {
	return &BootSequence{
		stages:    orderedmap.NewOrderedMap[string, Stage](),
		renderer:  renderer,
		restarter: restarter,
		clock:     clock,
		logger:    logger,
	}
}

// Register appends a stage. Registering a name twice keeps the first stage.
func (b *BootSequence) Register(name string, stage Stage) {
	if _, exists := b.stages.Get(name); exists {
		b.logger.Warn().Str("stage", name).Msg("Boot stage is already registered")
		return
	}
	b.stages.Set(name, stage)
	b.logger.Debug().Str("stage", name).Msg("Registered boot stage")
}

// Stages returns the registered stage names in order.
func (b *BootSequence) Stages() []string {
	return b.stages.Keys()
}

// Run executes every stage. A *FatalError shows its message, waits the grace
// delay and restarts the device; Run then returns it. Other errors are logged
// and the sequence continues.
func (b *BootSequence) Run() error {
	for el := b.stages.Front(); el != nil; el = el.Next() {
		name := el.Key

		b.logger.Info().Str("stage", name).Msg("Running boot stage")
		err := el.Value()
		if err == nil {
			continue
		}

		var fatal *FatalError
		if !errors.As(err, &fatal) {
			b.logger.Warn().Err(err).Str("stage", name).Msg("Boot stage failed, continuing")
			continue
		}

		b.logger.Error().Str("stage", name).Str("reason", fatal.Reason).Msg("Fatal boot failure")
		if fatal.Header != "" {
			showStatus(b.renderer, b.logger, fatal.Header, fatal.Body)
		}
		b.clock.Sleep(constants.FatalGraceDelay)
		b.restarter.Restart(fatal.Reason)
		return fatal
	}
	return nil
}

// SplashStage shows the boot splash.
func SplashStage(renderer display.Renderer, logger zerolog.Logger) Stage {
	return func() error {
		logger.Info().Str("version", constants.FirmwareVersion()).Msg("Starting OTP display")
		showStatus(renderer, logger, constants.HeaderInit, "Display...")
		return nil
	}
}

// AcquisitionStage joins a network or fails fatally.
func AcquisitionStage(acq *AcquisitionService) Stage {
	return func() error {
		if acq.Run() == constants.StateConnected {
			return nil
		}
		return &FatalError{
			Header: constants.HeaderWiFi,
			Body:   "Connection\nFailed",
			Reason: "no network could be joined",
		}
	}
}

// TimeGateStage waits for the clock or fails fatally. The gate has already
// rendered the failure text.
func TimeGateStage(gate *TimeGate) Stage {
	return func() error {
		switch result := gate.Wait(); result {
		case TimeSynchronized:
			return nil
		default:
			return &FatalError{Reason: "time gate: " + result.String()}
		}
	}
}
