// Package device restarts the appliance after unrecoverable boot failures.
package device

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Restarter restarts the device. Restart does not return on real hardware.
type Restarter interface {
	Restart(reason string)
}

const (
	ModeProcess = "process"
	ModeReboot  = "reboot"
)

// SystemRestarter exits the process so the supervisor starts it again, or
// reboots the host.
type SystemRestarter struct {
	mode     string
	exitCode int
	logger   zerolog.Logger

	beforeExit []func()

	exit   func(code int)
	reboot func(ctx context.Context) error
}

// NewSystemRestarter creates a restarter for mode (process or reboot).
func NewSystemRestarter(mode string, exitCode int, logger zerolog.Logger) *SystemRestarter {
	return &SystemRestarter{
		mode:     mode,
		exitCode: exitCode,
		logger:   logger,
		exit:     os.Exit,
		reboot: func(ctx context.Context) error {
			return exec.CommandContext(ctx, "systemctl", "reboot").Run()
		},
	}
}

// BeforeExit registers hook to run before the process exits or the host
// reboots. Hooks run in registration order.
func (r *SystemRestarter) BeforeExit(hook func()) {
	r.beforeExit = append(r.beforeExit, hook)
}

// Restart logs reason and restarts. A failed reboot falls back to exiting.
func (r *SystemRestarter) Restart(reason string) {
	r.logger.Warn().Str("reason", reason).Str("mode", r.mode).Msg("Restarting device")

	for _, hook := range r.beforeExit {
		hook()
	}

	if r.mode == ModeReboot {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := r.reboot(ctx)
		cancel()
		if err == nil {
			return
		}
		r.logger.Error().Err(err).Msg("Reboot failed, exiting instead")
	}

	r.exit(r.exitCode)
}
