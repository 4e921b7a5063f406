package device

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRestartProcessModeExits(t *testing.T) {
	r := NewSystemRestarter(ModeProcess, 75, zerolog.Nop())
	code := -1
	r.exit = func(c int) { code = c }
	r.reboot = func(context.Context) error {
		t.Fatal("reboot must not be called in process mode")
		return nil
	}

	r.Restart("ntp sync failed")
	assert.Equal(t, 75, code)
}

func TestRestartRebootMode(t *testing.T) {
	r := NewSystemRestarter(ModeReboot, 75, zerolog.Nop())
	exited := false
	rebooted := false
	r.exit = func(int) { exited = true }
	r.reboot = func(context.Context) error {
		rebooted = true
		return nil
	}

	r.Restart("no networks")
	assert.True(t, rebooted)
	assert.False(t, exited)
}

func TestRestartRebootFailureFallsBackToExit(t *testing.T) {
	r := NewSystemRestarter(ModeReboot, 3, zerolog.Nop())
	code := -1
	r.exit = func(c int) { code = c }
	r.reboot = func(context.Context) error { return errors.New("permission denied") }

	r.Restart("no networks")
	assert.Equal(t, 3, code)
}

func TestRestartRunsHooksBeforeExit(t *testing.T) {
	r := NewSystemRestarter(ModeProcess, 75, zerolog.Nop())
	var events []string
	r.BeforeExit(func() { events = append(events, "close display") })
	r.BeforeExit(func() { events = append(events, "close radio") })
	r.exit = func(int) { events = append(events, "exit") }

	r.Restart("no networks")
	assert.Equal(t, []string{"close display", "close radio", "exit"}, events)
}

func TestRestartRunsHooksBeforeReboot(t *testing.T) {
	r := NewSystemRestarter(ModeReboot, 75, zerolog.Nop())
	var events []string
	r.BeforeExit(func() { events = append(events, "close display") })
	r.exit = func(int) { events = append(events, "exit") }
	r.reboot = func(context.Context) error {
		events = append(events, "reboot")
		return nil
	}

	r.Restart("ntp sync failed")
	assert.Equal(t, []string{"close display", "reboot"}, events)
}
