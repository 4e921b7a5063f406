package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/benmeehan/otp-display/internal/models"
	"github.com/benmeehan/otp-display/internal/services"
	"github.com/benmeehan/otp-display/tests/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type countingHeartbeat struct {
	ticks []time.Time
}

func (c *countingHeartbeat) Tick(now time.Time) bool {
	c.ticks = append(c.ticks, now)
	return true
}

func TestDeviceLoopThrottlesRedraws(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	renderer := &mocks.RecordingRenderer{}
	ts := &fakeTimeSync{syncAfter: 0, epoch: 1_700_000_010}
	engine := services.NewOTPRefreshService([]models.OTPSecret{{Label: "RFC", Secret: rfcSecret}},
		(&countingCode{}).code, renderer, zerolog.Nop())
	hb := &countingHeartbeat{}

	loop := services.NewDeviceLoop(ts, engine, hb, clock, zerolog.Nop())

	assert.True(t, loop.Iterate(), "first iteration always draws")

	clock.Advance(50 * time.Millisecond)
	assert.False(t, loop.Iterate(), "same second within the refresh interval")

	ts.epoch++
	assert.True(t, loop.Iterate(), "epoch second changed")

	clock.Advance(100 * time.Millisecond)
	assert.True(t, loop.Iterate(), "refresh interval elapsed")

	assert.Len(t, renderer.Layouts, 3)
	assert.Equal(t, 4, ts.steps)
	assert.Len(t, hb.ticks, 4)
}

func TestDeviceLoopRunStopsOnCancel(t *testing.T) {
	clock := newAutoClock()
	renderer := &mocks.RecordingRenderer{}
	ts := &fakeTimeSync{syncAfter: 0, epoch: 1_700_000_000}
	engine := services.NewOTPRefreshService([]models.OTPSecret{{Label: "RFC", Secret: rfcSecret}},
		(&countingCode{}).code, renderer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	hb := &cancelAfter{n: 5, cancel: cancel}
	loop := services.NewDeviceLoop(ts, engine, hb, clock, zerolog.Nop())

	assert.ErrorIs(t, loop.Run(ctx), context.Canceled)
	assert.Equal(t, 5, hb.calls)
}

type cancelAfter struct {
	n      int
	calls  int
	cancel context.CancelFunc
}

func (c *cancelAfter) Tick(time.Time) bool {
	c.calls++
	if c.calls == c.n {
		c.cancel()
	}
	return false
}
