package services_test

import (
	"time"

	"github.com/benmeehan/otp-display/internal/models"
	"github.com/benmeehan/otp-display/internal/services"
	"github.com/jonboulle/clockwork"
)

// autoClock is a fake clock whose Sleep advances time instead of blocking,
// so single-threaded waits run instantly.
type autoClock struct {
	*clockwork.FakeClock
}

func newAutoClock() *autoClock {
	return &autoClock{FakeClock: clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))}
}

func (c *autoClock) Sleep(d time.Duration) {
	c.Advance(d)
}

// memoryCredentials is an in-memory CredentialRepository.
type memoryCredentials struct {
	cred   models.Credential
	saves  int
	clears int
}

func (m *memoryCredentials) Load() models.Credential { return m.cred }

func (m *memoryCredentials) Save(cred models.Credential) {
	m.cred = cred
	m.saves++
}

func (m *memoryCredentials) Clear() {
	m.cred = models.Credential{}
	m.clears++
}

// scriptedConnector succeeds only for the listed SSIDs and records every attempt.
type scriptedConnector struct {
	accept   map[string]bool
	attempts []string
	budgets  []time.Duration
}

func (s *scriptedConnector) Attempt(ssid, password string, budget time.Duration) services.AttemptResult {
	s.attempts = append(s.attempts, ssid+"/"+password)
	s.budgets = append(s.budgets, budget)
	if s.accept[ssid] {
		return services.AttemptConnected
	}
	return services.AttemptFailed
}

// fakeTimeSync becomes synchronized after a number of steps; a negative
// count never synchronizes.
type fakeTimeSync struct {
	syncAfter int
	steps     int
	epoch     int64
}

func (f *fakeTimeSync) Step() { f.steps++ }

func (f *fakeTimeSync) IsSynchronized() bool {
	return f.syncAfter >= 0 && f.steps >= f.syncAfter
}

func (f *fakeTimeSync) NowEpochSeconds() int64 { return f.epoch }
