// Package timesync keeps wall-clock time in step with an NTP server.
package timesync

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Service is a cooperatively driven time source.
type Service interface {
	// Step performs any due synchronization work. It never blocks longer
	// than one NTP query timeout.
	Step()
	IsSynchronized() bool
	NowEpochSeconds() int64
}

// QueryFunc asks an NTP server for the local clock offset.
type QueryFunc func(server string, timeout time.Duration) (time.Duration, error)

// QueryNTP is the default QueryFunc backed by beevik/ntp.
func QueryNTP(server string, timeout time.Duration) (time.Duration, error) {
	resp, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: timeout})
	if err != nil {
		return 0, fmt.Errorf("ntp query to %s failed: %w", server, err)
	}
	if err := resp.Validate(); err != nil {
		return 0, fmt.Errorf("invalid ntp response from %s: %w", server, err)
	}
	return resp.ClockOffset, nil
}

// NTPService tracks the offset between the local clock and an NTP server.
type NTPService struct {
	server         string
	queryTimeout   time.Duration
	retryInterval  time.Duration
	resyncInterval time.Duration
	clock          clockwork.Clock
	query          QueryFunc
	logger         zerolog.Logger

	synchronized bool
	offset       time.Duration
	lastAttempt  time.Time
	attempted    bool
	lastSync     time.Time
}

// NewNTPService creates a new NTPService. A nil query uses QueryNTP.
func NewNTPService(
	server string,
	queryTimeout, retryInterval, resyncInterval time.Duration,
	clock clockwork.Clock,
	query QueryFunc,
	logger zerolog.Logger,
) *NTPService {
	if query == nil {
		query = QueryNTP
	}
	return &NTPService{
		server:         server,
		queryTimeout:   queryTimeout,
		retryInterval:  retryInterval,
		resyncInterval: resyncInterval,
		clock:          clock,
		query:          query,
		logger:         logger,
	}
}

// Step queries the server when a first sync is pending and the retry interval
// has passed, or when the resync interval has elapsed since the last success.
func (s *NTPService) Step() {
	now := s.clock.Now()
	if !s.due(now) {
		return
	}

	s.attempted = true
	s.lastAttempt = now

	offset, err := s.query(s.server, s.queryTimeout)
	if err != nil {
		s.logger.Warn().Err(err).Str("server", s.server).Msg("Time synchronization attempt failed")
		return
	}

	s.offset = offset
	s.lastSync = s.clock.Now()
	if !s.synchronized {
		s.logger.Info().Str("server", s.server).Dur("offset", offset).Msg("Clock synchronized")
	} else {
		s.logger.Debug().Dur("offset", offset).Msg("Clock resynchronized")
	}
	s.synchronized = true
}

func (s *NTPService) due(now time.Time) bool {
	if s.synchronized {
		return now.Sub(s.lastSync) >= s.resyncInterval && now.Sub(s.lastAttempt) >= s.retryInterval
	}
	return !s.attempted || now.Sub(s.lastAttempt) >= s.retryInterval
}

// IsSynchronized reports whether at least one query succeeded.
func (s *NTPService) IsSynchronized() bool {
	return s.synchronized
}

// NowEpochSeconds returns the corrected Unix time in seconds.
func (s *NTPService) NowEpochSeconds() int64 {
	return s.clock.Now().Add(s.offset).Unix()
}
