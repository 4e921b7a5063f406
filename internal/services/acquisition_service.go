package services

import (
	"fmt"
	"time"

	"github.com/benmeehan/otp-display/internal/constants"
	"github.com/benmeehan/otp-display/internal/models"
	"github.com/benmeehan/otp-display/internal/utils"
	"github.com/benmeehan/otp-display/pkg/display"
	"github.com/benmeehan/otp-display/pkg/radio"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// CredentialRepository persists the last-known-good network.
type CredentialRepository interface {
	Load() models.Credential
	Save(cred models.Credential)
	Clear()
}

// Connector makes one bounded connection attempt.
type Connector interface {
	Attempt(ssid, password string, budget time.Duration) AttemptResult
}

// AcquisitionOptions holds the timing and scan settings of an acquisition cycle.
type AcquisitionOptions struct {
	ScanTimeout    time.Duration
	ConnectTimeout time.Duration
	IncludeHidden  bool
}

// AcquisitionService drives one network acquisition cycle:
// Scanning, Selecting, Connecting, then Connected or Exhausted.
type AcquisitionService struct {
	radio     radio.Driver
	selector  *NetworkSelector
	connector Connector
	store     CredentialRepository
	renderer  display.Renderer
	clock     clockwork.Clock
	options   AcquisitionOptions
	logger    zerolog.Logger

	state      constants.AcquisitionState
	trace      []constants.AcquisitionState
	scan       []models.ScanResult
	candidates []models.Candidate
	next       int
	connected  models.Candidate
}

// NewAcquisitionService initializes a new AcquisitionService in the Scanning state.
func NewAcquisitionService(
	driver radio.Driver,
	selector *NetworkSelector,
	connector Connector,
	store CredentialRepository,
	renderer display.Renderer,
	clock clockwork.Clock,
	options AcquisitionOptions,
	logger zerolog.Logger,
) *AcquisitionService {
	return &AcquisitionService{
		radio:     driver,
		selector:  selector,
		connector: connector,
		store:     store,
		renderer:  renderer,
		clock:     clock,
		options:   options,
		logger:    logger,
		state:     constants.StateScanning,
		trace:     []constants.AcquisitionState{constants.StateScanning},
	}
}

// State returns the current state.
func (a *AcquisitionService) State() constants.AcquisitionState {
	return a.state
}

// Trace returns every state entered so far, in order.
func (a *AcquisitionService) Trace() []constants.AcquisitionState {
	return append([]constants.AcquisitionState(nil), a.trace...)
}

// ConnectedSSID returns the network joined, or "" unless Connected.
func (a *AcquisitionService) ConnectedSSID() string {
	if a.state != constants.StateConnected {
		return ""
	}
	return a.connected.SSID
}

// Step performs exactly one transition. It is a no-op in a terminal state.
func (a *AcquisitionService) Step() {
	switch a.state {
	case constants.StateScanning:
		a.stepScanning()
	case constants.StateSelecting:
		a.stepSelecting()
	case constants.StateConnecting:
		a.stepConnecting()
	}
}

// Run steps until a terminal state is reached and returns it.
func (a *AcquisitionService) Run() constants.AcquisitionState {
	for !a.state.Terminal() {
		a.Step()
	}
	return a.state
}

func (a *AcquisitionService) enter(state constants.AcquisitionState) {
	a.logger.Debug().Str("from", string(a.state)).Str("to", string(state)).Msg("Acquisition state change")
	a.state = state
	a.trace = append(a.trace, state)
}

func (a *AcquisitionService) stepScanning() {
	showStatus(a.renderer, a.logger, constants.HeaderWiFi, "Scanning...")

	if err := a.radio.SetStationMode(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to set station mode")
	}
	if err := a.radio.Disconnect(true); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to reset radio before scanning")
	}
	a.clock.Sleep(constants.RadioSettleDelay)

	handle, err := a.radio.BeginScan(a.options.IncludeHidden)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to start scan")
		a.noNetworksFound()
		return
	}

	var dots ellipsis
	var poll radio.ScanPoll
	result := utils.PollWithTimeout(a.clock, constants.ScanPollInterval, a.options.ScanTimeout, func() bool {
		poll = a.radio.PollScan(handle)
		if poll.State != radio.ScanRunning {
			return true
		}
		showStatus(a.renderer, a.logger, constants.HeaderWiFi, "Scanning"+dots.next())
		return false
	})

	if result == utils.PollTimedOut || poll.State == radio.ScanFailed || len(poll.Results) == 0 {
		a.logger.Warn().
			Str("poll", result.String()).
			Str("scan", poll.State.String()).
			Int("results", len(poll.Results)).
			Msg("No networks found or scan failed")
		a.noNetworksFound()
		return
	}

	a.scan = a.selector.Classify(poll.Results)
	for _, r := range a.scan {
		a.logger.Debug().
			Str("ssid", r.SSID).
			Int("rssi", r.SignalStrength).
			Bool("open", r.IsOpen).
			Bool("known", r.KnownIndex != models.NotKnown).
			Msg("Network in range")
	}
	a.logger.Info().Int("count", len(a.scan)).Msg("Networks in range")
	showStatus(a.renderer, a.logger, constants.HeaderWiFi, fmt.Sprintf("Found %d\nnetworks", len(a.scan)))
	a.clock.Sleep(constants.ScanSummaryHold)

	a.enter(constants.StateSelecting)
}

func (a *AcquisitionService) noNetworksFound() {
	showStatus(a.renderer, a.logger, constants.HeaderWiFi, "No networks\nfound")
	a.exhaust()
}

func (a *AcquisitionService) stepSelecting() {
	last := a.store.Load()
	a.candidates = a.selector.Select(a.scan, last)
	a.next = 0
	a.enter(constants.StateConnecting)
}

func (a *AcquisitionService) stepConnecting() {
	if a.next >= len(a.candidates) {
		a.logger.Warn().Int("candidates", len(a.candidates)).Msg("No candidate network accepted a connection")
		a.exhaust()
		return
	}

	c := a.candidates[a.next]
	a.next++

	switch c.Tier {
	case models.TierLastKnown:
		showStatus(a.renderer, a.logger, constants.HeaderWiFi, "Found last\nused network")
	case models.TierOpen:
		showStatus(a.renderer, a.logger, constants.HeaderWiFi,
			fmt.Sprintf("Trying open\n%s\nRSSI: %d dBm", c.SSID, c.SignalStrength))
	default:
		showStatus(a.renderer, a.logger, constants.HeaderWiFi,
			fmt.Sprintf("Trying\n%s\nRSSI: %d dBm", c.SSID, c.SignalStrength))
	}
	a.clock.Sleep(constants.CandidateHold)

	a.logger.Info().
		Str("ssid", c.SSID).
		Int("rssi", c.SignalStrength).
		Str("tier", c.Tier.String()).
		Msg("Trying candidate network")

	if a.connector.Attempt(c.SSID, c.Password, a.options.ConnectTimeout) != AttemptConnected {
		return
	}

	a.store.Save(models.NewCredential(c.SSID, c.Password))
	a.connected = c
	a.enter(constants.StateConnected)
}

func (a *AcquisitionService) exhaust() {
	a.store.Clear()
	showStatus(a.renderer, a.logger, constants.HeaderWiFi, "No networks\navailable")
	a.enter(constants.StateExhausted)
}
