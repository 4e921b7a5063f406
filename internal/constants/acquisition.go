package constants

import "time"

// AcquisitionState is a state of the network acquisition state machine.
type AcquisitionState string

const (
	StateScanning   AcquisitionState = "scanning"
	StateSelecting  AcquisitionState = "selecting"
	StateConnecting AcquisitionState = "connecting"
	StateConnected  AcquisitionState = "connected"
	StateExhausted  AcquisitionState = "exhausted"
)

// Terminal reports whether the acquisition cycle has finished.
func (s AcquisitionState) Terminal() bool {
	return s == StateConnected || s == StateExhausted
}

const (
	// ScanTimeout bounds the wait for an asynchronous scan to complete.
	ScanTimeout = 10 * time.Second
	// ScanPollInterval is the delay between scan completion checks.
	ScanPollInterval = 100 * time.Millisecond

	// ConnectTimeout is the single-shot budget for one connection attempt.
	ConnectTimeout = 10 * time.Second
	// ConnectPollInterval is the delay between connection status checks.
	ConnectPollInterval = 100 * time.Millisecond
	// ConnectUIInterval is how often the "Connecting" screen is refreshed while polling.
	ConnectUIInterval = 250 * time.Millisecond

	// RadioSettleDelay follows a disconnect or a mode change.
	RadioSettleDelay = 100 * time.Millisecond
	// CandidateHold keeps per-candidate and result screens readable.
	CandidateHold = 500 * time.Millisecond
	// ScanSummaryHold keeps the "Found N networks" screen readable.
	ScanSummaryHold = 1 * time.Second
)

const (
	// SyncTimeout bounds the wait for the wall clock to synchronize.
	SyncTimeout = 30 * time.Second
	// SyncPollInterval is the delay between synchronization checks.
	SyncPollInterval = 500 * time.Millisecond
	// SyncSuccessHold keeps the "Synchronized" screen readable.
	SyncSuccessHold = 1 * time.Second

	// FatalGraceDelay is shown before every restart.
	FatalGraceDelay = 2 * time.Second
)
