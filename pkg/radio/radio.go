// Package radio abstracts the Wi-Fi station primitives the acquisition state
// machine needs: mode selection, asynchronous scans and asynchronous association.
package radio

import "errors"

// ScanState reports the progress of an asynchronous scan.
type ScanState int

const (
	ScanRunning ScanState = iota
	ScanFailed
	ScanDone
)

func (s ScanState) String() string {
	switch s {
	case ScanRunning:
		return "running"
	case ScanFailed:
		return "failed"
	case ScanDone:
		return "done"
	default:
		return "unknown"
	}
}

// ConnectionStatus is the association state of the station interface.
type ConnectionStatus int

const (
	NotConnected ConnectionStatus = iota
	Connected
)

func (s ConnectionStatus) String() string {
	if s == Connected {
		return "connected"
	}
	return "not_connected"
}

// ScanHandle identifies one scan started with BeginScan.
type ScanHandle int

// AccessPoint is one network seen by a scan.
type AccessPoint struct {
	SSID   string // Empty for hidden networks
	Signal int    // Signal strength in dBm, higher is stronger
	Open   bool   // No encryption
}

// ScanPoll is the answer to PollScan.
type ScanPoll struct {
	State   ScanState
	Results []AccessPoint // Set when State is ScanDone
}

// ErrUnknownScan is returned for a handle that is not the current scan.
var ErrUnknownScan = errors.New("radio: unknown scan handle")

// Driver is the station-mode radio.
type Driver interface {
	SetStationMode() error
	Disconnect(clearCredentials bool) error
	BeginScan(includeHidden bool) (ScanHandle, error)
	PollScan(handle ScanHandle) ScanPoll
	BeginConnect(ssid, password string) error
	PollConnectionStatus() ConnectionStatus
}
