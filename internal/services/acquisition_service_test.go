package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/benmeehan/otp-display/internal/constants"
	"github.com/benmeehan/otp-display/internal/models"
	"github.com/benmeehan/otp-display/internal/services"
	"github.com/benmeehan/otp-display/pkg/radio"
	"github.com/benmeehan/otp-display/tests/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type acquisitionFixture struct {
	driver    *mocks.MockRadioDriver
	renderer  *mocks.RecordingRenderer
	store     *memoryCredentials
	connector *scriptedConnector
	clock     *autoClock
	svc       *services.AcquisitionService
}

func newAcquisitionFixture(accept ...string) *acquisitionFixture {
	f := &acquisitionFixture{
		driver:    new(mocks.MockRadioDriver),
		renderer:  &mocks.RecordingRenderer{},
		store:     &memoryCredentials{},
		connector: &scriptedConnector{accept: map[string]bool{}},
		clock:     newAutoClock(),
	}
	for _, ssid := range accept {
		f.connector.accept[ssid] = true
	}

	f.driver.On("SetStationMode").Return(nil)
	f.driver.On("Disconnect", true).Return(nil)

	f.svc = services.NewAcquisitionService(
		f.driver,
		services.NewNetworkSelector(testKnownNetworks, zerolog.Nop()),
		f.connector,
		f.store,
		f.renderer,
		f.clock,
		services.AcquisitionOptions{
			ScanTimeout:    constants.ScanTimeout,
			ConnectTimeout: constants.ConnectTimeout,
			IncludeHidden:  true,
		},
		zerolog.Nop(),
	)
	return f
}

func TestAcquisitionZeroResultsGoesStraightToExhausted(t *testing.T) {
	f := newAcquisitionFixture()
	f.store.cred = models.NewCredential("home", "home-pass")
	f.driver.On("BeginScan", true).Return(radio.ScanHandle(1), nil)
	f.driver.On("PollScan", radio.ScanHandle(1)).Return(radio.ScanPoll{State: radio.ScanDone})

	f.svc.Step()

	assert.Equal(t, []constants.AcquisitionState{constants.StateScanning, constants.StateExhausted}, f.svc.Trace())
	assert.Equal(t, 1, f.store.clears)
	assert.True(t, f.store.cred.IsEmpty())
	assert.Empty(t, f.connector.attempts)
	assert.Equal(t, []string{
		"WiFi|Scanning...",
		"WiFi|No networks\nfound",
		"WiFi|No networks\navailable",
	}, f.renderer.Statuses)
}

func TestAcquisitionScanFailure(t *testing.T) {
	f := newAcquisitionFixture()
	f.driver.On("BeginScan", true).Return(radio.ScanHandle(7), nil)
	f.driver.On("PollScan", radio.ScanHandle(7)).Return(radio.ScanPoll{State: radio.ScanFailed})

	assert.Equal(t, constants.StateExhausted, f.svc.Run())
	assert.Equal(t, []constants.AcquisitionState{constants.StateScanning, constants.StateExhausted}, f.svc.Trace())
}

func TestAcquisitionBeginScanError(t *testing.T) {
	f := newAcquisitionFixture()
	f.driver.On("BeginScan", true).Return(radio.ScanHandle(0), errors.New("radio off"))

	assert.Equal(t, constants.StateExhausted, f.svc.Run())
	f.driver.AssertNotCalled(t, "PollScan", radio.ScanHandle(0))
}

func TestAcquisitionScanTimeout(t *testing.T) {
	f := newAcquisitionFixture()
	f.driver.On("BeginScan", true).Return(radio.ScanHandle(1), nil)
	f.driver.On("PollScan", radio.ScanHandle(1)).Return(radio.ScanPoll{State: radio.ScanRunning})

	start := f.clock.Now()
	assert.Equal(t, constants.StateExhausted, f.svc.Run())

	assert.GreaterOrEqual(t, f.clock.Since(start), constants.ScanTimeout)
	assert.True(t, f.renderer.Contains("WiFi", "Scanning."))
	assert.True(t, f.renderer.Contains("WiFi", "Scanning.."))
	assert.True(t, f.renderer.Contains("WiFi", "No networks\nfound"))
}

func TestAcquisitionConnectsAndSaves(t *testing.T) {
	f := newAcquisitionFixture("office")
	f.store.cred = models.NewCredential("home", "old-pass")
	f.driver.On("BeginScan", true).Return(radio.ScanHandle(1), nil)
	f.driver.On("PollScan", radio.ScanHandle(1)).Return(radio.ScanPoll{State: radio.ScanRunning}).Once()
	f.driver.On("PollScan", radio.ScanHandle(1)).Return(radio.ScanPoll{State: radio.ScanDone, Results: []radio.AccessPoint{
		{SSID: "home", Signal: -70},
		{SSID: "office", Signal: -50},
		{SSID: "cafe", Signal: -40, Open: true},
	}})

	f.svc.Step()
	assert.Equal(t, constants.StateSelecting, f.svc.State())
	f.svc.Step()
	assert.Equal(t, constants.StateConnecting, f.svc.State())
	f.svc.Step()
	assert.Equal(t, constants.StateConnecting, f.svc.State())
	f.svc.Step()
	require.Equal(t, constants.StateConnected, f.svc.State())

	assert.Equal(t, []constants.AcquisitionState{
		constants.StateScanning, constants.StateSelecting, constants.StateConnecting, constants.StateConnected,
	}, f.svc.Trace())
	assert.Equal(t, []string{"home/home-pass", "office/office-pass"}, f.connector.attempts)
	assert.Equal(t, []time.Duration{constants.ConnectTimeout, constants.ConnectTimeout}, f.connector.budgets)
	assert.Equal(t, models.NewCredential("office", "office-pass"), f.store.cred)
	assert.Equal(t, 0, f.store.clears)
	assert.Equal(t, "office", f.svc.ConnectedSSID())

	assert.True(t, f.renderer.Contains("WiFi", "Found 3\nnetworks"))
	assert.True(t, f.renderer.Contains("WiFi", "Found last\nused network"))
	assert.True(t, f.renderer.Contains("WiFi", "Trying\noffice\nRSSI: -50 dBm"))

	// terminal states ignore further steps
	f.svc.Step()
	assert.Len(t, f.svc.Trace(), 4)
}

func TestAcquisitionExhaustsCandidates(t *testing.T) {
	f := newAcquisitionFixture()
	f.store.cred = models.NewCredential("home", "home-pass")
	f.driver.On("BeginScan", true).Return(radio.ScanHandle(1), nil)
	f.driver.On("PollScan", radio.ScanHandle(1)).Return(radio.ScanPoll{State: radio.ScanDone, Results: []radio.AccessPoint{
		{SSID: "home", Signal: -70},
		{SSID: "cafe", Signal: -40, Open: true},
		{SSID: "neighbour", Signal: -30},
	}})

	assert.Equal(t, constants.StateExhausted, f.svc.Run())

	assert.Equal(t, []constants.AcquisitionState{
		constants.StateScanning, constants.StateSelecting, constants.StateConnecting, constants.StateExhausted,
	}, f.svc.Trace())
	assert.Equal(t, []string{"home/home-pass", "cafe/"}, f.connector.attempts)
	assert.Equal(t, 1, f.store.clears)
	assert.Equal(t, 0, f.store.saves)
	assert.Equal(t, "", f.svc.ConnectedSSID())
	assert.True(t, f.renderer.Contains("WiFi", "Trying open\ncafe\nRSSI: -40 dBm"))
	assert.Equal(t, "WiFi|No networks\navailable", f.renderer.Statuses[len(f.renderer.Statuses)-1])
}

func TestAcquisitionOpenNetworkSavedWithEmptyPassword(t *testing.T) {
	f := newAcquisitionFixture("cafe")
	f.driver.On("BeginScan", true).Return(radio.ScanHandle(1), nil)
	f.driver.On("PollScan", radio.ScanHandle(1)).Return(radio.ScanPoll{State: radio.ScanDone, Results: []radio.AccessPoint{
		{SSID: "cafe", Signal: -40, Open: true},
	}})

	assert.Equal(t, constants.StateConnected, f.svc.Run())
	assert.Equal(t, "cafe", f.store.cred.SSIDString())
	assert.Equal(t, "", f.store.cred.PasswordString())
}
