package mocks

import (
	"github.com/benmeehan/otp-display/pkg/radio"
	"github.com/stretchr/testify/mock"
)

// MockRadioDriver is a mock implementation of radio.Driver
type MockRadioDriver struct {
	mock.Mock
}

func (m *MockRadioDriver) SetStationMode() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRadioDriver) Disconnect(clearCredentials bool) error {
	args := m.Called(clearCredentials)
	return args.Error(0)
}

func (m *MockRadioDriver) BeginScan(includeHidden bool) (radio.ScanHandle, error) {
	args := m.Called(includeHidden)
	return args.Get(0).(radio.ScanHandle), args.Error(1)
}

func (m *MockRadioDriver) PollScan(handle radio.ScanHandle) radio.ScanPoll {
	args := m.Called(handle)
	return args.Get(0).(radio.ScanPoll)
}

func (m *MockRadioDriver) BeginConnect(ssid, password string) error {
	args := m.Called(ssid, password)
	return args.Error(0)
}

func (m *MockRadioDriver) PollConnectionStatus() radio.ConnectionStatus {
	args := m.Called()
	return args.Get(0).(radio.ConnectionStatus)
}
