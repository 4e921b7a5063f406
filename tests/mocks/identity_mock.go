package mocks

import "github.com/stretchr/testify/mock"

// MockDeviceInfo is a mock implementation of the DeviceInfoInterface
type MockDeviceInfo struct {
	mock.Mock
}

func (m *MockDeviceInfo) EnsureDeviceID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockDeviceInfo) GetDeviceID() string {
	args := m.Called()
	return args.String(0)
}
