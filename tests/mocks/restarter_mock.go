package mocks

import "github.com/stretchr/testify/mock"

// MockRestarter is a mock implementation of device.Restarter
type MockRestarter struct {
	mock.Mock
}

func (m *MockRestarter) Restart(reason string) {
	m.Called(reason)
}
