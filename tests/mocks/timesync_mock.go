package mocks

import "github.com/stretchr/testify/mock"

// MockTimeService is a mock implementation of timesync.Service
type MockTimeService struct {
	mock.Mock
}

func (m *MockTimeService) Step() {
	m.Called()
}

func (m *MockTimeService) IsSynchronized() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockTimeService) NowEpochSeconds() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}
