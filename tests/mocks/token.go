package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockToken is a mock paho token.
type MockToken struct {
	mock.Mock
}

// NewCompletedToken returns a token that has already finished with err.
func NewCompletedToken(err error) *MockToken {
	token := new(MockToken)
	token.On("WaitTimeout", mock.Anything).Return(true).Maybe()
	token.On("Wait").Return(true).Maybe()
	token.On("Completed").Return(true).Maybe()
	token.On("Error").Return(err).Maybe()
	return token
}

// NewPendingToken returns a token that never completes.
func NewPendingToken() *MockToken {
	token := new(MockToken)
	token.On("WaitTimeout", mock.Anything).Return(false).Maybe()
	token.On("Completed").Return(false).Maybe()
	token.On("Error").Return(nil).Maybe()
	return token
}

func (m *MockToken) Error() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockToken) Wait() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockToken) Done() <-chan struct{} {
	args := m.Called()
	return args.Get(0).(<-chan struct{})
}

func (m *MockToken) Completed() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockToken) WaitTimeout(timeout time.Duration) bool {
	args := m.Called(timeout)
	return args.Bool(0)
}
