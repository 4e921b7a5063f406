package mqtt

import (
	"errors"
	"testing"
	"time"

	"github.com/benmeehan/otp-display/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestInitializeFailsOnUnreadableCA(t *testing.T) {
	fileClient := new(mocks.MockFileOperations)
	fileClient.On("ReadFileRaw", "/etc/ca.pem").Return(nil, errors.New("no such file"))

	s := NewMqttService(fileClient)
	err := s.Initialize(Options{
		Broker:         "ssl://broker:8883",
		ClientID:       "otp-display",
		CACertPath:     "/etc/ca.pem",
		ConnectTimeout: time.Second,
	})

	assert.ErrorContains(t, err, "failed to read CA certificate")
	fileClient.AssertExpectations(t)
}

func TestInitializeRejectsInvalidCA(t *testing.T) {
	fileClient := new(mocks.MockFileOperations)
	fileClient.On("ReadFileRaw", mock.Anything).Return([]byte("not a certificate"), nil)

	s := NewMqttService(fileClient)
	err := s.Initialize(Options{Broker: "ssl://broker:8883", CACertPath: "/etc/ca.pem", ConnectTimeout: time.Second})

	assert.ErrorContains(t, err, "failed to append CA certificate")
}

func TestPublishDelegatesToClient(t *testing.T) {
	client := new(mocks.MockMQTTClient)
	token := new(mocks.MockToken)
	client.On("Publish", "devices/hb", byte(1), false, []byte("{}")).Return(token)
	client.On("IsConnected").Return(true)
	client.On("Disconnect", uint(250)).Return()

	s := &MqttService{client: client}
	assert.Equal(t, token, s.Publish("devices/hb", 1, false, []byte("{}")))
	assert.True(t, s.IsConnected())
	s.Disconnect(250)

	client.AssertExpectations(t)
}

func TestUninitializedServiceIsDisconnected(t *testing.T) {
	s := NewMqttService(nil)
	assert.False(t, s.IsConnected())
	s.Disconnect(0)
}
