package mocks

import (
	"github.com/benmeehan/otp-display/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockRenderer is a mock implementation of display.Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderStatus(header, body string) error {
	args := m.Called(header, body)
	return args.Error(0)
}

func (m *MockRenderer) RenderOTPGrid(layout *models.DisplayLayout) error {
	args := m.Called(layout)
	return args.Error(0)
}

// RecordingRenderer keeps every frame it is asked to draw.
type RecordingRenderer struct {
	Statuses []string
	Layouts  []models.DisplayLayout
}

func (r *RecordingRenderer) RenderStatus(header, body string) error {
	r.Statuses = append(r.Statuses, header+"|"+body)
	return nil
}

func (r *RecordingRenderer) RenderOTPGrid(layout *models.DisplayLayout) error {
	r.Layouts = append(r.Layouts, *layout)
	return nil
}

// Contains reports whether a status with the given header and body was drawn.
func (r *RecordingRenderer) Contains(header, body string) bool {
	for _, s := range r.Statuses {
		if s == header+"|"+body {
			return true
		}
	}
	return false
}
