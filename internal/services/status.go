package services

import (
	"strings"

	"github.com/benmeehan/otp-display/pkg/display"
	"github.com/rs/zerolog"
)

// showStatus renders a status screen and mirrors it to the diagnostic log.
func showStatus(renderer display.Renderer, logger zerolog.Logger, header, body string) {
	logger.Debug().Str("header", header).Str("body", body).Msg("Status screen")
	if err := renderer.RenderStatus(header, body); err != nil {
		logger.Warn().Err(err).Str("header", header).Msg("Failed to render status")
	}
}

// ellipsis cycles through one to three dots.
type ellipsis struct {
	dots int
}

func (e *ellipsis) next() string {
	s := strings.Repeat(".", e.dots+1)
	e.dots = (e.dots + 1) % 3
	return s
}
