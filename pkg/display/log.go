package display

import (
	"github.com/benmeehan/otp-display/internal/models"
	"github.com/rs/zerolog"
)

// LogRenderer writes every frame to the logger. It is the headless backend.
type LogRenderer struct {
	logger zerolog.Logger
}

func NewLogRenderer(logger zerolog.Logger) *LogRenderer {
	return &LogRenderer{logger: logger}
}

func (r *LogRenderer) RenderStatus(header, body string) error {
	msg := NewStatusMessage(header, body)
	r.logger.Info().
		Str("header", msg.Header).
		Strs("lines", msg.Lines()).
		Bool("large", msg.LargeBody()).
		Msg("Status")
	return nil
}

func (r *LogRenderer) RenderOTPGrid(layout *models.DisplayLayout) error {
	if layout == nil {
		return nil
	}
	labels := make([]string, 0, len(layout.Entries))
	for _, e := range layout.Entries {
		labels = append(labels, e.AbbreviatedLabel)
	}
	// codes stay out of the log
	r.logger.Debug().
		Int("progress", layout.ProgressPercentage).
		Int("items", layout.TotalItems).
		Strs("labels", labels).
		Msg("OTP grid")
	return nil
}
