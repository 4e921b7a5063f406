// Package display renders status screens and the OTP grid.
package display

import "github.com/benmeehan/otp-display/internal/models"

// Renderer draws on the device display.
type Renderer interface {
	RenderStatus(header, body string) error
	RenderOTPGrid(layout *models.DisplayLayout) error
}

// Grid describes how OTP entries are arranged.
type Grid struct {
	Columns      int
	Rows         int
	AbbrevLength int
}

// GridFor picks the grid for total entries.
func GridFor(total int) Grid {
	if total <= 4 {
		return Grid{Columns: 2, Rows: 2, AbbrevLength: 9}
	}
	return Grid{Columns: 3, Rows: 2, AbbrevLength: 6}
}
