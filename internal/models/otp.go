package models

// OTPSecret is a configured service whose codes are shown on the display.
type OTPSecret struct {
	Label  string `yaml:"label" validate:"required"`
	Secret string `yaml:"secret" validate:"required"` // Base32 encoded shared secret
}

// OTPEntry is the display-ready form of one OTPSecret.
type OTPEntry struct {
	AbbreviatedLabel string `json:"label"`
	Code             string `json:"code"`
}

// DisplayLayout is what the renderer draws for the OTP grid.
// The renderer must treat it as read-only.
type DisplayLayout struct {
	ProgressPercentage int        `json:"progress"`
	TotalItems         int        `json:"total_items"`
	Entries            []OTPEntry `json:"entries"`
}
