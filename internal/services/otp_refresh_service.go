package services

import (
	"github.com/benmeehan/otp-display/internal/constants"
	"github.com/benmeehan/otp-display/internal/models"
	"github.com/benmeehan/otp-display/pkg/display"
	"github.com/benmeehan/otp-display/pkg/otp"
	"github.com/rs/zerolog"
)

// codePlaceholder is shown when a code cannot be computed.
const codePlaceholder = "------"

type otpKey struct {
	label string
	key   []byte
}

// OTPRefreshService recomputes codes once per period and redraws the grid on
// every tick.
type OTPRefreshService struct {
	keys     []otpKey
	code     otp.CodeFunc
	renderer display.Renderer
	logger   zerolog.Logger

	lastComputedPeriod int64
	layout             models.DisplayLayout
}

// NewOTPRefreshService decodes every secret once. A nil code uses otp.ComputeCode.
func NewOTPRefreshService(secrets []models.OTPSecret, code otp.CodeFunc, renderer display.Renderer, logger zerolog.Logger) *OTPRefreshService {
	if code == nil {
		code = otp.ComputeCode
	}

	keys := make([]otpKey, 0, len(secrets))
	for _, s := range secrets {
		key := otp.Decode(s.Secret, constants.MaxSecretBytes)
		if len(key) == 0 {
			logger.Warn().Str("label", s.Label).Msg("OTP secret decoded to an empty key")
		}
		keys = append(keys, otpKey{label: s.Label, key: key})
	}

	return &OTPRefreshService{
		keys:               keys,
		code:               code,
		renderer:           renderer,
		logger:             logger,
		lastComputedPeriod: -1,
		layout: models.DisplayLayout{
			TotalItems: len(keys),
			Entries:    make([]models.OTPEntry, len(keys)),
		},
	}
}

// LastComputedPeriod returns the period of the codes on display, or -1.
func (s *OTPRefreshService) LastComputedPeriod() int64 {
	return s.lastComputedPeriod
}

// Tick refreshes the layout for epochSeconds and hands it to the renderer.
func (s *OTPRefreshService) Tick(epochSeconds int64) error {
	if period := otp.Period(epochSeconds); period != s.lastComputedPeriod {
		s.recompute(epochSeconds)
		s.lastComputedPeriod = period
	}

	s.layout.ProgressPercentage = otp.ProgressPercentage(epochSeconds)
	return s.renderer.RenderOTPGrid(&s.layout)
}

func (s *OTPRefreshService) recompute(epochSeconds int64) {
	abbrevLength := display.GridFor(len(s.keys)).AbbrevLength

	for i, k := range s.keys {
		if len(k.key) == 0 {
			s.layout.Entries[i] = models.OTPEntry{
				AbbreviatedLabel: otp.Abbreviate(k.label, abbrevLength),
				Code:             codePlaceholder,
			}
			continue
		}

		code, err := s.code(k.key, epochSeconds)
		if err != nil {
			s.logger.Error().Err(err).Str("label", k.label).Msg("Failed to compute OTP code")
			code = codePlaceholder
		}
		s.layout.Entries[i] = models.OTPEntry{
			AbbreviatedLabel: otp.Abbreviate(k.label, abbrevLength),
			Code:             code,
		}
	}

	s.logger.Debug().Int64("period", otp.Period(epochSeconds)).Int("codes", len(s.keys)).Msg("Recomputed OTP codes")
}
