package otp

import (
	"encoding/base32"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// PeriodSeconds is the fixed code rotation period.
const PeriodSeconds = 30

// CodeFunc computes the 6-digit code for a decoded secret at an epoch time.
type CodeFunc func(secret []byte, epochSeconds int64) (string, error)

var secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// ComputeCode is the RFC 6238 TOTP code (HMAC-SHA1, 6 digits, 30 second period).
func ComputeCode(secret []byte, epochSeconds int64) (string, error) {
	code, err := totp.GenerateCodeCustom(secretEncoding.EncodeToString(secret), time.Unix(epochSeconds, 0).UTC(), totp.ValidateOpts{
		Period:    PeriodSeconds,
		Skew:      0,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("otp: failed to compute code: %w", err)
	}
	return code, nil
}

// Period returns the rotation period an epoch time falls into.
func Period(epochSeconds int64) int64 {
	return floorDiv(epochSeconds, PeriodSeconds)
}

// ProgressPercentage counts down linearly from 100 at the start of a period
// towards the next rotation.
func ProgressPercentage(epochSeconds int64) int {
	elapsed := epochSeconds - floorDiv(epochSeconds, PeriodSeconds)*PeriodSeconds
	return 100 - int(elapsed*100/PeriodSeconds)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
