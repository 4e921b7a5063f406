package models

import (
	"bytes"
	"unicode/utf8"
)

const (
	// MaxSSIDLength is the width of the persisted SSID field in bytes.
	MaxSSIDLength = 32
	// MaxPasswordLength is the width of the persisted password field in bytes.
	MaxPasswordLength = 64

	// PasswordOffset is where the password region starts, relative to the credential base offset.
	PasswordOffset = 64
	// CredentialSpan is the number of storage bytes reserved for one Credential.
	CredentialSpan = PasswordOffset + MaxPasswordLength
)

// NotKnown marks a scan result that matches no configured network.
const NotKnown = -1

// Credential is the last-known-good network, stored as fixed-width zero-padded fields.
// An all-zero SSID means there is no last-known network.
type Credential struct {
	SSID     [MaxSSIDLength]byte
	Password [MaxPasswordLength]byte
}

// NewCredential builds a Credential, truncating both values to their field widths.
func NewCredential(ssid, password string) Credential {
	var c Credential
	copy(c.SSID[:], ssid)
	copy(c.Password[:], password)
	return c
}

// SSIDString returns the SSID up to the first zero byte.
func (c Credential) SSIDString() string {
	return cString(c.SSID[:])
}

// PasswordString returns the password up to the first zero byte.
func (c Credential) PasswordString() string {
	return cString(c.Password[:])
}

// IsEmpty reports whether the SSID field is all zero.
func (c Credential) IsEmpty() bool {
	return c.SSID == [MaxSSIDLength]byte{}
}

// Valid reports whether the stored SSID decodes as UTF-8 text.
func (c Credential) Valid() bool {
	return utf8.ValidString(c.SSIDString())
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// KnownNetwork is a configured network the device is allowed to join.
type KnownNetwork struct {
	SSID     string `yaml:"ssid" validate:"required,max=32"`
	Password string `yaml:"password" validate:"max=64"`
}

// ScanResult is one access point seen by a single radio scan.
type ScanResult struct {
	SSID           string // Network name, empty for hidden networks
	SignalStrength int    // RSSI-like value, higher is stronger
	IsOpen         bool   // True when the network has no encryption
	KnownIndex     int    // Index into the configured networks, or NotKnown
}

// Tier is the priority group a candidate network belongs to.
type Tier int

const (
	// TierLastKnown is the persisted last-known-good network.
	TierLastKnown Tier = iota + 1
	// TierKnown holds the remaining configured networks.
	TierKnown
	// TierOpen holds unencrypted networks tried without a password.
	TierOpen
)

func (t Tier) String() string {
	switch t {
	case TierLastKnown:
		return "last_known"
	case TierKnown:
		return "known"
	case TierOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Candidate is one entry of the ordered connection attempt sequence.
type Candidate struct {
	SSID           string
	Password       string
	SignalStrength int
	Tier           Tier
}
