package state_managers

import (
	"github.com/benmeehan/otp-display/internal/models"
	"github.com/benmeehan/otp-display/pkg/eeprom"
	"github.com/rs/zerolog"
)

// CredentialStore persists the last-known-good network in two fixed-width
// regions of byte storage: the SSID at base and the password at base+PasswordOffset.
type CredentialStore struct {
	storage    eeprom.Storage
	baseOffset int
	logger     zerolog.Logger
}

// NewCredentialStore initializes a new CredentialStore
func NewCredentialStore(storage eeprom.Storage, baseOffset int, logger zerolog.Logger) *CredentialStore {
	return &CredentialStore{
		storage:    storage,
		baseOffset: baseOffset,
		logger:     logger,
	}
}

// Load reads the stored credential. It never fails: absent or corrupt data
// yields the zero Credential, meaning there is no last-known network.
func (cs *CredentialStore) Load() models.Credential {
	var cred models.Credential
	cs.storage.Read(cs.baseOffset, cred.SSID[:])
	cs.storage.Read(cs.baseOffset+models.PasswordOffset, cred.Password[:])

	if !cred.IsEmpty() && !cred.Valid() {
		cs.logger.Warn().Msg("Stored network credential is corrupt, ignoring it")
		return models.Credential{}
	}

	if cred.IsEmpty() {
		cs.logger.Debug().Msg("No last-known network stored")
	} else {
		cs.logger.Info().Str("ssid", cred.SSIDString()).Msg("Loaded last-known network")
	}
	return cred
}

// Save writes both fixed-width fields and commits.
func (cs *CredentialStore) Save(cred models.Credential) {
	cs.storage.Write(cs.baseOffset, cred.SSID[:])
	cs.storage.Write(cs.baseOffset+models.PasswordOffset, cred.Password[:])
	cs.commit("save")
	cs.logger.Info().Str("ssid", cred.SSIDString()).Msg("Saved last-known network")
}

// Clear zeroes both fields and commits.
func (cs *CredentialStore) Clear() {
	cs.storage.Write(cs.baseOffset, make([]byte, models.MaxSSIDLength))
	cs.storage.Write(cs.baseOffset+models.PasswordOffset, make([]byte, models.MaxPasswordLength))
	cs.commit("clear")
	cs.logger.Info().Msg("Cleared last-known network")
}

// commit logs storage failures; they are never surfaced to callers.
func (cs *CredentialStore) commit(op string) {
	if err := cs.storage.Commit(); err != nil {
		cs.logger.Error().Err(err).Str("operation", op).Msg("Failed to commit credential storage")
	}
}
