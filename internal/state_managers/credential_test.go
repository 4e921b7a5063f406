package state_managers

import (
	"testing"

	"github.com/benmeehan/otp-display/internal/models"
	"github.com/benmeehan/otp-display/pkg/eeprom"
	"github.com/benmeehan/otp-display/pkg/file"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseOffset = 100

func newTestStore(t *testing.T) (*CredentialStore, *eeprom.FileStorage, file.FileOperations) {
	t.Helper()
	fileClient := file.NewFileService(afero.NewMemMapFs())
	storage, err := eeprom.NewFileStorage("/eeprom.bin", 512, fileClient, zerolog.Nop())
	require.NoError(t, err)
	return NewCredentialStore(storage, baseOffset, zerolog.Nop()), storage, fileClient
}

func TestCredentialStoreBlankLoadsEmpty(t *testing.T) {
	store, _, _ := newTestStore(t)
	assert.True(t, store.Load().IsEmpty())
}

func TestCredentialStoreRoundTrip(t *testing.T) {
	store, _, fileClient := newTestStore(t)
	store.Save(models.NewCredential("home", "hunter22"))

	loaded := store.Load()
	assert.Equal(t, "home", loaded.SSIDString())
	assert.Equal(t, "hunter22", loaded.PasswordString())

	// Survives a restart because Save commits.
	storage, err := eeprom.NewFileStorage("/eeprom.bin", 512, fileClient, zerolog.Nop())
	require.NoError(t, err)
	reloaded := NewCredentialStore(storage, baseOffset, zerolog.Nop()).Load()
	assert.Equal(t, loaded, reloaded)
}

func TestCredentialStoreLayout(t *testing.T) {
	store, storage, _ := newTestStore(t)
	store.Save(models.NewCredential("cafe", ""))

	ssid := make([]byte, models.MaxSSIDLength)
	storage.Read(baseOffset, ssid)
	assert.Equal(t, []byte("cafe"), ssid[:4])
	assert.Equal(t, make([]byte, models.MaxSSIDLength-4), ssid[4:])

	password := make([]byte, models.MaxPasswordLength)
	storage.Read(baseOffset+models.PasswordOffset, password)
	assert.Equal(t, make([]byte, models.MaxPasswordLength), password)

	assert.Empty(t, store.Load().PasswordString())
}

func TestCredentialStoreOverwriteLeavesNoTail(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.Save(models.NewCredential("a-long-network-name", "a-long-password"))
	store.Save(models.NewCredential("short", "pw"))

	loaded := store.Load()
	assert.Equal(t, "short", loaded.SSIDString())
	assert.Equal(t, "pw", loaded.PasswordString())
}

func TestCredentialStoreClear(t *testing.T) {
	store, storage, _ := newTestStore(t)
	store.Save(models.NewCredential("home", "hunter22"))
	store.Clear()

	assert.True(t, store.Load().IsEmpty())

	region := make([]byte, models.CredentialSpan)
	storage.Read(baseOffset, region)
	assert.Equal(t, make([]byte, models.CredentialSpan), region)
}

func TestCredentialStoreCorruptLoadsEmpty(t *testing.T) {
	store, storage, _ := newTestStore(t)
	storage.Write(baseOffset, []byte{0xff, 0xfe, 'x'})

	assert.True(t, store.Load().IsEmpty())
}

func TestCredentialStoreTruncatesLongValues(t *testing.T) {
	store, _, _ := newTestStore(t)
	ssid := "0123456789abcdef0123456789abcdef-overflow"
	store.Save(models.NewCredential(ssid, ""))

	assert.Equal(t, ssid[:models.MaxSSIDLength], store.Load().SSIDString())
}
