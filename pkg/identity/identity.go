package identity

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/benmeehan/otp-display/pkg/file"
	"github.com/google/uuid"
)

// Identity holds the device's unique identifier and other metadata.
type Identity struct {
	ID       string          `json:"device_id,omitempty"`
	Name     string          `json:"device_name,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// DeviceInfoInterface defines methods for managing device identity.
type DeviceInfoInterface interface {
	EnsureDeviceID() (string, error)
	GetDeviceID() string
}

// DeviceInfo manages the device identity and its associated file operations.
type DeviceInfo struct {
	DeviceInfoFile string
	Identity       Identity
	fileOps        file.FileOperations
	newID          func() string
}

// NewDeviceInfo initializes a new DeviceInfo instance.
func NewDeviceInfo(filePath string, fileOps file.FileOperations) *DeviceInfo {
	return &DeviceInfo{
		DeviceInfoFile: filePath,
		fileOps:        fileOps,
		newID:          uuid.NewString,
	}
}

// LoadDeviceInfo reads the identity file. A missing file leaves the identity empty.
func (d *DeviceInfo) LoadDeviceInfo() error {
	err := d.fileOps.ReadJsonFile(d.DeviceInfoFile, &d.Identity)
	if err != nil {
		if os.IsNotExist(err) {
			d.Identity = Identity{}
			return nil
		}
		return err
	}

	return nil
}

// EnsureDeviceID loads the identity and generates and persists a new ID if
// none is stored yet.
func (d *DeviceInfo) EnsureDeviceID() (string, error) {
	if err := d.LoadDeviceInfo(); err != nil {
		return "", fmt.Errorf("failed to load device identity: %w", err)
	}
	if d.Identity.ID != "" {
		return d.Identity.ID, nil
	}

	if err := d.SaveDeviceID(d.newID()); err != nil {
		return "", fmt.Errorf("failed to save device identity: %w", err)
	}
	return d.Identity.ID, nil
}

// GetDeviceID returns the current device ID.
func (d *DeviceInfo) GetDeviceID() string {
	return d.Identity.ID
}

// SaveDeviceID updates the device ID in the Identity field and writes it back to the file.
func (d *DeviceInfo) SaveDeviceID(deviceID string) error {
	d.Identity.ID = deviceID
	return d.fileOps.WriteJsonFile(d.DeviceInfoFile, d.Identity)
}
