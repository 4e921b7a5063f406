package file

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileOperations defines methods for reading from and writing to files.
type FileOperations interface {
	IsFileExists(filePath string) (bool, error)
	ReadFileRaw(filePath string) ([]byte, error)
	ReadJsonFile(filePath string, v any) error
	ReadYamlFile(filePath string, v any) error
	WriteFileRaw(filePath string, data []byte) error
	WriteJsonFile(filePath string, data any) error
}

// FileService implements the FileOperations interface on top of an afero filesystem.
type FileService struct {
	fs afero.Fs
}

// NewFileService creates a new instance of FileService. A nil fs means the OS filesystem.
func NewFileService(fs afero.Fs) *FileService {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileService{fs: fs}
}

// IsFileExists checks if the file exists and returns boolean and error
func (fs *FileService) IsFileExists(filePath string) (bool, error) {
	_, err := fs.fs.Stat(filePath)
	if os.IsNotExist(err) {
		return false, nil
	}

	// checking err == nil because of permission related error
	return err == nil, err
}

// ReadFileRaw reads the contents of the file at filePath and returns it as a byte array.
func (fs *FileService) ReadFileRaw(filePath string) ([]byte, error) {
	return afero.ReadFile(fs.fs, filePath)
}

// ReadJsonFile reads and unmarshals JSON data from the given file.
func (fs *FileService) ReadJsonFile(filePath string, v any) error {
	file, err := fs.fs.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(v)
}

// ReadYamlFile reads and unmarshals YAML data from the given file.
func (fs *FileService) ReadYamlFile(filePath string, v any) error {
	file, err := fs.fs.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return yaml.NewDecoder(file).Decode(v)
}

// WriteFileRaw atomically replaces the file at filePath with data.
func (fs *FileService) WriteFileRaw(filePath string, data []byte) error {
	if err := fs.fs.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return err
	}

	tempFile := filePath + ".tmp"
	if err := afero.WriteFile(fs.fs, tempFile, data, 0o600); err != nil {
		_ = fs.fs.Remove(tempFile) // Clean up partial file
		return err
	}

	return fs.fs.Rename(tempFile, filePath) // Atomic file update
}

// WriteJsonFile writes the JSON data to the file at filePath.
func (fs *FileService) WriteJsonFile(filePath string, data any) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return fs.WriteFileRaw(filePath, payload)
}
