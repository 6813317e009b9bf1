package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/avermeer/jobdeck/internal/errors"
)

// Storage persists the raw bearer token across console restarts
type Storage interface {
	// Load returns the persisted token, or "" when none is stored
	Load() (string, error)
	// Save persists the token
	Save(token string) error
	// Clear removes the persisted token; clearing an absent token is not an error
	Clear() error
}

// FileStorage keeps the raw token string in a single file
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage at the given path
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultStoragePath returns the standard token location, ~/.jobdeck/token
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "cannot resolve home directory", err)
	}
	return filepath.Join(home, ".jobdeck", "token"), nil
}

// Load returns the persisted token, or "" when none is stored
func (f *FileStorage) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "cannot read token file", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save persists the token with owner-only permissions
func (f *FileStorage) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "cannot create token directory", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "cannot write token file", err)
	}
	return nil
}

// Clear removes the persisted token
func (f *FileStorage) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "cannot remove token file", err)
	}
	return nil
}

// MemoryStorage is an in-memory Storage for tests and ephemeral runs
type MemoryStorage struct {
	token string
}

// NewMemoryStorage creates an empty MemoryStorage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load returns the stored token
func (m *MemoryStorage) Load() (string, error) {
	return m.token, nil
}

// Save stores the token
func (m *MemoryStorage) Save(token string) error {
	m.token = token
	return nil
}

// Clear removes the stored token
func (m *MemoryStorage) Clear() error {
	m.token = ""
	return nil
}
