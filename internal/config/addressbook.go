package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName  = "gramofon"
	bookFile = "devices.yaml"
)

// fileMutex serializes writes of the address book file
var fileMutex sync.Mutex

// DefaultDir returns the OS-appropriate configuration directory for the
// application:
//   - Linux: $XDG_CONFIG_HOME/gramofon or $HOME/.config/gramofon
//   - macOS: $HOME/.config/gramofon
//   - Windows: %LOCALAPPDATA%\gramofon
func DefaultDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	default:
		// Linux, macOS and other Unix-like systems: XDG_CONFIG_HOME or
		// $HOME/.config
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// DefaultPath returns the full path of the address book file
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, bookFile), nil
}

// Load reads the address book at path. A missing file is not an error: it
// yields a fresh book, so first runs work without setup. An empty path loads
// from DefaultPath.
func Load(path string) (*AddressBook, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewAddressBook(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read address book: %w", err)
	}

	var book AddressBook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("failed to parse address book: %w", err)
	}

	if book.Version != 1 {
		return nil, fmt.Errorf("unsupported address book version: %d (expected 1)", book.Version)
	}

	if book.Devices == nil {
		book.Devices = make(map[string]*Entry)
	}
	if book.Preferences == nil {
		book.Preferences = NewAddressBook().Preferences
	}

	return &book, nil
}

// Save writes the address book to path atomically (write to a temp file,
// then rename). An empty path saves to DefaultPath, creating the config
// directory if needed.
func (b *AddressBook) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal address book: %w", err)
	}

	header := []byte(`# Gramofon device address book
# Last known addresses of discovered devices. This is a cache: entries are
# re-verified by probing before use, and session tokens are never stored.

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary address book: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save address book: %w", err)
	}

	return nil
}
