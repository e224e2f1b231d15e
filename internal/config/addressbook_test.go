package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")

	book := NewAddressBook()
	seen := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	book.Record("00:11:22:33:44:55", "Living Room", "192.168.1.50", seen)
	book.Record("00:11:22:33:44:56", "Kitchen", "192.168.1.51", seen)

	if err := book.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Devices) != 2 {
		t.Fatalf("loaded %d devices, want 2", len(loaded.Devices))
	}

	entry := loaded.Devices["00:11:22:33:44:55"]
	if entry == nil {
		t.Fatal("entry for 00:11:22:33:44:55 missing after round trip")
	}
	if entry.Name != "Living Room" || entry.LastIP != "192.168.1.50" {
		t.Errorf("entry = %+v, want Living Room at 192.168.1.50", entry)
	}
	if !entry.LastSeen.Equal(seen) {
		t.Errorf("LastSeen = %v, want %v", entry.LastSeen, seen)
	}
	if loaded.Preferences == nil || loaded.Preferences.ScanConcurrency != 50 {
		t.Errorf("preferences = %+v, want defaults", loaded.Preferences)
	}
}

func TestLoadMissingFileYieldsFreshBook(t *testing.T) {
	book, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if book.Version != 1 {
		t.Errorf("fresh book version = %d, want 1", book.Version)
	}
	if len(book.Devices) != 0 {
		t.Errorf("fresh book has %d devices, want 0", len(book.Devices))
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	if err := os.WriteFile(path, []byte("version: 9\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted an unknown version")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	if err := os.WriteFile(path, []byte("version: [not closed\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}

func TestSaveCreatesDirectoryAndLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "devices.yaml")

	book := NewAddressBook()
	book.Record("00:11:22:33:44:55", "Living Room", "192.168.1.50", time.Now())
	if err := book.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind after Save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Gramofon device address book") {
		t.Error("saved file missing its header comment")
	}
	if strings.Contains(string(data), "sid") {
		t.Error("saved file appears to contain session state")
	}
}

func TestRecordUpdatesExistingEntry(t *testing.T) {
	book := NewAddressBook()
	early := time.Now().Add(-time.Hour)
	book.Record("00:11:22:33:44:55", "Living Room", "192.168.1.50", early)

	// Same device re-appearing on a new address, name unknown this time.
	later := time.Now()
	book.Record("00:11:22:33:44:55", "", "192.168.1.77", later)

	if len(book.Devices) != 1 {
		t.Fatalf("book has %d entries, want 1", len(book.Devices))
	}
	entry := book.Devices["00:11:22:33:44:55"]
	if entry.LastIP != "192.168.1.77" {
		t.Errorf("LastIP = %q, want the new address", entry.LastIP)
	}
	if entry.Name != "Living Room" {
		t.Errorf("Name = %q, want kept from the earlier sighting", entry.Name)
	}
	if !entry.LastSeen.Equal(later) {
		t.Errorf("LastSeen = %v, want %v", entry.LastSeen, later)
	}
}

func TestRecordIgnoresEmptyMAC(t *testing.T) {
	book := NewAddressBook()
	book.Record("", "Nameless", "192.168.1.50", time.Now())
	if len(book.Devices) != 0 {
		t.Errorf("book has %d entries, want 0 (no MAC, no entry)", len(book.Devices))
	}
}

func TestKnownAddressesDeduplicates(t *testing.T) {
	book := NewAddressBook()
	now := time.Now()
	book.Record("00:11:22:33:44:55", "A", "192.168.1.50", now)
	book.Record("00:11:22:33:44:56", "B", "192.168.1.50", now) // same IP reused
	book.Record("00:11:22:33:44:57", "C", "192.168.1.51", now)
	book.Record("00:11:22:33:44:58", "D", "", now) // never seen with an address

	addresses := book.KnownAddresses()
	if len(addresses) != 2 {
		t.Errorf("KnownAddresses = %v, want 2 unique addresses", addresses)
	}
}
