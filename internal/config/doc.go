// Package config persists the Gramofon device address book between runs.
//
// The address book is a YAML file recording where each device (keyed by its
// MAC) was last seen. It exists purely as a scan accelerator and batch
// target source: before a full subnet sweep, the last known addresses can be
// probed directly. Entries are never trusted without a fresh probe, and the
// live in-memory registry is populated only from probe results.
//
// # File Location
//
// The file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/gramofon/devices.yaml or $HOME/.config/gramofon/devices.yaml
//   - macOS: $HOME/.config/gramofon/devices.yaml
//   - Windows: %LOCALAPPDATA%\gramofon\devices.yaml
//
// # Security
//
// Session tokens are never written to disk; they are valid for one run only.
// There are no credentials to store either, since the firmware's login pair
// is fixed.
//
// # Usage Example
//
//	book, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, device := range reg.List() {
//	    book.Record(device.MAC, device.Name, device.Address, device.LastSeen)
//	}
//	if err := book.Save(""); err != nil {
//	    log.Fatal(err)
//	}
//
// Writes are atomic (temp file plus rename) so a crash cannot corrupt the
// book.
package config
