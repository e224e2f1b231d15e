package config

import "time"

// AddressBook is the persisted device address book. It is a cache between
// runs, not a source of truth: entries seed the scanner's candidate list,
// and only a successful probe puts a device back into the live registry.
type AddressBook struct {
	Version     int               `yaml:"version"`
	Devices     map[string]*Entry `yaml:"devices,omitempty"` // Keyed by device MAC
	Preferences *Preferences      `yaml:"preferences,omitempty"`
}

// Entry records where a device was last observed. Session tokens are
// deliberately absent; they never outlive a run.
type Entry struct {
	Name     string    `yaml:"name,omitempty"`      // Device friendly name at last contact
	LastIP   string    `yaml:"last_ip,omitempty"`   // Last known IPv4 address
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last successful contact time
}

// Preferences holds application-wide scan defaults
type Preferences struct {
	ScanConcurrency       int `yaml:"scan_concurrency"`         // Probe worker pool size
	PerHostTimeoutSeconds int `yaml:"per_host_timeout_seconds"` // Timeout per probed address
}

// NewAddressBook creates an empty address book with default preferences
func NewAddressBook() *AddressBook {
	return &AddressBook{
		Version: 1,
		Devices: make(map[string]*Entry),
		Preferences: &Preferences{
			ScanConcurrency:       50,
			PerHostTimeoutSeconds: 2,
		},
	}
}

// Record notes a device sighting, creating or updating its entry
func (b *AddressBook) Record(mac, name, ip string, seen time.Time) {
	if mac == "" {
		return
	}
	if b.Devices == nil {
		b.Devices = make(map[string]*Entry)
	}

	entry, ok := b.Devices[mac]
	if !ok {
		entry = &Entry{}
		b.Devices[mac] = entry
	}
	entry.LastIP = ip
	entry.LastSeen = seen
	if name != "" {
		entry.Name = name
	}
}

// KnownAddresses returns the last known IPs of all recorded devices. These
// are scan candidates, not live devices.
func (b *AddressBook) KnownAddresses() []string {
	var addresses []string
	seen := make(map[string]bool)
	for _, entry := range b.Devices {
		if entry.LastIP == "" || seen[entry.LastIP] {
			continue
		}
		seen[entry.LastIP] = true
		addresses = append(addresses, entry.LastIP)
	}
	return addresses
}
