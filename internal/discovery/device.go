package discovery

import (
	"fmt"
	"time"
)

// Device represents an identified Gramofon device on the network. A Device
// only exists after a probe has both authenticated against the address and
// fetched its identifying information.
type Device struct {
	// Address is the IPv4 address (e.g., "192.168.1.50"), unique within a scan
	Address string

	// Name is the human-assigned device label (e.g., "Living Room")
	Name string

	// MAC is the device hardware address (populated best-effort)
	MAC string

	// SessionID is the session token obtained while probing. It is written
	// by the session manager only; nothing else assigns tokens.
	SessionID string

	// LastSeen is the time of the last successful contact
	LastSeen time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	name := d.Name
	if name == "" {
		name = "Unknown"
	}
	return fmt.Sprintf("Gramofon %q at %s (%s)", name, d.Address, d.MAC)
}

// Clone returns a copy of the device. The registry hands out clones so
// callers can read them without holding its lock.
func (d *Device) Clone() *Device {
	c := *d
	return &c
}
