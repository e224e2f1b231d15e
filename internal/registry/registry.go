// Package registry holds the in-memory set of currently-known Gramofon
// devices, keyed by address.
//
// The registry is the one structure mutated concurrently during a scan, so
// all writes are serialized behind a mutex while reads may overlap. It
// performs no network I/O itself and only ever holds devices the prober has
// positively identified; an address missing after a scan means "not
// currently observed", nothing more.
package registry

import (
	"sort"
	"sync"

	"github.com/luisfcorreia/fon-gramofon-support/internal/discovery"
)

// Registry is an in-memory device store. The zero value is not usable; use New.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*discovery.Device
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		devices: make(map[string]*discovery.Device),
	}
}

// Upsert inserts a device or updates the existing entry for its address in
// place. A rescan that re-identifies a known address refreshes its name, MAC,
// session and last-seen time rather than duplicating the entry.
func (r *Registry) Upsert(device *discovery.Device) {
	if device == nil || device.Address == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.devices[device.Address]
	if !ok {
		r.devices[device.Address] = device.Clone()
		return
	}

	existing.LastSeen = device.LastSeen
	existing.SessionID = device.SessionID
	if device.Name != "" {
		existing.Name = device.Name
	}
	if device.MAC != "" {
		existing.MAC = device.MAC
	}
}

// Get returns a copy of the device at the given address
func (r *Registry) Get(address string) (*discovery.Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	device, ok := r.devices[address]
	if !ok {
		return nil, false
	}
	return device.Clone(), true
}

// List returns copies of all known devices, sorted by address for stable
// output
func (r *Registry) List() []*discovery.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*discovery.Device, 0, len(r.devices))
	for _, device := range r.devices {
		devices = append(devices, device.Clone())
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Address < devices[j].Address
	})
	return devices
}

// Addresses returns the addresses of all known devices, sorted
func (r *Registry) Addresses() []string {
	devices := r.List()
	addresses := make([]string, len(devices))
	for i, device := range devices {
		addresses[i] = device.Address
	}
	return addresses
}

// Remove deletes the entry for an address, if present
func (r *Registry) Remove(address string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, address)
}

// Len returns the number of known devices
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}
