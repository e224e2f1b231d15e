package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/luisfcorreia/fon-gramofon-support/internal/discovery"
)

func testDevice(address, name string) *discovery.Device {
	return &discovery.Device{
		Address:   address,
		Name:      name,
		MAC:       "00:11:22:33:44:55",
		SessionID: "sess-1",
		LastSeen:  time.Now(),
	}
}

func TestUpsertAndGet(t *testing.T) {
	reg := New()
	reg.Upsert(testDevice("192.168.1.50", "Living Room"))

	device, ok := reg.Get("192.168.1.50")
	if !ok {
		t.Fatal("device not found after Upsert")
	}
	if device.Name != "Living Room" {
		t.Errorf("name = %q, want %q", device.Name, "Living Room")
	}
	if _, ok := reg.Get("192.168.1.51"); ok {
		t.Error("Get returned a device for an unknown address")
	}
}

func TestUpsertMergesInPlace(t *testing.T) {
	reg := New()
	first := testDevice("192.168.1.50", "Living Room")
	reg.Upsert(first)

	// A later sighting with a fresher session but no name or MAC must keep
	// the identifying fields.
	later := &discovery.Device{
		Address:   "192.168.1.50",
		SessionID: "sess-2",
		LastSeen:  first.LastSeen.Add(time.Minute),
	}
	reg.Upsert(later)

	if reg.Len() != 1 {
		t.Fatalf("registry has %d entries, want 1", reg.Len())
	}
	device, _ := reg.Get("192.168.1.50")
	if device.Name != "Living Room" {
		t.Errorf("merge dropped the name, got %q", device.Name)
	}
	if device.MAC != "00:11:22:33:44:55" {
		t.Errorf("merge dropped the MAC, got %q", device.MAC)
	}
	if device.SessionID != "sess-2" {
		t.Errorf("session = %q, want refreshed %q", device.SessionID, "sess-2")
	}
	if !device.LastSeen.Equal(later.LastSeen) {
		t.Errorf("LastSeen = %v, want %v", device.LastSeen, later.LastSeen)
	}

	// A rename on rescan does overwrite.
	renamed := testDevice("192.168.1.50", "Kitchen")
	reg.Upsert(renamed)
	device, _ = reg.Get("192.168.1.50")
	if device.Name != "Kitchen" {
		t.Errorf("name after rename = %q, want %q", device.Name, "Kitchen")
	}
}

func TestUpsertIgnoresNilAndEmptyAddress(t *testing.T) {
	reg := New()
	reg.Upsert(nil)
	reg.Upsert(&discovery.Device{Name: "No Address"})
	if reg.Len() != 0 {
		t.Errorf("registry has %d entries, want 0", reg.Len())
	}
}

func TestGetReturnsAClone(t *testing.T) {
	reg := New()
	reg.Upsert(testDevice("192.168.1.50", "Living Room"))

	device, _ := reg.Get("192.168.1.50")
	device.Name = "Mutated"

	again, _ := reg.Get("192.168.1.50")
	if again.Name != "Living Room" {
		t.Error("mutating a returned device changed the registry's copy")
	}
}

func TestListSortedByAddress(t *testing.T) {
	reg := New()
	reg.Upsert(testDevice("192.168.1.60", "C"))
	reg.Upsert(testDevice("192.168.1.50", "A"))
	reg.Upsert(testDevice("192.168.1.55", "B"))

	devices := reg.List()
	if len(devices) != 3 {
		t.Fatalf("List returned %d devices, want 3", len(devices))
	}
	for i := 1; i < len(devices); i++ {
		if devices[i-1].Address > devices[i].Address {
			t.Errorf("List not sorted: %s before %s", devices[i-1].Address, devices[i].Address)
		}
	}

	addresses := reg.Addresses()
	if len(addresses) != 3 || addresses[0] != "192.168.1.50" {
		t.Errorf("Addresses = %v, want sorted starting at 192.168.1.50", addresses)
	}
}

func TestRemove(t *testing.T) {
	reg := New()
	reg.Upsert(testDevice("192.168.1.50", "Living Room"))
	reg.Remove("192.168.1.50")
	if _, ok := reg.Get("192.168.1.50"); ok {
		t.Error("device still present after Remove")
	}
	// Removing an unknown address is a no-op.
	reg.Remove("192.168.1.99")
}

func TestConcurrentUpserts(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			address := fmt.Sprintf("192.168.1.%d", 50+i%10)
			reg.Upsert(testDevice(address, "Device"))
			reg.List()
			reg.Get(address)
		}(i)
	}
	wg.Wait()

	if reg.Len() != 10 {
		t.Errorf("registry has %d entries, want 10", reg.Len())
	}
}
