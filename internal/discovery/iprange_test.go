package discovery

import (
	"testing"
)

func TestHostsSingleAddress(t *testing.T) {
	hosts, err := Hosts("192.168.1.50")
	if err != nil {
		t.Fatalf("Hosts failed: %v", err)
	}
	if len(hosts) != 1 || hosts[0] != "192.168.1.50" {
		t.Errorf("hosts = %v, want [192.168.1.50]", hosts)
	}
}

func TestHostsCIDRSkipsNetworkAndBroadcast(t *testing.T) {
	hosts, err := Hosts("192.168.1.0/30")
	if err != nil {
		t.Fatalf("Hosts failed: %v", err)
	}
	want := []string{"192.168.1.1", "192.168.1.2"}
	if len(hosts) != len(want) {
		t.Fatalf("got %d hosts %v, want %v", len(hosts), hosts, want)
	}
	for i := range want {
		if hosts[i] != want[i] {
			t.Errorf("hosts[%d] = %s, want %s", i, hosts[i], want[i])
		}
	}
}

func TestHostsFullSubnet(t *testing.T) {
	hosts, err := Hosts("10.0.0.0/24")
	if err != nil {
		t.Fatalf("Hosts failed: %v", err)
	}
	if len(hosts) != 254 {
		t.Errorf("got %d hosts for a /24, want 254", len(hosts))
	}
	if hosts[0] != "10.0.0.1" || hosts[253] != "10.0.0.254" {
		t.Errorf("range endpoints = %s .. %s, want 10.0.0.1 .. 10.0.0.254", hosts[0], hosts[253])
	}
}

func TestHostsTinySubnetsKeepAllAddresses(t *testing.T) {
	hosts, err := Hosts("192.168.1.64/31")
	if err != nil {
		t.Fatalf("Hosts failed: %v", err)
	}
	if len(hosts) != 2 {
		t.Errorf("got %d hosts for a /31, want 2", len(hosts))
	}

	hosts, err = Hosts("192.168.1.50/32")
	if err != nil {
		t.Fatalf("Hosts failed: %v", err)
	}
	if len(hosts) != 1 || hosts[0] != "192.168.1.50" {
		t.Errorf("hosts = %v, want [192.168.1.50]", hosts)
	}
}

func TestHostsRejectsOversizedRange(t *testing.T) {
	if _, err := Hosts("10.0.0.0/8"); err == nil {
		t.Error("accepted a /8, want an error (max /16)")
	}
}

func TestHostsDashRange(t *testing.T) {
	hosts, err := Hosts("192.168.1.10-13")
	if err != nil {
		t.Fatalf("Hosts failed: %v", err)
	}
	want := []string{"192.168.1.10", "192.168.1.11", "192.168.1.12", "192.168.1.13"}
	if len(hosts) != len(want) {
		t.Fatalf("got %v, want %v", hosts, want)
	}
	for i := range want {
		if hosts[i] != want[i] {
			t.Errorf("hosts[%d] = %s, want %s", i, hosts[i], want[i])
		}
	}
}

func TestHostsRejectsInvalidTargets(t *testing.T) {
	invalid := []string{
		"",
		"not-an-address",
		"192.168.1.999",
		"fe80::1",
		"192.168.1.40-10",
		"192.168.1.10-300",
		"192.168.1.0/64",
	}
	for _, target := range invalid {
		if _, err := Hosts(target); err == nil {
			t.Errorf("Hosts(%q) succeeded, want error", target)
		}
	}
}
