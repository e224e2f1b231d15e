package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Hosts expands a target specification into the candidate IPv4 addresses to
// probe. Accepted forms:
//
//	192.168.1.50       single address
//	192.168.1.0/24     CIDR (network and broadcast addresses skipped)
//	192.168.1.10-40    dash range over the last octet
func Hosts(target string) ([]string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("empty scan target")
	}

	if strings.Contains(target, "/") {
		return cidrHosts(target)
	}
	if strings.Contains(target, "-") {
		return dashRangeHosts(target)
	}

	ip := net.ParseIP(target)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("invalid IPv4 address %q", target)
	}
	return []string{ip.To4().String()}, nil
}

func cidrHosts(target string) ([]string, error) {
	_, ipnet, err := net.ParseCIDR(target)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR %q: %w", target, err)
	}
	if ipnet.IP.To4() == nil {
		return nil, fmt.Errorf("only IPv4 ranges are supported, got %q", target)
	}

	ones, bits := ipnet.Mask.Size()
	if bits-ones > 16 {
		return nil, fmt.Errorf("range %q too large to scan (max /16)", target)
	}

	var hosts []string
	for ip := ipnet.IP.Mask(ipnet.Mask).To4(); ipnet.Contains(ip); ip = nextIP(ip) {
		hosts = append(hosts, ip.String())
	}

	// Drop the network and broadcast addresses for real subnets. A /31 or
	// /32 has no such addresses.
	if ones < 31 && len(hosts) > 2 {
		hosts = hosts[1 : len(hosts)-1]
	}
	return hosts, nil
}

func dashRangeHosts(target string) ([]string, error) {
	lastDot := strings.LastIndex(target, ".")
	dash := strings.LastIndex(target, "-")
	if lastDot < 0 || dash < lastDot {
		return nil, fmt.Errorf("invalid address range %q", target)
	}

	prefix := target[:lastDot]
	lo, err := strconv.Atoi(target[lastDot+1 : dash])
	if err != nil {
		return nil, fmt.Errorf("invalid address range %q: %w", target, err)
	}
	hi, err := strconv.Atoi(target[dash+1:])
	if err != nil {
		return nil, fmt.Errorf("invalid address range %q: %w", target, err)
	}
	if lo < 0 || hi > 255 || lo > hi {
		return nil, fmt.Errorf("invalid octet range %d-%d", lo, hi)
	}
	if net.ParseIP(fmt.Sprintf("%s.%d", prefix, lo)) == nil {
		return nil, fmt.Errorf("invalid address range %q", target)
	}

	hosts := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		hosts = append(hosts, fmt.Sprintf("%s.%d", prefix, i))
	}
	return hosts, nil
}

func nextIP(ip net.IP) net.IP {
	next := make(net.IP, len(ip))
	copy(next, ip)
	for i := len(next) - 1; i >= 0; i-- {
		next[i]++
		if next[i] != 0 {
			break
		}
	}
	return next
}

// DetectSubnet returns the local /24 in CIDR form, derived from the first
// non-loopback IPv4 interface address. Returns an error when no usable
// interface is found rather than guessing.
func DetectSubnet() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("failed to list interface addresses: %w", err)
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		ip4 := ipnet.IP.To4()
		if ip4 == nil {
			continue
		}
		return fmt.Sprintf("%d.%d.%d.0/24", ip4[0], ip4[1], ip4[2]), nil
	}
	return "", fmt.Errorf("no active IPv4 interface found")
}
