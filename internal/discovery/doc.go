// Package discovery locates Gramofon devices by probing address ranges
// directly.
//
// Gramofon devices do not announce themselves; once configured they sit on
// the home network as ordinary HTTP hosts. Discovery therefore enumerates an
// IPv4 range and probes every address: attempt a login with the firmware's
// fixed credentials, and on success fetch the device name and hardware
// address. Only an address that passes both steps yields a Device.
//
// # Scan behaviour
//
// Probes run on a bounded worker pool so a silent /24 completes in roughly
// ceil(254/concurrency) * perHostTimeout rather than 254 * perHostTimeout.
// Addresses that never answer, or that answer but reject the login, are the
// expected majority and are skipped silently; they never abort or slow the
// rest of the scan beyond their own timeout.
//
// Devices are streamed as they are identified, in completion order; callers
// that need arrival progress can range over the Scan channel or hand
// ScanInto a registry to publish into.
//
// # Usage Example
//
//	client := gramofon.NewDefaultClient()
//	scanner := discovery.NewScanner(client)
//
//	hosts, err := discovery.Hosts("192.168.1.0/24")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for device := range scanner.Scan(context.Background(), hosts) {
//	    fmt.Println(device)
//	}
package discovery
