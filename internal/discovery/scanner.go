package discovery

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luisfcorreia/fon-gramofon-support/internal/gramofon"
	"github.com/luisfcorreia/fon-gramofon-support/internal/logging"
)

const (
	// DefaultConcurrency is the default size of the probe worker pool
	DefaultConcurrency = 50

	// DefaultPerHostTimeout bounds one probe (login plus identification)
	// against a single address. Most addresses in a subnet scan are not
	// Gramofons and simply never answer; this is what caps the total scan
	// time at roughly ceil(hosts/concurrency) * timeout.
	DefaultPerHostTimeout = 2 * time.Second
)

// Publisher receives each device as soon as it is identified. The registry
// satisfies this; a scan publishes incrementally, never batched at the end.
type Publisher interface {
	Upsert(device *Device)
}

// Scanner probes address ranges for Gramofon devices using a bounded
// worker pool.
type Scanner struct {
	// Client used for login and identification calls
	Client *gramofon.Client

	// Concurrency is the worker pool size
	Concurrency int

	// PerHostTimeout bounds one probe against one address
	PerHostTimeout time.Duration
}

// NewScanner creates a scanner with default pool size and per-host timeout
func NewScanner(client *gramofon.Client) *Scanner {
	return &Scanner{
		Client:         client,
		Concurrency:    DefaultConcurrency,
		PerHostTimeout: DefaultPerHostTimeout,
	}
}

// Scan probes every host and streams identified devices on the returned
// channel in completion order. The channel is closed once all probes have
// finished, so the sequence is lazy but finite. Addresses that do not
// respond, or that reject authentication, are silently skipped.
//
// Cancelling ctx stops new probes from being dispatched; probes already in
// flight finish or time out naturally, and devices they identify are still
// delivered. A scan is not restartable: call Scan again to re-probe.
func (s *Scanner) Scan(ctx context.Context, hosts []string) <-chan *Device {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	perHost := s.PerHostTimeout
	if perHost <= 0 {
		perHost = DefaultPerHostTimeout
	}

	found := make(chan *Device)

	go func() {
		defer close(found)

		var wg sync.WaitGroup
		sem := make(chan struct{}, concurrency)

		logging.Info("Scan started",
			zap.Int("hosts", len(hosts)),
			zap.Int("concurrency", concurrency),
			zap.Duration("per_host_timeout", perHost),
		)

		for _, host := range hosts {
			// Stop issuing new probes once cancelled; in-flight
			// probes are left to finish on their own.
			if ctx.Err() != nil {
				logging.Info("Scan cancelled", zap.String("at_host", host))
				break
			}

			wg.Add(1)
			sem <- struct{}{}
			go func(address string) {
				defer wg.Done()
				defer func() { <-sem }()

				if device := s.probe(ctx, address, perHost); device != nil {
					found <- device
				}
			}(host)
		}

		wg.Wait()
	}()

	return found
}

// ScanInto runs Scan and publishes every device to pub the moment it is
// identified, returning the full set once the scan completes.
func (s *Scanner) ScanInto(ctx context.Context, hosts []string, pub Publisher) []*Device {
	var devices []*Device
	for device := range s.Scan(ctx, hosts) {
		if pub != nil {
			pub.Upsert(device)
		}
		devices = append(devices, device)
	}
	return devices
}

// probe performs one identification attempt: login, then fetch the device
// name and hardware address. Returns nil when the address is not a
// responsive, authenticable Gramofon; that is the normal case and not an
// error.
func (s *Scanner) probe(ctx context.Context, address string, perHost time.Duration) *Device {
	ctx, cancel := context.WithTimeout(ctx, perHost)
	defer cancel()

	// Login is both the reachability check and the authentication check.
	if _, err := s.Client.Sessions().Token(ctx, address); err != nil {
		logging.LogProbe(address, probeEvent(err))
		return nil
	}

	name, err := s.Client.DeviceName(ctx, address)
	if err != nil {
		logging.LogProbe(address, "identify_failed")
		return nil
	}

	// The MAC is identifying but not essential; a device that answers the
	// name call is a Gramofon regardless.
	mac, err := s.Client.MAC(ctx, address)
	if err != nil {
		mac = ""
	}

	device := &Device{
		Address:   address,
		Name:      name,
		MAC:       mac,
		SessionID: s.Client.Sessions().Peek(address),
		LastSeen:  time.Now(),
	}
	logging.Info("Device found",
		zap.String("address", device.Address),
		zap.String("name", device.Name),
		zap.String("mac", device.MAC),
	)
	return device
}

func probeEvent(err error) string {
	switch {
	case gramofon.IsUnreachable(err):
		return "no_response"
	case gramofon.IsAuthFailure(err):
		return "auth_rejected"
	default:
		return "probe_failed"
	}
}
