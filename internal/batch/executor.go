// Package batch applies one control operation across many devices,
// isolating per-device failure.
//
// A batch run never aborts early in either direction: every target gets its
// own call (with the client's usual single expiry-recovery retry), every
// target ends in exactly one Outcome, and one device failing cannot cancel,
// delay or alter the outcome of another. Results only surface as an overall
// error when every target failed.
package batch

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/luisfcorreia/fon-gramofon-support/internal/gramofon"
	"github.com/luisfcorreia/fon-gramofon-support/internal/logging"
)

// DefaultConcurrency is the default fan-out width
const DefaultConcurrency = 16

// Outcome is the result of applying one call to one device: either a success
// payload or a classified failure. Outcomes are never mutated after creation.
type Outcome struct {
	// Address of the device this outcome belongs to
	Address string
	// Payload returned on success
	Payload gramofon.Payload
	// Err is the classified failure, nil on success
	Err error
}

// OK reports whether the call against this device succeeded
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Result maps each targeted address to its outcome
type Result map[string]Outcome

// Succeeded returns the number of targets that succeeded
func (r Result) Succeeded() int {
	n := 0
	for _, o := range r {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of targets that failed
func (r Result) Failed() int {
	return len(r) - r.Succeeded()
}

// Err summarizes the run: nil when at least one target succeeded (or there
// were no targets to fail). A single-target run therefore fails loudly while
// a wider batch only fails as a whole when every device did.
func (r Result) Err() error {
	if len(r) == 0 {
		return nil
	}
	if r.Succeeded() > 0 {
		return nil
	}
	if len(r) == 1 {
		for _, o := range r {
			return o.Err
		}
	}
	return fmt.Errorf("all %d targets failed", len(r))
}

// Executor fans one operation out across a target set
type Executor struct {
	// Client issues the per-device calls
	Client *gramofon.Client

	// Concurrency bounds how many devices are contacted at once
	Concurrency int
}

// NewExecutor creates an executor with the default fan-out width
func NewExecutor(client *gramofon.Client) *Executor {
	return &Executor{
		Client:      client,
		Concurrency: DefaultConcurrency,
	}
}

// Apply invokes module.method with params against every target and collects
// one Outcome per target. It returns only when every target has either
// succeeded or definitively failed; there is no early return on first
// failure or first success, and completion order across devices is
// unspecified.
//
// Cancelling ctx stops new targets from being contacted; targets not yet
// attempted are recorded as failed with the cancellation error, while calls
// already in flight finish or time out and keep their real outcome.
func (e *Executor) Apply(ctx context.Context, targets []string, module, method string, params gramofon.Params) Result {
	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	logging.Info("Batch apply",
		zap.Int("targets", len(targets)),
		zap.String("module", module),
		zap.String("method", method),
	)

	outcomes := make(chan Outcome, len(targets))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			outcomes <- Outcome{
				Address: target,
				Err:     gramofon.ClassifyNetworkError(err, target),
			}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(address string) {
			defer wg.Done()
			defer func() { <-sem }()

			payload, err := e.Client.Call(ctx, address, module, method, params)
			outcomes <- Outcome{Address: address, Payload: payload, Err: err}
		}(target)
	}

	wg.Wait()
	close(outcomes)

	result := make(Result, len(targets))
	for outcome := range outcomes {
		result[outcome.Address] = outcome
	}

	logging.Info("Batch done",
		zap.Int("succeeded", result.Succeeded()),
		zap.Int("failed", result.Failed()),
	)
	return result
}

// Lister yields the addresses of all currently-known devices. The registry
// satisfies this.
type Lister interface {
	Addresses() []string
}

// TargetsFrom resolves the "all known devices" target set
func TargetsFrom(reg Lister) []string {
	return reg.Addresses()
}
