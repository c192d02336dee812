package provider

import (
	"context"
	"sync"
	"time"
)

// ProbeResult is the outcome of one vendor health probe.
type ProbeResult struct {
	Service   string `json:"service"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// ProbeFunc checks one vendor's reachability with the caller's credentials.
type ProbeFunc func(ctx context.Context) error

// ProbeAll runs every probe concurrently and reports all outcomes. One
// vendor failing never hides the others; each slot of the result is written
// by exactly one goroutine.
func ProbeAll(ctx context.Context, probes map[string]ProbeFunc) []ProbeResult {
	services := make([]string, 0, len(probes))
	for service := range probes {
		services = append(services, service)
	}

	results := make([]ProbeResult, len(services))
	var wg sync.WaitGroup
	for i, service := range services {
		wg.Add(1)
		go func(slot int, service string, probe ProbeFunc) {
			defer wg.Done()
			started := time.Now()
			err := probe(ctx)
			results[slot] = ProbeResult{
				Service:   service,
				OK:        err == nil,
				LatencyMS: time.Since(started).Milliseconds(),
			}
			if err != nil {
				results[slot].Error = err.Error()
			}
		}(i, service, probes[service])
	}
	wg.Wait()
	return results
}
