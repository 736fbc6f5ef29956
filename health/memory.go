package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryConfig configures MemoryChecker. Thresholds are fractions of Limit.
type MemoryConfig struct {
	// Limit is the heap budget in bytes. Zero uses the memory obtained from
	// the OS.
	Limit uint64

	// Warn is the degraded threshold. Default: 0.8
	Warn float64

	// Critical is the unhealthy threshold. Default: 0.95
	Critical float64
}

// MemoryChecker compares the live heap with a budget.
type MemoryChecker struct {
	config MemoryConfig
	read   func(*runtime.MemStats)
}

// NewMemoryChecker creates a MemoryChecker.
func NewMemoryChecker(config MemoryConfig) *MemoryChecker {
	if config.Warn <= 0 || config.Warn >= 1 {
		config.Warn = 0.8
	}
	if config.Critical <= 0 || config.Critical >= 1 {
		config.Critical = 0.95
	}
	if config.Critical < config.Warn {
		config.Critical = config.Warn
	}
	return &MemoryChecker{config: config, read: runtime.ReadMemStats}
}

// Name returns "memory".
func (m *MemoryChecker) Name() string {
	return "memory"
}

// Check reads the runtime memory statistics.
func (m *MemoryChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context done", err)
	}

	var stats runtime.MemStats
	m.read(&stats)

	limit := m.config.Limit
	if limit == 0 {
		limit = stats.Sys
	}
	details := map[string]any{
		"heap_alloc": stats.HeapAlloc,
		"sys":        stats.Sys,
		"limit":      limit,
		"num_gc":     stats.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}
	if limit == 0 {
		return Healthy("memory stats unavailable").WithDetails(details)
	}

	ratio := float64(stats.HeapAlloc) / float64(limit)
	details["usage_percent"] = ratio * 100
	msg := fmt.Sprintf("heap at %.1f%% of limit", ratio*100)
	switch {
	case ratio >= m.config.Critical:
		return Unhealthy(msg, ErrCheckFailed).WithDetails(details)
	case ratio >= m.config.Warn:
		return Degraded(msg).WithDetails(details)
	default:
		return Healthy(msg).WithDetails(details)
	}
}

var _ Checker = (*MemoryChecker)(nil)
