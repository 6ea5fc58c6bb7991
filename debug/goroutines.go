package debug

// Debug goroutine metrics logger. Started only when config.Debug is true.
// Emits goroutine count, stack usage and any probe attributes at a fixed
// interval.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// Probe contributes extra attributes to each goroutine log record, e.g.
// capture counters.
type Probe func() []slog.Attr

// StartGoroutineLogger launches a ticker that logs goroutine count and stack
// memory. It is lightweight; disable by running without the debug flag.
func StartGoroutineLogger(interval time.Duration, logger *slog.Logger, probes ...Probe) {
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for range t.C {
			logger.LogAttrs(context.Background(), slog.LevelInfo, "goroutine-stacks", goroutineAttrs(samples, probes)...)
		}
	}()
}

func goroutineAttrs(samples []metrics.Sample, probes []Probe) []slog.Attr {
	metrics.Read(samples)
	var goroutines uint64
	if samples[0].Value.Kind() == metrics.KindUint64 {
		goroutines = samples[0].Value.Uint64()
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	attrs := []slog.Attr{
		slog.Uint64("goroutines", goroutines),
		slog.Uint64("stack_inuse", ms.StackInuse),
		slog.Uint64("stack_sys", ms.StackSys),
		slog.Uint64("heap_alloc", ms.HeapAlloc),
	}
	for _, p := range probes {
		if p != nil {
			attrs = append(attrs, p()...)
		}
	}
	return attrs
}
