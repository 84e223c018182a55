package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Business and system metric names.
const (
	CounterPurchasesRecorded = "ledger_purchases_recorded"
	CounterSalesRecorded     = "ledger_sales_recorded"
	CounterOrdersFulfilled   = "ledger_orders_fulfilled"
	CounterSnapshotsWritten  = "snapshot_hashes_written"

	GaugeSystemCPU = "system_cpuuse"
	GaugeSystemMem = "system_memuse"
)

var (
	mu       sync.Mutex
	storage  tstorage.Storage
	counters = map[string]int64{}
)

// InitMetrics opens the embedded time-series store under workdir.
// Metric calls before initialization (or after Close) are no-ops, so
// library code can record metrics unconditionally.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(24*time.Hour),
	)
	if err != nil {
		return err
	}
	storage = s
	return nil
}

// SetGauge records the current value of a gauge metric.
func SetGauge(name string, value int64) {
	mu.Lock()
	defer mu.Unlock()
	insert(name, value)
}

// IncrCounter increments a monotonic counter and records its new value.
func IncrCounter(name string) {
	mu.Lock()
	defer mu.Unlock()
	counters[name]++
	insert(name, counters[name])
}

// CounterValue returns the in-process value of a counter.
func CounterValue(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

// Select returns the stored points for a metric within [start, end].
func Select(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return nil, nil
	}
	points, err := s.Select(name, nil, start, end)
	if err == tstorage.ErrNoDataPoints {
		return nil, nil
	}
	return points, err
}

func insert(name string, value int64) {
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
	}})
}

// Close flushes and closes the metrics store.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
