// =============================================================================
// pkg/memory/memory.go - Process Memory Monitoring
// =============================================================================
//
// Bulk loads with gigabyte memtables plus RocksDB block cache can push a
// process close to the host's memory ceiling. This package samples process
// RSS so the CLI tools can log memory alongside their progress output.
//
// =============================================================================

package memory

import (
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/karthikiyer56/rocksdb-bulk-utils/helpers"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/interfaces"
)

// GetRSSBytes returns the process peak resident set size in bytes.
// getrusage reports ru_maxrss in kilobytes on Linux.
func GetRSSBytes() int64 {
	var usage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &usage); err != nil {
		return 0
	}
	return usage.Maxrss * 1024
}

// =============================================================================
// MemorySnapshot
// =============================================================================

// MemorySnapshot captures Go-heap and process-level memory at a point in time.
type MemorySnapshot struct {
	// HeapAlloc is the live Go heap in bytes.
	HeapAlloc uint64

	// HeapSys is memory obtained from the OS for the Go heap.
	HeapSys uint64

	// MaxRSS is the process peak RSS in bytes. Most of the gap between
	// MaxRSS and HeapSys is RocksDB's C allocations.
	MaxRSS int64

	// Taken is when the snapshot was captured.
	Taken time.Time
}

// TakeMemorySnapshot captures the current memory state.
func TakeMemorySnapshot() MemorySnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return MemorySnapshot{
		HeapAlloc: ms.HeapAlloc,
		HeapSys:   ms.HeapSys,
		MaxRSS:    GetRSSBytes(),
		Taken:     time.Now(),
	}
}

// Log writes the snapshot through the logger with a label.
func (s MemorySnapshot) Log(logger interfaces.Logger, label string) {
	logger.Info("%s: heap=%s heapSys=%s maxRSS=%s",
		label,
		helpers.FormatBytes(int64(s.HeapAlloc)),
		helpers.FormatBytes(int64(s.HeapSys)),
		helpers.FormatBytes(s.MaxRSS))
}

// =============================================================================
// Monitor - Background Memory Sampler
// =============================================================================

// Monitor periodically samples process RSS and tracks the observed peak.
type Monitor struct {
	mu       sync.Mutex
	peakRSS  int64
	interval time.Duration
	logger   interfaces.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewMonitor creates a Monitor sampling at the given interval and starts it.
// logger may be nil; the peak is tracked either way.
func NewMonitor(interval time.Duration, logger interfaces.Logger) *Monitor {
	m := &Monitor{
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Monitor) run() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.Check()
		}
	}
}

// Check samples RSS once and updates the peak.
func (m *Monitor) Check() {
	rss := GetRSSBytes()

	m.mu.Lock()
	if rss > m.peakRSS {
		m.peakRSS = rss
	}
	m.mu.Unlock()
}

// CurrentRSSGB returns the current RSS in gigabytes.
func (m *Monitor) CurrentRSSGB() float64 {
	return float64(GetRSSBytes()) / (1 << 30)
}

// PeakRSSGB returns the highest RSS observed so far in gigabytes.
func (m *Monitor) PeakRSSGB() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.peakRSS) / (1 << 30)
}

// LogSummary writes the peak observation through the logger.
func (m *Monitor) LogSummary() {
	if m.logger == nil {
		return
	}
	m.mu.Lock()
	peak := m.peakRSS
	m.mu.Unlock()

	m.logger.Info("peak process RSS: %s", helpers.FormatBytes(peak))
}

// Stop halts sampling and waits for the background goroutine to exit.
func (m *Monitor) Stop() {
	close(m.stopCh)
	<-m.doneCh
}
