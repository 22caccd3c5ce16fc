package server

import (
	"runtime"
	"sync"
	"time"

	"github.com/cascadelab/ripplegraph/pkg/metrics"
)

const defaultSampleInterval = 10 * time.Second

// SystemMetricsUpdater periodically samples runtime statistics (uptime,
// goroutine count, heap usage) into the metrics registry.
type SystemMetricsUpdater struct {
	registry *metrics.Registry
	interval time.Duration
	started  time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSystemMetricsUpdater creates an updater sampling at the given
// interval. A non-positive interval falls back to 10 seconds.
func NewSystemMetricsUpdater(registry *metrics.Registry, interval time.Duration) *SystemMetricsUpdater {
	if interval <= 0 {
		interval = defaultSampleInterval
	}
	return &SystemMetricsUpdater{
		registry: registry,
		interval: interval,
		started:  time.Now(),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sampling loop. The first sample is taken
// immediately so gauges are populated before the first tick.
func (u *SystemMetricsUpdater) Start() {
	if u.registry == nil {
		return
	}
	u.wg.Add(1)
	go u.run()
}

// Stop halts the sampling loop and waits for it to exit. Safe to call
// more than once.
func (u *SystemMetricsUpdater) Stop() {
	u.stopOnce.Do(func() {
		close(u.stopCh)
	})
	u.wg.Wait()
}

func (u *SystemMetricsUpdater) run() {
	defer u.wg.Done()

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	u.sample()
	for {
		select {
		case <-ticker.C:
			u.sample()
		case <-u.stopCh:
			return
		}
	}
}

func (u *SystemMetricsUpdater) sample() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	u.registry.UptimeSeconds.Set(time.Since(u.started).Seconds())
	u.registry.GoRoutines.Set(float64(runtime.NumGoroutine()))
	u.registry.MemoryAllocBytes.Set(float64(m.Alloc))
	u.registry.MemorySysBytes.Set(float64(m.Sys))
}
