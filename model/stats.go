package model

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// LayerStats holds instance construction and persistence statistics.
type LayerStats struct {
	// TotalInstances is the total number of instances constructed.
	TotalInstances atomic.Int64
	// TotalSaves is the total number of save operations.
	TotalSaves atomic.Int64
	// TotalRelations is the total number of relation lookups.
	TotalRelations atomic.Int64
	// TotalSaveDuration is the total time spent persisting instances.
	TotalSaveDuration atomic.Int64 // nanoseconds
	// SlowSaves is the count of saves exceeding the slow threshold.
	SlowSaves atomic.Int64
	// Errors is the count of layer errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *LayerStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		Instances:    s.TotalInstances.Load(),
		Saves:        s.TotalSaves.Load(),
		Relations:    s.TotalRelations.Load(),
		SaveDuration: time.Duration(s.TotalSaveDuration.Load()),
		SlowSaves:    s.SlowSaves.Load(),
		Errors:       s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *LayerStats) Reset() {
	s.TotalInstances.Store(0)
	s.TotalSaves.Store(0)
	s.TotalRelations.Store(0)
	s.TotalSaveDuration.Store(0)
	s.SlowSaves.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of layer statistics.
type StatsSnapshot struct {
	Instances    int64
	Saves        int64
	Relations    int64
	SaveDuration time.Duration
	SlowSaves    int64
	Errors       int64
}

// AvgSaveDuration returns the average save duration.
func (s StatsSnapshot) AvgSaveDuration() time.Duration {
	if s.Saves == 0 {
		return 0
	}
	return s.SaveDuration / time.Duration(s.Saves)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"instances=%d saves=%d relations=%d duration=%s avg=%s slow=%d errors=%d",
		s.Instances, s.Saves, s.Relations, s.SaveDuration, s.AvgSaveDuration(),
		s.SlowSaves, s.Errors,
	)
}

// SlowSaveHook is a function called when a slow save is detected.
type SlowSaveHook func(ctx context.Context, inst Instance, duration time.Duration)

// StatsLayer wraps a Layer with statistics collection.
type StatsLayer struct {
	Layer
	stats         *LayerStats
	slowThreshold time.Duration
	slowHook      SlowSaveHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsLayer.
type StatsOption func(*StatsLayer)

// WithSlowThreshold sets the threshold for slow save detection.
// Saves taking longer than this duration will be counted as slow saves.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsLayer) {
		s.slowThreshold = d
	}
}

// WithSlowSaveHook sets a callback function for slow saves.
// The hook is called whenever a save exceeds the slow threshold.
func WithSlowSaveHook(hook SlowSaveHook) StatsOption {
	return func(s *StatsLayer) {
		s.slowHook = hook
	}
}

// WithSlowSaveLog logs slow saves to the default logger.
// This is a convenience wrapper around WithSlowSaveHook.
func WithSlowSaveLog() StatsOption {
	return WithSlowSaveHook(func(_ context.Context, inst Instance, duration time.Duration) {
		slog.Warn("slow save detected", "duration", duration, "model", inst.ModelName(), "id", inst.ID())
	})
}

// NewStatsLayer wraps a Layer with statistics collection.
//
// Example:
//
//	layer := model.NewStatsLayer(memmodel.New(),
//	    model.WithSlowThreshold(200*time.Millisecond),
//	    model.WithSlowSaveLog(),
//	)
//	client := fabrica.NewClient(layer)
//
//	// Later, check statistics:
//	stats := layer.LayerStats().Stats()
//	fmt.Println(stats)
func NewStatsLayer(l Layer, opts ...StatsOption) *StatsLayer {
	s := &StatsLayer{
		Layer:         l,
		stats:         &LayerStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LayerStats returns the underlying LayerStats for reading statistics.
func (l *StatsLayer) LayerStats() *LayerStats {
	return l.stats
}

// SlowThreshold returns the current slow save threshold.
func (l *StatsLayer) SlowThreshold() time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.slowThreshold
}

// SetSlowThreshold updates the slow save threshold.
func (l *StatsLayer) SetSlowThreshold(threshold time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.slowThreshold = threshold
}

// New constructs an instance and records statistics.
func (l *StatsLayer) New(model string, fields []Field) (Instance, error) {
	inst, err := l.Layer.New(model, fields)
	l.stats.TotalInstances.Add(1)
	if err != nil {
		l.stats.Errors.Add(1)
	}
	return inst, err
}

// Save persists an instance and records statistics.
func (l *StatsLayer) Save(ctx context.Context, inst Instance) error {
	start := time.Now()
	err := l.Layer.Save(ctx, inst)
	l.record(ctx, inst, start, err)
	return err
}

// Relation resolves relation metadata and records statistics.
func (l *StatsLayer) Relation(model, relation string) (*Relation, error) {
	rel, err := l.Layer.Relation(model, relation)
	l.stats.TotalRelations.Add(1)
	if err != nil {
		l.stats.Errors.Add(1)
	}
	return rel, err
}

func (l *StatsLayer) record(ctx context.Context, inst Instance, start time.Time, err error) {
	duration := time.Since(start)
	l.stats.TotalSaves.Add(1)
	l.stats.TotalSaveDuration.Add(int64(duration))

	if err != nil {
		l.stats.Errors.Add(1)
	}

	l.mu.RLock()
	threshold := l.slowThreshold
	hook := l.slowHook
	l.mu.RUnlock()

	if duration > threshold {
		l.stats.SlowSaves.Add(1)
		if hook != nil {
			hook(ctx, inst, duration)
		}
	}
}

// DebugLayer wraps a Layer with debug logging.
type DebugLayer struct {
	Layer
	log func(context.Context, ...any)
}

// DebugOption configures the DebugLayer.
type DebugOption func(*DebugLayer)

// DebugWithLog sets a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugLayer) {
		d.log = logFunc
	}
}

// NewDebugLayer wraps a Layer with debug logging.
//
// Example:
//
//	layer := model.NewDebugLayer(memmodel.New(), model.DebugWithLog(func(ctx context.Context, v ...any) {
//	    log.Println(v...)
//	}))
//	client := fabrica.NewClient(layer)
func NewDebugLayer(l Layer, opts ...DebugOption) *DebugLayer {
	d := &DebugLayer{
		Layer: l,
		log: func(_ context.Context, v ...any) {
			slog.Info(fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// New constructs an instance and logs it.
func (d *DebugLayer) New(model string, fields []Field) (Instance, error) {
	d.log(context.Background(), fmt.Sprintf("new: %s fields: %d", model, len(fields)))
	return d.Layer.New(model, fields)
}

// Save persists an instance and logs it.
func (d *DebugLayer) Save(ctx context.Context, inst Instance) error {
	err := d.Layer.Save(ctx, inst)
	d.log(ctx, fmt.Sprintf("save: %s id: %v", inst.ModelName(), inst.ID()))
	return err
}

// Relation resolves relation metadata and logs it.
func (d *DebugLayer) Relation(model, relation string) (*Relation, error) {
	d.log(context.Background(), fmt.Sprintf("relation: %s.%s", model, relation))
	return d.Layer.Relation(model, relation)
}

// Ensure interfaces are implemented.
var (
	_ Layer = (*StatsLayer)(nil)
	_ Layer = (*DebugLayer)(nil)
)
