package performance

import (
	"runtime"
	"sort"
	"sync"
	"time"
)

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxAlerts int `json:"maxAlerts"`
	// Thresholds holds per-operation warning limits; an operation that runs
	// past CriticalFactor times its limit raises a critical alert.
	Thresholds       map[string]time.Duration `json:"thresholds"`
	DefaultThreshold time.Duration            `json:"defaultThreshold"`
	CriticalFactor   int                      `json:"criticalFactor"`
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxAlerts: 200,
		Thresholds: map[string]time.Duration{
			OpIntents:  50 * time.Millisecond,
			OpGenerate: 200 * time.Millisecond,
			OpRender:   100 * time.Millisecond,
			OpPreview:  100 * time.Millisecond,
			OpPublish:  5 * time.Second,
		},
		DefaultThreshold: 500 * time.Millisecond,
		CriticalFactor:   4,
	}
}

// Tracker aggregates operation timings and keeps recent slow-operation alerts.
// A nil *Tracker is valid and records nothing.
type Tracker struct {
	stats   map[string]*OperationStats
	active  int
	alerts  []Alert
	config  *TrackerConfig
	started time.Time
	mu      sync.RWMutex
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		stats:   make(map[string]*OperationStats),
		config:  config,
		started: time.Now(),
	}
}

// StartOperation starts timing operation for pageID.
func (t *Tracker) StartOperation(operation, pageID string) *Marker {
	if t != nil {
		t.mu.Lock()
		t.active++
		t.mu.Unlock()
	}
	return &Marker{
		Operation: operation,
		PageID:    pageID,
		StartTime: time.Now(),
		Success:   true,
	}
}

// CompleteOperation completes marker if needed, folds it into the stats once
// and raises an alert when it ran too long.
func (t *Tracker) CompleteOperation(marker *Marker) {
	if marker == nil || marker.recorded {
		return
	}
	marker.Complete()
	marker.recorded = true
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.active--
	st, ok := t.stats[marker.Operation]
	if !ok {
		st = &OperationStats{Operation: marker.Operation}
		t.stats[marker.Operation] = st
	}
	st.Count++
	st.Total += marker.Duration
	st.Average = st.Total / time.Duration(st.Count)
	st.Last = marker.EndTime
	if marker.Duration > st.Max {
		st.Max = marker.Duration
	}
	if !marker.Success {
		st.Failures++
	}
	if marker.CacheHit {
		st.CacheHits++
	}

	if alert, ok := t.evaluate(marker); ok {
		t.alerts = append(t.alerts, alert)
		if len(t.alerts) > t.config.MaxAlerts {
			t.alerts = t.alerts[len(t.alerts)-t.config.MaxAlerts:]
		}
	}
}

func (t *Tracker) threshold(operation string) time.Duration {
	if d, ok := t.config.Thresholds[operation]; ok {
		return d
	}
	return t.config.DefaultThreshold
}

func (t *Tracker) evaluate(marker *Marker) (Alert, bool) {
	limit := t.threshold(marker.Operation)
	if limit <= 0 || marker.Duration <= limit {
		return Alert{}, false
	}
	severity := AlertWarning
	if marker.Duration > limit*time.Duration(max(t.config.CriticalFactor, 1)) {
		severity = AlertCritical
	}
	return Alert{
		Timestamp: marker.EndTime,
		PageID:    marker.PageID,
		Severity:  severity,
		Operation: marker.Operation,
		Threshold: limit,
		Actual:    marker.Duration,
	}, true
}

// Stats returns a copy of the aggregated stats sorted by operation name.
func (t *Tracker) Stats() []OperationStats {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]OperationStats, 0, len(t.stats))
	for _, st := range t.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// GetAlerts returns recent alerts, optionally limited to one page.
func (t *Tracker) GetAlerts(pageID string) []Alert {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Alert
	for _, a := range t.alerts {
		if pageID == "" || a.PageID == pageID {
			out = append(out, a)
		}
	}
	return out
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() map[string]any {
	if t == nil {
		return map[string]any{}
	}
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	t.mu.RLock()
	defer t.mu.RUnlock()

	completed := int64(0)
	for _, st := range t.stats {
		completed += st.Count
	}
	return map[string]any{
		"trackerUptime":       time.Since(t.started).String(),
		"activeOperations":    t.active,
		"completedOperations": completed,
		"totalAlerts":         len(t.alerts),
		"memoryUsageMB":       memStats.Alloc / (1024 * 1024),
		"systemMemoryMB":      memStats.Sys / (1024 * 1024),
	}
}
