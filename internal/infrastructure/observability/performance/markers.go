// Package performance times editor, render and publish operations per page.
package performance

import (
	"time"
)

// Operation names recorded by the HTTP layer.
const (
	OpIntents  = "editor:intents"
	OpGenerate = "editor:generate"
	OpRender   = "render:canvas"
	OpPreview  = "render:preview"
	OpPublish  = "publish:page"
)

// Marker is one timed operation.
type Marker struct {
	Operation string         `json:"operation"`
	PageID    string         `json:"pageId"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Duration  time.Duration  `json:"duration"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CacheHit  bool           `json:"cacheHit"`
	Completed bool           `json:"completed"`

	recorded bool
}

// Complete stops the clock. Repeated calls are no-ops.
func (m *Marker) Complete() {
	if m.Completed {
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError records err and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// OperationStats aggregates completed markers of one operation.
type OperationStats struct {
	Operation string        `json:"operation"`
	Count     int64         `json:"count"`
	Failures  int64         `json:"failures"`
	CacheHits int64         `json:"cacheHits"`
	Total     time.Duration `json:"-"`
	Average   time.Duration `json:"average"`
	Max       time.Duration `json:"max"`
	Last      time.Time     `json:"last"`
}

// HitRatio returns the share of operations served from cache, 0 to 1.
func (s OperationStats) HitRatio() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.Count)
}

// Alert is raised when an operation runs past its threshold.
type Alert struct {
	Timestamp time.Time     `json:"timestamp"`
	PageID    string        `json:"pageId"`
	Severity  AlertSeverity `json:"severity"`
	Operation string        `json:"operation"`
	Threshold time.Duration `json:"threshold"`
	Actual    time.Duration `json:"actual"`
}

// AlertSeverity represents the severity level of a performance alert
type AlertSeverity string

const (
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)
